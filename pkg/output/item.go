// Package output models the stream of heterogeneous items a rendering
// backend consumes: tables, charts, images, text, diagnostic messages, page
// breaks, and groups of other items.
package output

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Kind discriminates the variants of [Item].
type Kind int

const (
	KindChart Kind = iota
	KindGroup
	KindImage
	KindMessage
	KindPageBreak
	KindTable
	KindText
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindChart:
		return "chart"
	case KindGroup:
		return "group"
	case KindImage:
		return "image"
	case KindMessage:
		return "message"
	case KindPageBreak:
		return "page break"
	case KindTable:
		return "table"
	case KindText:
		return "text"
	default:
		return "invalid"
	}
}

// TextType classifies a text item.
type TextType int

const (
	// TextPageTitle sets the page title for paginated backends; it produces
	// no body output of its own.
	TextPageTitle TextType = iota
	// TextTitle is an output title.
	TextTitle
	// TextSyntax is echoed command input.
	TextSyntax
	// TextLog is ordinary log output.
	TextLog
)

// Severity ranks a diagnostic message.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// Message is a diagnostic attached to a message item.
type Message struct {
	Severity Severity
	// Location names the source of the diagnostic ("FILE:LINE" or similar);
	// it may be empty.
	Location string
	Command  string
	Text     string
}

// String formats the message the way it appears when converted to text
// output: location prefix, severity, command name, then the text.
func (m *Message) String() string {
	var sb strings.Builder
	if m.Location != "" {
		sb.WriteString(m.Location)
		sb.WriteString(": ")
	}
	sb.WriteString(m.Severity.String())
	sb.WriteString(": ")
	if m.Command != "" {
		fmt.Fprintf(&sb, "%s: ", m.Command)
	}
	sb.WriteString(m.Text)
	return sb.String()
}

// Item is one element of an output stream. Exactly one of the variant
// fields corresponding to Kind is meaningful.
type Item struct {
	// ID identifies the item across serialization boundaries.
	ID uuid.UUID

	Kind Kind

	// label overrides the kind-specific default; see [Item.Label].
	label string

	// CommandName names the command that produced the item, if known.
	CommandName string

	// Show is false for items suppressed by output filtering. Hidden items
	// are still part of the stream so that grouping stays intact.
	Show bool

	Table    *pivot.Table
	Chart    *Chart
	Image    image.Image
	Text     *TextData
	Message  *Message
	Children []*Item
}

// TextData is the payload of a text item.
type TextData struct {
	Type TextType
	// Content carries the text with any inline styling.
	Content *pivot.Value
}

func newItem(kind Kind) *Item {
	return &Item{ID: uuid.New(), Kind: kind, Show: true}
}

// NewTable returns a table item. The item shares the caller's reference to
// the table; label depths are assigned so the table is ready to compose.
func NewTable(t *pivot.Table) *Item {
	t.AssignLabelDepths()
	item := newItem(KindTable)
	item.Table = t
	return item
}

// NewChart returns a chart item.
func NewChart(c *Chart) *Item {
	item := newItem(KindChart)
	item.Chart = c
	return item
}

// NewImage returns an image item.
func NewImage(img image.Image) *Item {
	item := newItem(KindImage)
	item.Image = img
	return item
}

// NewText returns a text item of the given type.
func NewText(typ TextType, content *pivot.Value) *Item {
	item := newItem(KindText)
	item.Text = &TextData{Type: typ, Content: content}
	return item
}

// NewTextString is shorthand for a plain-string text item.
func NewTextString(typ TextType, s string) *Item {
	return NewText(typ, pivot.NewText(s))
}

// NewMessage returns a message item.
func NewMessage(m *Message) *Item {
	item := newItem(KindMessage)
	item.Message = m
	item.CommandName = m.Command
	return item
}

// NewPageBreak returns a page break item.
func NewPageBreak() *Item {
	return newItem(KindPageBreak)
}

// NewGroup returns a group item containing the given children.
func NewGroup(children ...*Item) *Item {
	item := newItem(KindGroup)
	item.Children = children
	return item
}

// SetLabel overrides the item's default label.
func (item *Item) SetLabel(label string) {
	item.label = label
}

// Label returns the item's label: the explicit override if one was set,
// otherwise a kind-specific default (a chart or table title, the command
// name of a group, the message severity, the text type name).
func (item *Item) Label() string {
	if item.label != "" {
		return item.label
	}
	switch item.Kind {
	case KindChart:
		if item.Chart != nil && item.Chart.Title != "" {
			return item.Chart.Title
		}
		return "Chart"
	case KindGroup:
		if item.CommandName != "" {
			return item.CommandName
		}
		return "Group"
	case KindImage:
		return "Image"
	case KindMessage:
		switch item.Message.Severity {
		case SeverityError:
			return "Error"
		case SeverityWarning:
			return "Warning"
		default:
			return "Note"
		}
	case KindPageBreak:
		return "Page Break"
	case KindTable:
		if item.Table.Title == nil {
			return "Table"
		}
		label, _ := item.Table.Title.Format(item.Table)
		return label
	case KindText:
		switch item.Text.Type {
		case TextPageTitle:
			return "Page Title"
		case TextTitle:
			return "Title"
		case TextSyntax, TextLog:
			return "Log"
		default:
			return "Text"
		}
	default:
		return "Invalid"
	}
}

// ToText converts a message item into an equivalent log text item. The
// resolved label carries over so a severity override survives conversion.
func (item *Item) ToText() *Item {
	if item.Kind != KindMessage {
		panic("output: ToText on a non-message item")
	}
	text := NewTextString(TextLog, item.Message.String())
	text.SetLabel(item.Label())
	text.CommandName = item.CommandName
	return text
}

// textLook is the borderless, marginless look applied to tables converted
// from text items, so they render as bare paragraphs.
var textLook = sync.OnceValue(func() *pivot.Look {
	l := pivot.NewLook()
	for a := pivot.Area(0); a < pivot.AreaCount; a++ {
		l.Areas[a].CellStyle.Margin = [2][2]int{}
	}
	for b := pivot.Border(0); b < pivot.BorderCount; b++ {
		l.Borders[b].Stroke = pivot.StrokeNone
	}
	return l
})

// ToTable converts a text item into a one-cell table item, which lets
// table-only rendering paths handle text output uniformly.
func (item *Item) ToTable() *Item {
	if item.Kind != KindText {
		panic("output: ToTable on a non-text item")
	}

	t := pivot.New("")
	t.Title = nil
	t.Subtype = pivot.NewText("Text")
	t.SetLook(textLook().Ref())

	d := pivot.NewDimension(t, pivot.AxisRow, pivot.NewGroup(pivot.NewText("Text"),
		pivot.NewLeaf(pivot.NewText("null"))))
	d.HideAllLabels = true

	t.Put([]int{0}, item.Text.Content.Clone())

	table := NewTable(t)
	table.CommandName = item.CommandName
	return table
}
