// Package pivot implements the pivot table data model: typed formattable
// values, dimensions with hierarchical category trees, sparse cube storage,
// footnotes, and the look (style) configuration.
//
// A pivot table is an N-dimensional labeled data cube. Each [Dimension] is
// assigned to one of three axes (row, column, layer) and owns a tree of
// categories whose leaves index the cube. The composer in package compose
// flattens a table into 2D grids for rendering.
package pivot

import (
	"fmt"
	"sort"
	"strings"
)

// ValueKind discriminates the variants of [Value].
type ValueKind int

const (
	// ValueNumber is a numeric value with an output format.
	ValueNumber ValueKind = iota
	// ValueString is a string datum, possibly hex-formatted.
	ValueString
	// ValueVariable is a reference to a variable by name.
	ValueVariable
	// ValueText is an already-localized plain text string.
	ValueText
	// ValueTemplate is a format template plus argument lists, used for
	// generated statistical captions.
	ValueTemplate
)

// NumberData is the payload of a numeric value.
type NumberData struct {
	X      float64
	Format Format
	// HonorSmall switches fixed-point output to scientific notation when the
	// magnitude is nonzero and below the table's small threshold.
	HonorSmall bool
	// VarName and ValueLabel identify the source variable and the value
	// label, either may be empty.
	VarName    string
	ValueLabel string
	Show       Show
}

// StringData is the payload of a string value.
type StringData struct {
	S          string
	Hex        bool // Format bytes as hex digit pairs.
	VarName    string
	ValueLabel string
	Show       Show
}

// VariableData is the payload of a variable-reference value.
type VariableData struct {
	Name  string
	Label string
	Show  Show
}

// TextData is the payload of a plain text value.
type TextData struct {
	Local string
	// UserProvided distinguishes text supplied by the user from text
	// generated by the system, which affects style defaults in some outputs.
	UserProvided bool
}

// TemplateData is the payload of a template value. Args holds one ordered
// list of values per template argument.
type TemplateData struct {
	Text string
	Args [][]*Value
}

// Value is a formattable datum shown in one cell, heading, title, caption, or
// footnote of a pivot table. Exactly one of the payload pointers matching
// Kind is non-nil.
//
// A value may be decorated with footnote references, subscripts, and style
// overrides. Values are treated as immutable once a table containing them has
// been composed for display.
type Value struct {
	Kind   ValueKind
	Number *NumberData
	String *StringData
	Var    *VariableData
	Text   *TextData
	Tmpl   *TemplateData

	// Footnotes holds indexes into the owning table's footnote list, sorted
	// ascending with duplicates suppressed at attach time.
	Footnotes  []int
	Subscripts []string
	Style      *ValueStyle
}

// NewNumber returns a numeric value with the table's default format.
func NewNumber(x float64) *Value {
	return &Value{Kind: ValueNumber, Number: &NumberData{X: x}}
}

// NewNumberFormat returns a numeric value with an explicit format.
func NewNumberFormat(x float64, f Format) *Value {
	return &Value{Kind: ValueNumber, Number: &NumberData{X: x, Format: f}}
}

// NewString returns a string value.
func NewString(s string) *Value {
	return &Value{Kind: ValueString, String: &StringData{S: s}}
}

// NewVariable returns a reference to a variable by name with an optional
// label.
func NewVariable(name, label string) *Value {
	return &Value{Kind: ValueVariable, Var: &VariableData{Name: name, Label: label}}
}

// NewText returns a plain text value provided by the user.
func NewText(s string) *Value {
	return &Value{Kind: ValueText, Text: &TextData{Local: s, UserProvided: true}}
}

// NewTextf formats a plain text value.
func NewTextf(format string, args ...any) *Value {
	return NewText(fmt.Sprintf(format, args...))
}

// NewTemplate returns a template value over the given argument lists. See
// [Table.FormatTemplate] for the template language.
func NewTemplate(text string, args [][]*Value) *Value {
	return &Value{Kind: ValueTemplate, Tmpl: &TemplateData{Text: text, Args: args}}
}

// Clone returns a deep copy of the value, detached from any shared owner.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	n := *v
	switch {
	case v.Number != nil:
		d := *v.Number
		n.Number = &d
	case v.String != nil:
		d := *v.String
		n.String = &d
	case v.Var != nil:
		d := *v.Var
		n.Var = &d
	case v.Text != nil:
		d := *v.Text
		n.Text = &d
	case v.Tmpl != nil:
		d := TemplateData{Text: v.Tmpl.Text, Args: make([][]*Value, len(v.Tmpl.Args))}
		for i, arg := range v.Tmpl.Args {
			d.Args[i] = make([]*Value, len(arg))
			for j, av := range arg {
				d.Args[i][j] = av.Clone()
			}
		}
		n.Tmpl = &d
	}
	n.Footnotes = append([]int(nil), v.Footnotes...)
	n.Subscripts = append([]string(nil), v.Subscripts...)
	if v.Style != nil {
		s := ValueStyle{}
		if v.Style.Font != nil {
			f := *v.Style.Font
			s.Font = &f
		}
		if v.Style.Cell != nil {
			c := *v.Style.Cell
			s.Cell = &c
		}
		n.Style = &s
	}
	return &n
}

// AddFootnote attaches a reference to footnote f. The reference list stays
// sorted by footnote index and a duplicate reference is ignored.
func (v *Value) AddFootnote(f *Footnote) {
	i := sort.SearchInts(v.Footnotes, f.Index)
	if i < len(v.Footnotes) && v.Footnotes[i] == f.Index {
		return
	}
	v.Footnotes = append(v.Footnotes, 0)
	copy(v.Footnotes[i+1:], v.Footnotes[i:])
	v.Footnotes[i] = f.Index
}

// AddSubscript appends a subscript to the value.
func (v *Value) AddSubscript(s string) {
	v.Subscripts = append(v.Subscripts, s)
}

// SetFont sets a per-value font style override.
func (v *Value) SetFont(f FontStyle) {
	if v.Style == nil {
		v.Style = &ValueStyle{}
	}
	v.Style.Font = &f
}

// SetCellStyle sets a per-value cell style override.
func (v *Value) SetCellStyle(c CellStyle) {
	if v.Style == nil {
		v.Style = &ValueStyle{}
	}
	v.Style.Cell = &c
}

// FormatBody renders the business content of the value: no subscripts, no
// footnote markers. It reports whether the rendered content is numeric, which
// drives mixed-alignment resolution.
//
// A nil table context applies default display settings.
func (v *Value) FormatBody(pt *Table) (string, bool) {
	var sb strings.Builder
	numeric := v.formatBody(&sb, pt)
	return sb.String(), numeric
}

func (v *Value) formatBody(sb *strings.Builder, pt *Table) bool {
	switch v.Kind {
	case ValueNumber:
		d := v.Number
		show := interpretShow(globalShowValues, tableShow(pt, false), d.Show, d.ValueLabel != "")
		if show == ShowValue || show == ShowBoth {
			f := d.Format
			if f.Type == FmtF && d.HonorSmall && d.X != 0 && absFloat(d.X) < tableSmall(pt) {
				f = E(40, maxInt(f.D, 1))
			}
			sb.WriteString(f.Apply(d.X))
		}
		if show == ShowLabel || show == ShowBoth {
			if show == ShowBoth {
				sb.WriteByte(' ')
			}
			sb.WriteString(d.ValueLabel)
		}
		return show == ShowValue

	case ValueString:
		d := v.String
		show := interpretShow(globalShowValues, tableShow(pt, false), d.Show, d.ValueLabel != "")
		if show == ShowValue || show == ShowBoth {
			if d.Hex {
				for i := 0; i < len(d.S); i++ {
					fmt.Fprintf(sb, "%02X", d.S[i])
				}
			} else {
				sb.WriteString(d.S)
			}
		}
		if show == ShowLabel || show == ShowBoth {
			if show == ShowBoth {
				sb.WriteByte(' ')
			}
			sb.WriteString(d.ValueLabel)
		}
		return false

	case ValueVariable:
		d := v.Var
		show := interpretShow(globalShowVariables, tableShow(pt, true), d.Show, d.Label != "")
		if show == ShowValue || show == ShowBoth {
			sb.WriteString(d.Name)
		}
		if show == ShowLabel || show == ShowBoth {
			if show == ShowBoth {
				sb.WriteByte(' ')
			}
			sb.WriteString(d.Label)
		}
		return false

	case ValueText:
		s := v.Text.Local
		if v.Style != nil && v.Style.Font != nil && v.Style.Font.Markup {
			s = stripMarkup(s)
		}
		sb.WriteString(s)
		return false

	case ValueTemplate:
		formatTemplate(sb, v.Tmpl.Text, v.Tmpl.Args, pt)
		return false

	default:
		panic(fmt.Sprintf("pivot: invalid value kind %d", v.Kind))
	}
}

// Format renders the value in full: body, then subscripts, then footnote
// markers, in that order. It reports whether the body is numeric.
func (v *Value) Format(pt *Table) (string, bool) {
	var sb strings.Builder
	numeric := v.formatValue(&sb, pt)
	return sb.String(), numeric
}

func (v *Value) formatValue(sb *strings.Builder, pt *Table) bool {
	numeric := v.formatBody(sb, pt)

	if len(v.Subscripts) > 0 {
		for i, s := range v.Subscripts {
			if i == 0 {
				sb.WriteByte('_')
			} else {
				sb.WriteByte(',')
			}
			sb.WriteString(s)
		}
	}

	if pt != nil {
		for _, idx := range v.Footnotes {
			if idx < len(pt.Footnotes) {
				sb.WriteByte('[')
				pt.Footnotes[idx].MarkerValue(pt).formatValue(sb, pt)
				sb.WriteByte(']')
			}
		}
	}
	return numeric
}

// globalShowValues and globalShowVariables are the process-wide display
// defaults, the last level of the override chain. They are set once at
// startup if at all.
var (
	globalShowValues    = ShowDefault
	globalShowVariables = ShowDefault
)

// SetGlobalShow configures the process-wide value and variable display
// policies. Intended for one-time configuration at startup.
func SetGlobalShow(values, variables Show) {
	globalShowValues = values
	globalShowVariables = variables
}

func tableShow(pt *Table, variables bool) Show {
	if pt == nil {
		return ShowDefault
	}
	if variables {
		return pt.ShowVariables
	}
	return pt.ShowValues
}

func tableSmall(pt *Table) float64 {
	if pt == nil {
		return 0
	}
	return pt.Small
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// stripMarkup removes angle-bracketed tags from a marked-up string, leaving
// the plain text. Used when a markup-bearing value must render on a surface
// with no rich text support.
func stripMarkup(s string) string {
	var sb strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
