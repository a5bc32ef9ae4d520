package sink

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pivotpress/pkg/compose"
	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// TermOption configures terminal rendering.
type TermOption func(*termRenderer)

// WithPlain disables color and font styling, leaving plain box-drawn text.
func WithPlain() TermOption { return func(r *termRenderer) { r.plain = true } }

// WithLayer selects the layer to render, one presentation index per layer
// dimension. The default is the table's current layer.
func WithLayer(indexes []int) TermOption {
	return func(r *termRenderer) { r.layerIndexes = indexes }
}

type termRenderer struct {
	pt           *pivot.Table
	plain        bool
	layerIndexes []int
}

// RenderTerm renders one layer of the table as box-drawn styled text.
func RenderTerm(pt *pivot.Table, opts ...TermOption) string {
	r := &termRenderer{pt: pt}
	for _, opt := range opts {
		opt(r)
	}

	pt.AssignLabelDepths()
	out := compose.Build(pt, r.layerIndexes, false)
	defer out.Unref()

	var sections []string
	for _, g := range []*grid.Grid{out.Title, out.Layers, out.Body, out.Caption, out.Footnotes} {
		if g == nil || g.N[pivot.Horz] == 0 || g.N[pivot.Vert] == 0 {
			continue
		}
		sections = append(sections, r.gridString(g))
	}
	return strings.Join(sections, "\n")
}

func (r *termRenderer) cellText(g *grid.Grid, c *grid.Cell) string {
	if c == nil || c.Value == nil {
		return ""
	}
	s, _ := c.Value.Format(r.pt)
	return s
}

// gridString renders one grid: content rows interleaved with rule rows.
func (r *termRenderer) gridString(g *grid.Grid) string {
	nx, ny := g.N[pivot.Horz], g.N[pivot.Vert]
	widths := r.columnWidths(g)

	var sb strings.Builder
	for y := 0; y <= ny; y++ {
		if rule := r.ruleRow(g, widths, y); rule != "" {
			sb.WriteString(rule)
			sb.WriteByte('\n')
		}
		if y == ny {
			break
		}
		sb.WriteString(r.contentRow(g, widths, y, nx))
		sb.WriteByte('\n')
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// columnWidths sizes each column to its widest unjoined cell, then widens
// columns as needed so joined cells fit their spans.
func (r *termRenderer) columnWidths(g *grid.Grid) []int {
	nx, ny := g.N[pivot.Horz], g.N[pivot.Vert]
	widths := make([]int, nx)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			c := g.GetCell(x, y)
			if c == nil || c.Rect[pivot.Horz][0] != x || c.Rect[pivot.Vert][0] != y {
				continue
			}
			if c.Width(pivot.Horz) == 1 {
				if w := utf8.RuneCountInString(r.cellText(g, c)); w > widths[x] {
					widths[x] = w
				}
			}
		}
	}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			c := g.GetCell(x, y)
			if c == nil || c.Rect[pivot.Horz][0] != x || c.Rect[pivot.Vert][0] != y ||
				c.Width(pivot.Horz) == 1 {
				continue
			}
			span := c.Width(pivot.Horz)
			have := span - 1 // interior rule columns
			for i := 0; i < span; i++ {
				have += widths[x+i]
			}
			for need := utf8.RuneCountInString(r.cellText(g, c)); have < need; have++ {
				widths[x+span-1]++
			}
		}
	}
	return widths
}

// ruleRow renders the horizontal rules above row y, or "" when the row has
// none.
func (r *termRenderer) ruleRow(g *grid.Grid, widths []int, y int) string {
	nx, ny := g.N[pivot.Horz], g.N[pivot.Vert]
	any := false
	for x := 0; x < nx; x++ {
		if g.GetRule(pivot.Vert, x, y).Stroke != pivot.StrokeNone {
			any = true
			break
		}
	}
	if !any {
		return ""
	}

	var sb strings.Builder
	for x := 0; x <= nx; x++ {
		var up, down, left, right pivot.Stroke
		if y > 0 {
			up = g.GetRule(pivot.Horz, x, y-1).Stroke
		}
		if y < ny {
			down = g.GetRule(pivot.Horz, x, y).Stroke
		}
		if x > 0 {
			left = g.GetRule(pivot.Vert, x-1, y).Stroke
		}
		if x < nx {
			right = g.GetRule(pivot.Vert, x, y).Stroke
		}
		sb.WriteRune(junction(up, down, left, right))
		if x < nx {
			stroke := g.GetRule(pivot.Vert, x, y).Stroke
			sb.WriteString(strings.Repeat(string(hline(stroke)), widths[x]))
		}
	}
	return sb.String()
}

// contentRow renders one row of cells separated by vertical rules.
func (r *termRenderer) contentRow(g *grid.Grid, widths []int, y, nx int) string {
	var sb strings.Builder
	for x := 0; x < nx; {
		sb.WriteRune(vline(g.GetRule(pivot.Horz, x, y).Stroke))

		c := g.GetCell(x, y)
		span, width := 1, widths[x]
		text := ""
		halign := pivot.HLeft
		var style lipgloss.Style
		if c != nil {
			span = c.Rect[pivot.Horz][1] - x
			width = span - 1
			for i := 0; i < span; i++ {
				width += widths[x+i]
			}
			if c.Rect[pivot.Horz][0] == x && c.Rect[pivot.Vert][0] == y {
				text = r.cellText(g, c)
			}
			font, cell := g.AreaStyle(c)
			halign = cell.HAlign
			style = r.cellStyle(font)
		}
		sb.WriteString(pad(text, width, halign, style, r.plain))
		x += span
	}
	sb.WriteRune(vline(g.GetRule(pivot.Horz, nx, y).Stroke))
	return sb.String()
}

func (r *termRenderer) cellStyle(font pivot.FontStyle) lipgloss.Style {
	s := lipgloss.NewStyle()
	if font.Bold {
		s = s.Bold(true)
	}
	if font.Italic {
		s = s.Italic(true)
	}
	if font.Underline {
		s = s.Underline(true)
	}
	if fg := font.Fg[0]; fg != pivot.ColorBlack && fg.Alpha > 0 {
		s = s.Foreground(lipgloss.Color(fg.Hex()))
	}
	return s
}

func pad(text string, width int, halign pivot.HAlign, style lipgloss.Style, plain bool) string {
	n := utf8.RuneCountInString(text)
	if n > width {
		text = string([]rune(text)[:width])
		n = width
	}
	var left int
	switch halign {
	case pivot.HCenter:
		left = (width - n) / 2
	case pivot.HRight, pivot.HDecimal:
		left = width - n
	}
	if !plain {
		text = style.Render(text)
	}
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}

func hline(s pivot.Stroke) rune {
	switch s {
	case pivot.StrokeNone:
		return ' '
	case pivot.StrokeDouble:
		return '═'
	case pivot.StrokeThick:
		return '━'
	default:
		return '─'
	}
}

func vline(s pivot.Stroke) rune {
	switch s {
	case pivot.StrokeNone:
		return ' '
	case pivot.StrokeDouble:
		return '║'
	case pivot.StrokeThick:
		return '┃'
	default:
		return '│'
	}
}

// junction picks the box-drawing character joining up to four rule arms.
func junction(up, down, left, right pivot.Stroke) rune {
	idx := 0
	if up != pivot.StrokeNone {
		idx |= 1
	}
	if down != pivot.StrokeNone {
		idx |= 2
	}
	if left != pivot.StrokeNone {
		idx |= 4
	}
	if right != pivot.StrokeNone {
		idx |= 8
	}
	return [16]rune{
		' ', '╵', '╷', '│', '╴', '┘', '┐', '┤',
		'╶', '└', '┌', '├', '─', '┴', '┬', '┼',
	}[idx]
}
