// Package sink provides output backends for the renderer: SVG (with PDF and
// PNG conversion), terminal text, and XLSX workbooks.
package sink

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render"
	"github.com/matzehuels/pivotpress/pkg/text"
)

// SVGOption configures an [SVG] device.
type SVGOption func(*SVG)

// WithTable sets the table used to resolve cell value display (footnote
// markers, the small-number threshold, and so on).
func WithTable(pt *pivot.Table) SVGOption { return func(s *SVG) { s.pt = pt } }

// WithLayouter replaces the default metric text layouter.
func WithLayouter(l text.Layouter) SVGOption { return func(s *SVG) { s.shaper = l } }

// WithRTL renders rules with start and end sides swapped.
func WithRTL() SVGOption { return func(s *SVG) { s.rtl = true } }

// SVG is a rendering device that accumulates drawing operations as SVG
// elements. It implements the full device surface, including break
// adjustment and shrink-to-fit scaling.
//
// Coordinates arrive in layout units and are emitted in points. The caller
// positions successive pager chunks with [SVG.Translate] and retrieves the
// finished document with [SVG.Finish].
type SVG struct {
	pt     *pivot.Table
	shaper text.Layouter
	rtl    bool

	body   bytes.Buffer
	ofs    [2]int
	scale  float64
	bounds [2]int
	nclips int
}

// NewSVG returns an empty SVG device.
func NewSVG(opts ...SVGOption) *SVG {
	s := &SVG{
		shaper: text.NewMetric(render.Unit),
		scale:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate moves the drawing origin for subsequent operations, in layout
// units. Drivers call it between pager chunks.
func (s *SVG) Translate(x, y int) {
	s.ofs[pivot.Horz] += x
	s.ofs[pivot.Vert] += y
}

// Scale implements shrink-to-fit scaling.
func (s *SVG) Scale(factor float64) { s.scale = factor }

func (s *SVG) toPt(v int) float64 { return float64(v) * s.scale / render.Unit }

func (s *SVG) extend(x, y int) {
	if x > s.bounds[pivot.Horz] {
		s.bounds[pivot.Horz] = x
	}
	if y > s.bounds[pivot.Vert] {
		s.bounds[pivot.Vert] = y
	}
}

func (s *SVG) cellText(c *grid.Cell) string {
	if c.Value == nil {
		return ""
	}
	t, _ := c.Value.Format(s.pt)
	return t
}

// marginBox converts the cell's pixel margins to layout units.
func marginBox(cell pivot.CellStyle) [2][2]int {
	var m [2][2]int
	for a := 0; a < 2; a++ {
		for i := 0; i < 2; i++ {
			m[a][i] = render.PxUnits(cell.Margin[a][i])
		}
	}
	return m
}

// MeasureCellWidth reports the cell's minimum width (wrapped at every word
// boundary) and maximum width (unwrapped).
func (s *SVG) MeasureCellWidth(g *grid.Grid, c *grid.Cell) (min, max int) {
	font, cell := g.AreaStyle(c)
	t := s.cellText(c)
	m := marginBox(cell)
	hm := m[pivot.Horz][0] + m[pivot.Horz][1]

	max = s.shaper.Layout(t, font, -1).Size()[pivot.Horz] + hm
	for _, word := range strings.Fields(t) {
		if w := s.shaper.Layout(word, font, -1).Size()[pivot.Horz] + hm; w > min {
			min = w
		}
	}
	if min == 0 {
		min = hm
	}
	if min > max {
		max = min
	}
	return min, max
}

// MeasureCellHeight reports the cell's height when wrapped to the width.
func (s *SVG) MeasureCellHeight(g *grid.Grid, c *grid.Cell, width int) int {
	font, cell := g.AreaStyle(c)
	m := marginBox(cell)
	box := s.shaper.Layout(s.cellText(c), font, width-m[pivot.Horz][0]-m[pivot.Horz][1])
	return box.Size()[pivot.Vert] + m[pivot.Vert][0] + m[pivot.Vert][1]
}

// AdjustBreak rounds a proposed vertical break down to a line boundary.
func (s *SVG) AdjustBreak(g *grid.Grid, c *grid.Cell, width, bestHeight int) int {
	font, cell := g.AreaStyle(c)
	m := marginBox(cell)
	box := s.shaper.Layout(s.cellText(c), font, width-m[pivot.Horz][0]-m[pivot.Horz][1])

	adjusted := 0
	for _, line := range box.Lines() {
		if bottom := line.Bottom + m[pivot.Vert][0]; bottom <= bestHeight {
			adjusted = bottom
		}
	}
	return adjusted
}

// DrawCell emits the cell background and its text lines, clipped to clip.
func (s *SVG) DrawCell(g *grid.Grid, c *grid.Cell, colorIdx int, bb [2][2]int, valignOfs int, spill, clip [2][2]int) {
	font, cell := g.AreaStyle(c)
	m := marginBox(cell)

	bg := font.Bg[colorIdx]
	if bg != pivot.ColorWhite && bg.Alpha > 0 {
		fmt.Fprintf(&s.body,
			"<rect x=%q y=%q width=%q height=%q fill=%q/>\n",
			ptStr(s.toPt(s.ofs[pivot.Horz]+bb[pivot.Horz][0]-spill[pivot.Horz][0])),
			ptStr(s.toPt(s.ofs[pivot.Vert]+bb[pivot.Vert][0]-spill[pivot.Vert][0])),
			ptStr(s.toPt(bb[pivot.Horz][1]-bb[pivot.Horz][0]+spill[pivot.Horz][0]+spill[pivot.Horz][1])),
			ptStr(s.toPt(bb[pivot.Vert][1]-bb[pivot.Vert][0]+spill[pivot.Vert][0]+spill[pivot.Vert][1])),
			bg.Hex())
	}

	width := bb[pivot.Horz][1] - bb[pivot.Horz][0] - m[pivot.Horz][0] - m[pivot.Horz][1]
	box := s.shaper.Layout(s.cellText(c), font, width)

	clipID := ""
	if clip != bb {
		s.nclips++
		clipID = fmt.Sprintf("c%d", s.nclips)
		fmt.Fprintf(&s.body,
			"<clipPath id=%q><rect x=%q y=%q width=%q height=%q/></clipPath>\n",
			clipID,
			ptStr(s.toPt(s.ofs[pivot.Horz]+clip[pivot.Horz][0])),
			ptStr(s.toPt(s.ofs[pivot.Vert]+clip[pivot.Vert][0])),
			ptStr(s.toPt(clip[pivot.Horz][1]-clip[pivot.Horz][0])),
			ptStr(s.toPt(clip[pivot.Vert][1]-clip[pivot.Vert][0])))
		fmt.Fprintf(&s.body, "<g clip-path=\"url(#%s)\">\n", clipID)
	}

	anchor, xref := "start", bb[pivot.Horz][0]+m[pivot.Horz][0]
	switch cell.HAlign {
	case pivot.HCenter:
		anchor, xref = "middle", (bb[pivot.Horz][0]+bb[pivot.Horz][1])/2
	case pivot.HRight, pivot.HDecimal:
		anchor, xref = "end", bb[pivot.Horz][1]-m[pivot.Horz][1]
	case pivot.HMixed:
		if c.Value != nil {
			if _, numeric := c.Value.Format(s.pt); numeric {
				anchor, xref = "end", bb[pivot.Horz][1]-m[pivot.Horz][1]
			}
		}
	}

	top := bb[pivot.Vert][0] + m[pivot.Vert][0] + valignOfs
	for _, line := range box.Lines() {
		if line.Text == "" {
			continue
		}
		fmt.Fprintf(&s.body,
			"<text x=%q y=%q text-anchor=%q %s>%s</text>\n",
			ptStr(s.toPt(s.ofs[pivot.Horz]+xref)),
			ptStr(s.toPt(s.ofs[pivot.Vert]+top+line.Bottom)),
			anchor, fontAttrs(font), escape(line.Text))
	}

	if clipID != "" {
		s.body.WriteString("</g>\n")
	}
	s.extend(s.ofs[pivot.Horz]+clip[pivot.Horz][1], s.ofs[pivot.Vert]+clip[pivot.Vert][1])
}

// DrawLine emits the rule segments for one intersection.
func (s *SVG) DrawLine(bb [2][2]int, styles [2][2]pivot.BorderStyle) {
	for _, seg := range render.RuleSegments(bb, styles, s.rtl) {
		dash := ""
		if seg.Stroke == pivot.StrokeDashed {
			dash = ` stroke-dasharray="2 1"`
		}
		fmt.Fprintf(&s.body,
			"<line x1=%q y1=%q x2=%q y2=%q stroke=%q stroke-width=%q%s/>\n",
			ptStr(s.toPt(s.ofs[pivot.Horz]+seg.X0)),
			ptStr(s.toPt(s.ofs[pivot.Vert]+seg.Y0)),
			ptStr(s.toPt(s.ofs[pivot.Horz]+seg.X1)),
			ptStr(s.toPt(s.ofs[pivot.Vert]+seg.Y1)),
			seg.Color.Hex(), ptStr(s.toPt(strokeWidth(seg.Stroke))), dash)
	}
	s.extend(s.ofs[pivot.Horz]+bb[pivot.Horz][1], s.ofs[pivot.Vert]+bb[pivot.Vert][1])
}

// DrawChart inlines the Graphviz rendering of the chart, scaled to the
// given box.
func (s *SVG) DrawChart(c *output.Chart, width, height int) {
	svg, err := c.RenderSVG(context.Background())
	if err != nil {
		fmt.Fprintf(&s.body, "<!-- chart failed: %s -->\n", escape(err.Error()))
		return
	}
	fmt.Fprintf(&s.body, "<svg x=%q y=%q width=%q height=%q>\n",
		ptStr(s.toPt(s.ofs[pivot.Horz])), ptStr(s.toPt(s.ofs[pivot.Vert])),
		ptStr(s.toPt(width)), ptStr(s.toPt(height)))
	s.body.Write(svg)
	s.body.WriteString("</svg>\n")
	s.extend(s.ofs[pivot.Horz]+width, s.ofs[pivot.Vert]+height)
}

// DrawImage embeds the image as a base64 PNG.
func (s *SVG) DrawImage(img image.Image, width, height int) {
	var raw bytes.Buffer
	if err := png.Encode(&raw, img); err != nil {
		fmt.Fprintf(&s.body, "<!-- image failed: %s -->\n", escape(err.Error()))
		return
	}
	fmt.Fprintf(&s.body,
		"<image x=%q y=%q width=%q height=%q href=\"data:image/png;base64,%s\"/>\n",
		ptStr(s.toPt(s.ofs[pivot.Horz])), ptStr(s.toPt(s.ofs[pivot.Vert])),
		ptStr(s.toPt(width)), ptStr(s.toPt(height)),
		base64.StdEncoding.EncodeToString(raw.Bytes()))
	s.extend(s.ofs[pivot.Horz]+width, s.ofs[pivot.Vert]+height)
}

// Finish returns the complete SVG document.
func (s *SVG) Finish() []byte {
	w := s.toPt(s.bounds[pivot.Horz])
	h := s.toPt(s.bounds[pivot.Vert])

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func strokeWidth(stroke pivot.Stroke) int {
	switch stroke {
	case pivot.StrokeThick:
		return render.LineWidth * 2
	case pivot.StrokeThin:
		return render.LineWidth / 2
	default:
		return render.LineWidth
	}
}

func fontAttrs(f pivot.FontStyle) string {
	var sb strings.Builder
	family := f.Typeface
	if family == "" {
		family = "sans-serif"
	}
	size := f.Size
	if size <= 0 {
		size = 9
	}
	fmt.Fprintf(&sb, "font-family=%q font-size=\"%d\"", family, size)
	if f.Bold {
		sb.WriteString(` font-weight="bold"`)
	}
	if f.Italic {
		sb.WriteString(` font-style="italic"`)
	}
	if f.Underline {
		sb.WriteString(` text-decoration="underline"`)
	}
	if f.Fg[0] != pivot.ColorBlack {
		fmt.Fprintf(&sb, " fill=%q", f.Fg[0].Hex())
	}
	return sb.String()
}

func ptStr(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
