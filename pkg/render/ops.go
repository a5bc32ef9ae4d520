package render

import (
	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Ops is the device interface. Measurement calls must be consistent with
// later drawing calls: a cell measured at some width must render within the
// height reported for that width.
type Ops interface {
	// MeasureCellWidth reports the cell's minimum width (wrapping as much
	// as possible) and maximum width (no wrapping at all).
	MeasureCellWidth(g *grid.Grid, c *grid.Cell) (min, max int)

	// MeasureCellHeight reports the height the cell needs when rendered
	// at the given width.
	MeasureCellHeight(g *grid.Grid, c *grid.Cell, width int) int

	// DrawCell renders a cell. bb is the content box, which may extend
	// past clip when the cell overflows a page edge; the device must clip
	// to clip. spill is how far content may bleed into the adjacent rules
	// on each side, and valignOfs is the vertical alignment offset already
	// computed from the cell's style.
	DrawCell(g *grid.Grid, c *grid.Cell, colorIdx int, bb [2][2]int, valignOfs int, spill, clip [2][2]int)

	// DrawLine renders a rule intersection. bb covers the intersection
	// region and styles gives, per axis, the style of the rule segment
	// on each side of the crossing.
	DrawLine(bb [2][2]int, styles [2][2]pivot.BorderStyle)
}

// BreakAdjuster is an optional interface for devices that can suggest a
// better vertical breakpoint within a cell, e.g. between lines of text.
type BreakAdjuster interface {
	// AdjustBreak returns the best break no larger than bestHeight for
	// the cell rendered at the given width, or a negative value if the
	// cell cannot break at all.
	AdjustBreak(g *grid.Grid, c *grid.Cell, width, bestHeight int) int
}

// Scaler is an optional interface for devices that can scale their output,
// enabling shrink-to-fit rendering.
type Scaler interface {
	Scale(factor float64)
}

// Params describes the device a table is rendered for.
type Params struct {
	Ops Ops

	// Size is the usable page size per axis.
	Size [2]int

	// FontSize holds the em width (horizontal) and line spacing
	// (vertical) of the device's default font.
	FontSize [2]int

	// LineWidths gives the thickness of each stroke type.
	LineWidths [pivot.StrokeCount]int

	// PxSize is the number of layout units per pixel, used to apply the
	// heading width ranges from a table look. Zero disables the ranges.
	PxSize int

	// MinBreak is the minimum width and height of a partial cell slice.
	// Narrower or shorter cells are never split across pages.
	MinBreak [2]int

	// SupportsMargins is false on devices, such as plain text, that
	// cannot leave space between cells without an explicit rule.
	SupportsMargins bool

	// RTL mirrors the output horizontally.
	RTL bool

	// Printing selects the print rather than display variant of a table,
	// which affects layer iteration and grid lines.
	Printing bool
}

// DefaultLineWidths returns the stroke thickness table used by the built-in
// backends.
func DefaultLineWidths() [pivot.StrokeCount]int {
	return [pivot.StrokeCount]int{
		pivot.StrokeNone:   0,
		pivot.StrokeSolid:  LineWidth,
		pivot.StrokeDashed: LineWidth,
		pivot.StrokeThick:  LineWidth * 2,
		pivot.StrokeThin:   LineWidth / 2,
		pivot.StrokeDouble: 2*LineWidth + LineSpace,
	}
}

func (p *Params) adjustBreak(g *grid.Grid, c *grid.Cell, width, bestHeight int) (int, bool) {
	if a, ok := p.Ops.(BreakAdjuster); ok {
		return a.AdjustBreak(g, c, width, bestHeight), true
	}
	return 0, false
}
