// Package grid implements the flattened 2D table produced by composing a
// pivot table: a rectangle of cells, possibly joined into spans, with border
// rules along both axes and per-area style lookup. Grids are format
// agnostic; the render package consumes them through measured coordinates
// only.
package grid

import (
	"fmt"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Cell is one logical cell of a grid. A joined cell occupies every slot of
// its rectangle and is returned for each of them.
type Cell struct {
	// Rect[axis] is the half-open range of slots the cell occupies along
	// the axis.
	Rect [2][2]int

	Value *pivot.Value
	Area  pivot.Area

	// Rotate requests drawing the cell's text rotated 90 degrees.
	Rotate bool
}

// Width returns the span of the cell along the axis.
func (c *Cell) Width(axis int) int { return c.Rect[axis][1] - c.Rect[axis][0] }

// Joined reports whether the cell spans more than one slot.
func (c *Cell) Joined() bool { return c.Width(pivot.Horz) > 1 || c.Width(pivot.Vert) > 1 }

// Grid is a flattened table: N[Horz] columns by N[Vert] rows of cells, plus
// rules, header sizes, and style tables.
//
// Grids are reference counted like tables and looks: once shared, mutation
// panics. The render pager holds references across suspend/resume cycles.
type Grid struct {
	refCnt int

	// N is the grid size per axis.
	N [2]int
	// H[axis][0] is the number of header slots at the low end of the axis
	// (row label columns, column label rows); H[axis][1] at the high end.
	H [2][2]int

	cells []*Cell
	// rh holds horizontal rules, indexed x + N[Horz]*y with 0 <= y <=
	// N[Vert]; rv holds vertical rules, indexed y*(N[Horz]+1) + x with
	// 0 <= x <= N[Horz]. Entries are border indexes into Borders, offset by
	// one so the zero value means "no rule."
	rh, rv []uint8

	Areas   [pivot.AreaCount]pivot.AreaStyle
	Borders [pivot.BorderCount]pivot.BorderStyle
}

// New returns an nx by ny grid with hl header columns and ht header rows.
func New(nx, ny, hl, ht int) *Grid {
	if nx < 0 || ny < 0 || hl > nx || ht > ny {
		panic(fmt.Sprintf("grid: invalid geometry %dx%d with headers %d,%d", nx, ny, hl, ht))
	}
	return &Grid{
		refCnt: 1,
		N:      [2]int{nx, ny},
		H:      [2][2]int{{hl, 0}, {ht, 0}},
		cells:  make([]*Cell, nx*ny),
		rh:     make([]uint8, nx*(ny+1)),
		rv:     make([]uint8, (nx+1)*ny),
	}
}

// Ref acquires a new reference to the grid.
func (g *Grid) Ref() *Grid {
	g.refCnt++
	return g
}

// Unref releases one reference.
func (g *Grid) Unref() {
	if g == nil {
		return
	}
	g.refCnt--
	if g.refCnt < 0 {
		panic("grid: reference count underflow")
	}
}

// Shared reports whether the grid has more than one owner.
func (g *Grid) Shared() bool { return g.refCnt > 1 }

func (g *Grid) assertMutable() {
	if g.Shared() {
		panic("grid: mutation of a shared grid")
	}
}

func (g *Grid) checkSlot(x, y int) {
	if x < 0 || x >= g.N[pivot.Horz] || y < 0 || y >= g.N[pivot.Vert] {
		panic(fmt.Sprintf("grid: slot (%d,%d) outside %dx%d grid", x, y, g.N[pivot.Horz], g.N[pivot.Vert]))
	}
}

// Put places a cell spanning columns x1..x2 and rows y1..y2 inclusive. Every
// covered slot must be empty.
func (g *Grid) Put(x1, y1, x2, y2 int, area pivot.Area, value *pivot.Value) *Cell {
	g.assertMutable()
	g.checkSlot(x1, y1)
	g.checkSlot(x2, y2)
	if x2 < x1 || y2 < y1 {
		panic("grid: inverted cell rectangle")
	}
	c := &Cell{
		Rect:  [2][2]int{{x1, x2 + 1}, {y1, y2 + 1}},
		Value: value,
		Area:  area,
	}
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			i := x + y*g.N[pivot.Horz]
			if g.cells[i] != nil {
				panic(fmt.Sprintf("grid: slot (%d,%d) already occupied", x, y))
			}
			g.cells[i] = c
		}
	}
	return c
}

// Text places a single-slot cell.
func (g *Grid) Text(x, y int, area pivot.Area, value *pivot.Value) *Cell {
	return g.Put(x, y, x, y, area, value)
}

// GetCell returns the cell occupying slot (x, y). Empty slots yield a
// synthesized empty data cell covering just that slot.
func (g *Grid) GetCell(x, y int) *Cell {
	g.checkSlot(x, y)
	if c := g.cells[x+y*g.N[pivot.Horz]]; c != nil {
		return c
	}
	return &Cell{
		Rect: [2][2]int{{x, x + 1}, {y, y + 1}},
		Area: pivot.AreaData,
	}
}

// HLine draws a horizontal rule with the given border style above row y
// (y == N[Vert] addresses the rule below the last row), spanning columns
// x1..x2 inclusive.
func (g *Grid) HLine(b pivot.Border, x1, x2, y int) {
	g.assertMutable()
	if y < 0 || y > g.N[pivot.Vert] || x1 < 0 || x2 >= g.N[pivot.Horz] || x1 > x2 {
		panic(fmt.Sprintf("grid: hline (%d..%d, %d) out of range", x1, x2, y))
	}
	for x := x1; x <= x2; x++ {
		g.rh[x+y*g.N[pivot.Horz]] = uint8(b) + 1
	}
}

// VLine draws a vertical rule with the given border style left of column x
// (x == N[Horz] addresses the rule right of the last column), spanning rows
// y1..y2 inclusive.
func (g *Grid) VLine(b pivot.Border, x, y1, y2 int) {
	g.assertMutable()
	if x < 0 || x > g.N[pivot.Horz] || y1 < 0 || y2 >= g.N[pivot.Vert] || y1 > y2 {
		panic(fmt.Sprintf("grid: vline (%d, %d..%d) out of range", x, y1, y2))
	}
	for y := y1; y <= y2; y++ {
		g.rv[x+y*(g.N[pivot.Horz]+1)] = uint8(b) + 1
	}
}

// Box draws a rectangular frame: f on the outside edges, plus ih between
// interior rows and iv between interior columns when requested.
func (g *Grid) Box(f, ih, iv pivot.Border, x1, y1, x2, y2 int, drawIH, drawIV bool) {
	g.HLine(f, x1, x2, y1)
	g.HLine(f, x1, x2, y2+1)
	g.VLine(f, x1, y1, y2)
	g.VLine(f, x2+1, y1, y2)
	if drawIH {
		for y := y1 + 1; y <= y2; y++ {
			g.HLine(ih, x1, x2, y)
		}
	}
	if drawIV {
		for x := x1 + 1; x <= x2; x++ {
			g.VLine(iv, x, y1, y2)
		}
	}
}

// GetRule returns the style of one border rule. The axis selects the rule
// direction: Vert addresses the horizontal rule above slot row y, Horz the
// vertical rule left of slot column x; the coordinate along the selected
// axis ranges one past the cell count. Rules with no style default to no
// stroke in black.
func (g *Grid) GetRule(axis, x, y int) pivot.BorderStyle {
	var raw uint8
	if axis == pivot.Vert {
		if x < 0 || x >= g.N[pivot.Horz] || y < 0 || y > g.N[pivot.Vert] {
			panic(fmt.Sprintf("grid: rule (%d,%d) out of range", x, y))
		}
		raw = g.rh[x+y*g.N[pivot.Horz]]
	} else {
		if x < 0 || x > g.N[pivot.Horz] || y < 0 || y >= g.N[pivot.Vert] {
			panic(fmt.Sprintf("grid: rule (%d,%d) out of range", x, y))
		}
		raw = g.rv[x+y*(g.N[pivot.Horz]+1)]
	}
	if raw == 0 {
		return pivot.BorderStyle{Stroke: pivot.StrokeNone, Color: pivot.ColorBlack}
	}
	return g.Borders[raw-1]
}

// RuleExists reports whether any rule in the half-open coordinate rectangle
// carries a visible stroke. Used when deciding whether a merged rule band
// needs width.
func (g *Grid) RuleExists(axis, x, y int) bool {
	return g.GetRule(axis, x, y).Stroke != pivot.StrokeNone
}

// SetHeaders adjusts the header sizes. Panics on a shared grid.
func (g *Grid) SetHeaders(hl, hr, ht, hb int) {
	g.assertMutable()
	g.H[pivot.Horz] = [2]int{hl, hr}
	g.H[pivot.Vert] = [2]int{ht, hb}
}

// AreaStyle returns the style for cells of the given area, considering any
// per-value override attached to the cell's value.
func (g *Grid) AreaStyle(c *Cell) (pivot.FontStyle, pivot.CellStyle) {
	s := g.Areas[c.Area]
	font, cell := s.FontStyle, s.CellStyle
	if c.Value != nil && c.Value.Style != nil {
		if c.Value.Style.Font != nil {
			font = *c.Value.Style.Font
		}
		if c.Value.Style.Cell != nil {
			cell = *c.Value.Style.Cell
		}
	}
	return font, cell
}
