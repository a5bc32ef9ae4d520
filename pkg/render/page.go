package render

import (
	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Page is the layout of one grid for one device.
//
// A fresh page from NewPage covers the whole grid and may well be larger
// than the device page size; Break slices it into subpages that fit. Every
// column, row, and rule has a fixed extent recorded in the cp arrays.
type Page struct {
	params *Params
	g      *grid.Grid
	refCnt int

	// Region of the grid covered by this page. The cells along axis a
	// are the leading h[a][0] headers, then grid cells r[a][0] up to
	// r[a][1], then the trailing h[a][1] headers, for n[a] cells total.
	h [2][2]int
	r [2][2]int
	n [2]int

	// Pixel positions along each axis. cp[a][0] is 0, cp[a][1] the far
	// edge of the first rule, cp[a][2] the far edge of the first cell,
	// and so on, alternating rules and cells up to cp[a][2*n[a]+1], the
	// total size. Rules and cells may have zero extent.
	cp [2][]int

	// Cells that do not fit this page entirely, keyed by their top-left
	// cell position on the page.
	overflows map[[2]int]*overflow

	// Whether pixels have been cut off each edge of the page by slicing
	// mid-cell. Rules along a cut edge are not drawn.
	isEdgeCutoff [2][2]bool

	// joinCrossing[a][z] is the thickness of the rule at position z when
	// breaking there would cut through a joined cell. Extra space is
	// reserved so the cell content survives the break.
	joinCrossing [2][]int
}

// overflow records how much of a cell lies off the page on each side.
type overflow struct {
	d      [2]int
	amount [2][2]int
}

// Cell is a grid cell positioned in page coordinates. Its Rect is clipped
// to the page region and may be smaller than the underlying cell's.
type Cell struct {
	Rect  [2][2]int
	Inner *grid.Cell
}

func ruleOfs(ruleIdx int) int { return ruleIdx * 2 }
func cellOfs(cellIdx int) int { return cellIdx*2 + 1 }

func (p *Page) ruleOfsR(a, ruleIdxR int) int { return (p.n[a] - ruleIdxR) * 2 }

func (p *Page) axisWidth(a, ofs0, ofs1 int) int { return p.cp[a][ofs1] - p.cp[a][ofs0] }

// Size returns the total extent of the page along an axis, rules included.
func (p *Page) Size(a int) int { return p.cp[a][2*p.n[a]+1] }

func (p *Page) headersWidth(a int) int {
	w0 := p.axisWidth(a, ruleOfs(0), cellOfs(p.h[a][0]))
	w1 := p.axisWidth(a, p.ruleOfsR(a, p.h[a][1]), cellOfs(p.n[a]))
	return w0 + w1
}

func (p *Page) cellWidth(a, x int) int { return p.axisWidth(a, cellOfs(x), cellOfs(x)+1) }

func (p *Page) ruleWidth(a, x int) int { return p.axisWidth(a, ruleOfs(x), ruleOfs(x)+1) }

func (p *Page) ruleWidthR(a, x int) int {
	ofs := p.ruleOfsR(a, x)
	return p.axisWidth(a, ofs, ofs+1)
}

func (p *Page) joinedWidth(a, x0, x1 int) int {
	return p.axisWidth(a, cellOfs(x0), cellOfs(x1)-1)
}

func (p *Page) maxCellWidth(a int) int {
	max := 0
	for x := p.h[a][0]; x < p.n[a]-p.h[a][1]; x++ {
		if w := p.cellWidth(a, x); w > max {
			max = w
		}
	}
	return max
}

// span maps a contiguous run of page cells to grid cells along one axis.
type span struct {
	p0, t0, n int
}

func (p *Page) getMap(a, z int) span {
	switch {
	case z < p.h[a][0]:
		return span{p0: 0, t0: 0, n: p.h[a][0]}
	case z < p.n[a]-p.h[a][1]:
		return span{p0: p.h[a][0], t0: p.r[a][0], n: p.r[a][1] - p.r[a][0]}
	default:
		return span{p0: p.n[a] - p.h[a][1], t0: p.g.N[a] - p.g.H[a][1], n: p.h[a][1]}
	}
}

// GetCell returns the cell at page position (x, y), with its rectangle
// translated into page coordinates and clipped to the page region.
func (p *Page) GetCell(x, y int) Cell {
	d := [2]int{x, y}
	var ms [2]span
	for a := 0; a < 2; a++ {
		ms[a] = p.getMap(a, d[a])
		d[a] += ms[a].t0 - ms[a].p0
	}

	inner := p.g.GetCell(d[0], d[1])
	c := Cell{Rect: inner.Rect, Inner: inner}
	for a := 0; a < 2; a++ {
		m := ms[a]
		for i := 0; i < 2; i++ {
			c.Rect[a][i] -= m.t0 - m.p0
		}
		if c.Rect[a][0] < m.p0 {
			c.Rect[a][0] = m.p0
		}
		if c.Rect[a][1] > m.p0+m.n {
			c.Rect[a][1] = m.p0 + m.n
		}
	}
	return c
}

// row tracks the width of one column (or height of one row) during layout.
type row struct {
	// unspanned ignores cells that join multiple columns.
	unspanned int
	// width takes joined cells into account.
	width int
}

// distributeSpannedWidth widens the n rows so that their total width plus
// the rules between them (rules[1] through rules[n-1]) is at least width.
// Extra space is apportioned half evenly and half weighted by the rows'
// unspanned widths, following the blend suggested by HTML 4.
func distributeSpannedWidth(width int, rows []row, rules []int, n int) {
	totalUnspanned := 0
	for x := 0; x < n; x++ {
		totalUnspanned += rows[x].unspanned
	}
	for x := 0; x < n-1; x++ {
		totalUnspanned += rules[x+1]
	}
	if totalUnspanned >= width {
		return
	}

	// Exact integer arithmetic: scale both shares by a common
	// denominator and carry the remainder between columns.
	d0 := int64(n)
	d1 := 2 * int64(maxInt(totalUnspanned, 1))
	d := d0 * d1
	if totalUnspanned > 0 {
		d *= 2
	}
	w := d / 2
	for x := 0; x < n; x++ {
		w += int64(width) * d1
		if totalUnspanned > 0 {
			unspanned := int64(rows[x].unspanned) * 2
			if x < n-1 {
				unspanned += int64(rules[x+1])
			}
			if x > 0 {
				unspanned += int64(rules[x])
			}
			w += int64(width) * unspanned * d0
		}

		rows[x].width = maxInt(rows[x].width, int(w/d))
		w -= int64(rows[x].width) * d
	}
}

func (p *Page) accumulateRowWidths(a int, rows []row, rules []int) {
	n := p.n[a]
	cp := p.cp[a]
	cp[0] = 0
	for z := 0; z < n; z++ {
		cp[2*z+1] = cp[2*z] + rules[z]
		cp[2*z+2] = cp[2*z+1] + rows[z].width
	}
	cp[2*n+1] = cp[2*n] + rules[n]
}

func calculateTableWidth(n int, rows []row, rules []int) int {
	width := 0
	for x := 0; x < n; x++ {
		width += rows[x].width
	}
	for x := 0; x <= n; x++ {
		width += rules[x]
	}
	return width
}

// measureRule returns the width of the rule at offset z along axis a: the
// widest stroke present anywhere along its length.
func measureRule(params *Params, g *grid.Grid, a, z int) int {
	b := 1 - a

	var present uint
	var d [2]int
	d[a] = z
	for d[b] = 0; d[b] < g.N[b]; d[b]++ {
		present |= 1 << g.GetRule(a, d[0], d[1]).Stroke
	}

	// A none stroke has zero width, but devices without margin support
	// still need a gap between columns in the table interior.
	if present&(1<<pivot.StrokeNone) != 0 {
		present &^= 1 << pivot.StrokeNone
		if z > 0 && z < g.N[a] && !params.SupportsMargins && a == pivot.Horz {
			present |= 1 << pivot.StrokeSolid
		}
	}

	width := 0
	for s := 0; s < int(pivot.StrokeCount); s++ {
		if present&(1<<s) != 0 {
			width = maxInt(width, params.LineWidths[s])
		}
	}
	return width
}

func allocatePage(params *Params, g *grid.Grid, n [2]int) *Page {
	p := &Page{
		params:    params,
		g:         g.Ref(),
		refCnt:    1,
		n:         n,
		overflows: map[[2]int]*overflow{},
	}
	for a := 0; a < 2; a++ {
		p.cp[a] = make([]int, 2*n[a]+2)
		p.joinCrossing[a] = make([]int, n[a]+1)
	}
	return p
}

func allocateFullPage(params *Params, g *grid.Grid) *Page {
	p := allocatePage(params, g, g.N)
	for a := 0; a < 2; a++ {
		p.h[a] = g.H[a]
		p.r[a][0] = g.H[a][0]
		p.r[a][1] = g.N[a] - g.H[a][1]
	}
	return p
}

func createPageWithExactWidths(params *Params, g *grid.Grid, rows []row, rules []int) *Page {
	p := allocateFullPage(params, g)
	p.accumulateRowWidths(pivot.Horz, rows, rules)
	return p
}

// createPageWithInterpolatedWidths sets each column width between its
// minimum and maximum so the columns exactly fill the device width,
// spreading the leftover space in proportion to each column's headroom.
func createPageWithInterpolatedWidths(params *Params, g *grid.Grid,
	rowsMin, rowsMax []row, wMin, wMax int, rules []int) *Page {

	n := g.N[pivot.Horz]
	avail := int64(params.Size[pivot.Horz] - wMin)
	wanted := int64(wMax - wMin)

	p := allocateFullPage(params, g)

	cph := p.cp[pivot.Horz]
	cph[0] = 0
	w := wanted / 2
	for x := 0; x < n; x++ {
		w += avail * int64(rowsMax[x].width-rowsMin[x].width)
		extra := w / wanted
		w -= extra * wanted

		cph[2*x+1] = cph[2*x] + rules[x]
		cph[2*x+2] = cph[2*x+1] + rowsMin[x].width + int(extra)
	}
	cph[2*n+1] = cph[2*n] + rules[n]
	return p
}

func (p *Page) setJoinCrossings(a int, c Cell, rules []int) {
	for z := c.Rect[a][0] + 1; z <= c.Rect[a][1]-1; z++ {
		p.joinCrossing[a][z] = rules[z]
	}
}

// NewPage lays out a grid for the device described by params. Column widths
// come from measuring every cell; if the natural widths do not fit the
// device, widths shrink toward their minimums, and below that the page is
// simply wider than the device and must be sliced with a Break. minWidth,
// when positive, widens the table to at least that size, which keeps the
// title and layer grids as wide as the table body. The look supplies the
// heading width ranges.
func NewPage(params *Params, g *grid.Grid, minWidth int, look *pivot.Look) *Page {
	const (
		mn = 0
		mx = 1
	)
	nc := g.N[pivot.Horz]
	nr := g.N[pivot.Vert]

	var rules [2][]int
	for a := 0; a < 2; a++ {
		rules[a] = make([]int, g.N[a]+1)
		for z := range rules[a] {
			rules[a][z] = measureRule(params, g, a, z)
		}
	}

	var colHeadingRange, rowHeadingRange [2]int
	for i := 0; i < 2; i++ {
		colHeadingRange[i] = look.ColHeadingWidthRange[i] * params.PxSize
		rowHeadingRange[i] = look.RowHeadingWidthRange[i] * params.PxSize
	}

	// Minimum and maximum widths of single-column cells.
	var columns [2][]row
	for i := 0; i < 2; i++ {
		columns[i] = make([]row, nc)
	}
	for y := 0; y < nr; y++ {
		for x := 0; x < nc; {
			c := g.GetCell(x, y)
			if y == c.Rect[pivot.Vert][0] && c.Width(pivot.Horz) == 1 {
				var w [2]int
				w[mn], w[mx] = params.Ops.MeasureCellWidth(g, c)

				if params.PxSize != 0 {
					var wr *[2]int
					if x < g.H[pivot.Horz][0] {
						wr = &rowHeadingRange
					} else if y < g.H[pivot.Vert][0] {
						wr = &colHeadingRange
					}
					if wr != nil {
						if w[mn] < wr[0] {
							w[mn] = wr[0]
							if w[mn] > w[mx] {
								w[mx] = w[mn]
							}
						} else if w[mx] > wr[1] {
							w[mx] = wr[1]
							if w[mx] < w[mn] {
								w[mn] = w[mx]
							}
						}
					}
				}

				for i := 0; i < 2; i++ {
					if columns[i][x].unspanned < w[i] {
						columns[i][x].unspanned = w[i]
					}
				}
			}
			x = c.Rect[pivot.Horz][1]
		}
	}

	// Distribute the widths of joined cells over their columns.
	for i := 0; i < 2; i++ {
		for x := 0; x < nc; x++ {
			columns[i][x].width = columns[i][x].unspanned
		}
	}
	for y := 0; y < nr; y++ {
		for x := 0; x < nc; {
			c := g.GetCell(x, y)
			if y == c.Rect[pivot.Vert][0] && c.Width(pivot.Horz) > 1 {
				var w [2]int
				w[mn], w[mx] = params.Ops.MeasureCellWidth(g, c)
				x0 := c.Rect[pivot.Horz][0]
				for i := 0; i < 2; i++ {
					distributeSpannedWidth(w[i], columns[i][x0:], rules[pivot.Horz][x0:], c.Width(pivot.Horz))
				}
			}
			x = c.Rect[pivot.Horz][1]
		}
	}
	if minWidth > 0 {
		for i := 0; i < 2; i++ {
			distributeSpannedWidth(minWidth, columns[i], rules[pivot.Horz], nc)
		}
	}

	// Joined cells can force a column minimum above its maximum, which
	// breaks interpolation. Raise the maximum.
	for x := 0; x < nc; x++ {
		if columns[mn][x].width > columns[mx][x].width {
			columns[mx][x].width = columns[mn][x].width
		}
	}

	var tableWidths [2]int
	for i := 0; i < 2; i++ {
		tableWidths[i] = calculateTableWidth(nc, columns[i], rules[pivot.Horz])
	}

	var p *Page
	switch {
	case tableWidths[mx] <= params.Size[pivot.Horz]:
		p = createPageWithExactWidths(params, g, columns[mx], rules[pivot.Horz])
	case tableWidths[mn] <= params.Size[pivot.Horz]:
		p = createPageWithInterpolatedWidths(params, g, columns[mn], columns[mx],
			tableWidths[mn], tableWidths[mx], rules[pivot.Horz])
	default:
		// Too wide even at the minimums. Keep them and let a Break
		// slice the page horizontally later.
		p = createPageWithExactWidths(params, g, columns[mn], rules[pivot.Horz])
	}

	// Heights of single-row cells, at the widths just decided.
	rows := make([]row, nr)
	for y := 0; y < nr; y++ {
		for x := 0; x < nc; {
			c := p.GetCell(x, y)
			if y == c.Rect[pivot.Vert][0] {
				if c.Rect[pivot.Vert][1]-c.Rect[pivot.Vert][0] == 1 {
					w := p.joinedWidth(pivot.Horz, c.Rect[pivot.Horz][0], c.Rect[pivot.Horz][1])
					h := params.Ops.MeasureCellHeight(g, c.Inner, w)
					if h > rows[y].unspanned {
						rows[y].unspanned = h
						rows[y].width = h
					}
				} else {
					p.setJoinCrossings(pivot.Vert, c, rules[pivot.Vert])
				}
				if c.Rect[pivot.Horz][1]-c.Rect[pivot.Horz][0] > 1 {
					p.setJoinCrossings(pivot.Horz, c, rules[pivot.Horz])
				}
			}
			x = c.Rect[pivot.Horz][1]
		}
	}

	// Distribute the heights of joined cells over their rows.
	for y := 0; y < nr; y++ {
		for x := 0; x < nc; {
			c := p.GetCell(x, y)
			if y == c.Rect[pivot.Vert][0] && c.Rect[pivot.Vert][1]-c.Rect[pivot.Vert][0] > 1 {
				w := p.joinedWidth(pivot.Horz, c.Rect[pivot.Horz][0], c.Rect[pivot.Horz][1])
				h := params.Ops.MeasureCellHeight(g, c.Inner, w)
				y0 := c.Rect[pivot.Vert][0]
				distributeSpannedWidth(h, rows[y0:], rules[pivot.Vert][y0:],
					c.Rect[pivot.Vert][1]-c.Rect[pivot.Vert][0])
			}
			x = c.Rect[pivot.Horz][1]
		}
	}
	p.accumulateRowWidths(pivot.Vert, rows, rules[pivot.Vert])

	// Headers that eat most of the page are worse than no headers.
	for a := 0; a < 2; a++ {
		hw := p.headersWidth(a)
		if hw*2 >= params.Size[a] || hw+p.maxCellWidth(a) > params.Size[a] {
			p.h[a][0] = 0
			p.h[a][1] = 0
			p.r[a][0] = 0
			p.r[a][1] = p.n[a]
		}
	}

	return p
}

// Ref increments the page's reference count.
func (p *Page) Ref() *Page {
	p.refCnt++
	return p
}

// Unref releases one reference, dropping the underlying grid reference when
// the count reaches zero.
func (p *Page) Unref() {
	if p == nil {
		return
	}
	if p.refCnt--; p.refCnt == 0 {
		p.g.Unref()
	}
}

// bestBreakpoint returns the best vertical break position within height,
// cutting only between rows, or 0 if not even the first row fits.
func (p *Page) bestBreakpoint(height int) int {
	if p.cp[pivot.Vert][3] > height {
		return 0
	}
	for y := 5; y <= 2*p.n[pivot.Vert]+1; y += 2 {
		if p.cp[pivot.Vert][y] > height {
			return p.cp[pivot.Vert][y-2]
		}
	}
	return height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
