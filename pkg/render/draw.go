package render

import (
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// getRule resolves the rule at doubled coordinates d, merging the styles of
// the header edge and body edge when the page repeats headers there.
func (p *Page) getRule(axis int, d [2]int) pivot.BorderStyle {
	d = [2]int{d[0] / 2, d[1] / 2}
	d2 := -1

	a := axis
	switch {
	case d[a] < p.h[a][0]:
	case d[a] <= p.n[a]-p.h[a][1]:
		if p.h[a][0] != 0 && d[a] == p.h[a][0] {
			d2 = p.h[a][0]
		} else if p.h[a][1] != 0 && d[a] == p.n[a]-p.h[a][1] {
			d2 = p.g.N[a] - p.h[a][1]
		}
		d[a] += p.r[a][0] - p.h[a][0]
	default:
		d[a] += (p.g.N[a] - p.g.H[a][1]) - (p.n[a] - p.h[a][1])
	}

	b := 1 - axis
	m := p.getMap(b, d[b])
	d[b] += m.t0 - m.p0

	border := p.g.GetRule(axis, d[0], d[1])
	if d2 >= 0 {
		d[a] = d2
		border2 := p.g.GetRule(axis, d[0], d[1])
		border.Stroke = pivot.CombineStrokes(border.Stroke, border2.Stroke)
	}
	return border
}

func isRule(z int) bool { return z&1 == 0 }

func (p *Page) renderRule(ofs, d [2]int) {
	var none pivot.BorderStyle
	var styles [2][2]pivot.BorderStyle

	for a := 0; a < 2; a++ {
		b := 1 - a

		switch {
		case !isRule(d[a]) ||
			(p.isEdgeCutoff[a][0] && d[a] == 0) ||
			(p.isEdgeCutoff[a][1] && d[a] == p.n[a]*2):
			styles[a][0] = none
			styles[a][1] = none
		case isRule(d[b]):
			if d[b] > 0 {
				e := d
				e[b]--
				styles[a][0] = p.getRule(a, e)
			} else {
				styles[a][0] = none
			}
			if d[b]/2 < p.n[b] {
				styles[a][1] = p.getRule(a, d)
			} else {
				styles[a][1] = none
			}
		default:
			styles[a][0] = p.getRule(a, d)
			styles[a][1] = styles[a][0]
		}
	}

	if styles[0][0].Stroke == pivot.StrokeNone && styles[0][1].Stroke == pivot.StrokeNone &&
		styles[1][0].Stroke == pivot.StrokeNone && styles[1][1].Stroke == pivot.StrokeNone {
		return
	}

	var bb [2][2]int
	bb[pivot.Horz][0] = ofs[pivot.Horz] + p.cp[pivot.Horz][d[pivot.Horz]]
	bb[pivot.Horz][1] = ofs[pivot.Horz] + p.cp[pivot.Horz][d[pivot.Horz]+1]
	if p.params.RTL {
		size := p.Size(pivot.Horz)
		bb[pivot.Horz][0], bb[pivot.Horz][1] = size-bb[pivot.Horz][1], size-bb[pivot.Horz][0]
	}
	bb[pivot.Vert][0] = ofs[pivot.Vert] + p.cp[pivot.Vert][d[pivot.Vert]]
	bb[pivot.Vert][1] = ofs[pivot.Vert] + p.cp[pivot.Vert][d[pivot.Vert]+1]
	p.params.Ops.DrawLine(bb, styles)
}

func (p *Page) renderCell(ofs [2]int, c Cell) {
	var bb, clip [2][2]int

	bb[pivot.Horz][0] = ofs[pivot.Horz] + p.cp[pivot.Horz][cellOfs(c.Rect[pivot.Horz][0])]
	bb[pivot.Horz][1] = ofs[pivot.Horz] + p.cp[pivot.Horz][ruleOfs(c.Rect[pivot.Horz][1])]
	if p.params.RTL {
		size := p.Size(pivot.Horz)
		bb[pivot.Horz][0], bb[pivot.Horz][1] = size-bb[pivot.Horz][1], size-bb[pivot.Horz][0]
	}
	bb[pivot.Vert][0] = ofs[pivot.Vert] + p.cp[pivot.Vert][cellOfs(c.Rect[pivot.Vert][0])]
	bb[pivot.Vert][1] = ofs[pivot.Vert] + p.cp[pivot.Vert][ruleOfs(c.Rect[pivot.Vert][1])]
	clip = bb

	_, cellStyle := p.g.AreaStyle(c.Inner)
	valignOfs := 0
	if cellStyle.VAlign != pivot.VTop {
		height := p.params.Ops.MeasureCellHeight(p.g, c.Inner, bb[pivot.Horz][1]-bb[pivot.Horz][0])
		if extra := bb[pivot.Vert][1] - bb[pivot.Vert][0] - height; extra > 0 {
			if cellStyle.VAlign == pivot.VCenter {
				extra /= 2
			}
			valignOfs = extra
		}
	}

	if of, ok := p.overflows[[2]int{c.Rect[pivot.Horz][0], c.Rect[pivot.Vert][0]}]; ok {
		for a := 0; a < 2; a++ {
			if of.amount[a][0] != 0 {
				bb[a][0] -= of.amount[a][0]
				if c.Rect[a][0] == 0 && !p.isEdgeCutoff[a][0] {
					clip[a][0] = ofs[a] + p.cp[a][ruleOfs(c.Rect[a][0])]
				}
			}
			if of.amount[a][1] != 0 {
				bb[a][1] += of.amount[a][1]
				if c.Rect[a][1] == p.n[a] && !p.isEdgeCutoff[a][1] {
					clip[a][1] = ofs[a] + p.cp[a][cellOfs(c.Rect[a][1])]
				}
			}
		}
	}

	var spill [2][2]int
	for a := 0; a < 2; a++ {
		spill[a][0] = p.ruleWidth(a, c.Rect[a][0]) / 2
		spill[a][1] = p.ruleWidth(a, c.Rect[a][1]) / 2
	}

	// Alternate the background of body rows; headers always use index 0.
	colorIdx := 0
	y0 := c.Rect[pivot.Vert][0]
	if y0 >= p.h[pivot.Vert][0] && p.n[pivot.Vert]-(y0+1) >= p.h[pivot.Vert][1] {
		colorIdx = (y0 - p.h[pivot.Vert][0]) & 1
	}

	p.params.Ops.DrawCell(p.g, c.Inner, colorIdx, bb, valignOfs, spill, clip)
}

// drawCells renders cells and rules within bb, a region in doubled
// coordinates where even ordinates are rules and odd ordinates cells.
func (p *Page) drawCells(ofs [2]int, bb [2][2]int) {
	for y := bb[pivot.Vert][0]; y < bb[pivot.Vert][1]; y++ {
		for x := bb[pivot.Horz][0]; x < bb[pivot.Horz][1]; {
			if !isRule(x) && !isRule(y) {
				c := p.GetCell(x/2, y/2)
				if y/2 == bb[pivot.Vert][0]/2 || y/2 == c.Rect[pivot.Vert][0] {
					p.renderCell(ofs, c)
				}
				x = ruleOfs(c.Rect[pivot.Horz][1])
			} else {
				x++
			}
		}
	}

	for y := bb[pivot.Vert][0]; y < bb[pivot.Vert][1]; y++ {
		for x := bb[pivot.Horz][0]; x < bb[pivot.Horz][1]; x++ {
			if isRule(x) || isRule(y) {
				p.renderRule(ofs, [2]int{x, y})
			}
		}
	}
}

// Draw renders the whole page at the given offset.
func (p *Page) Draw(ofs [2]int) {
	p.drawCells(ofs, [2][2]int{
		{0, p.n[pivot.Horz]*2 + 1},
		{0, p.n[pivot.Vert]*2 + 1},
	})
}

// clipMinExtent returns the greatest i with cp[i] <= x0.
func clipMinExtent(x0 int, cp []int) int {
	low, high, best := 0, len(cp), 0
	for low < high {
		middle := low + (high-low)/2
		if cp[middle] <= x0 {
			best = middle
			low = middle + 1
		} else {
			high = middle
		}
	}
	return best
}

// clipMaxExtent returns the least i with cp[i] >= x1, backed up over any
// zero-width positions.
func clipMaxExtent(x1 int, cp []int) int {
	low, high, best := 0, len(cp), len(cp)
	for low < high {
		middle := low + (high-low)/2
		if cp[middle] >= x1 {
			best = middle
			high = middle
		} else {
			low = middle + 1
		}
	}
	for best > 0 && cp[best-1] == cp[best] {
		best--
	}
	return best
}

// DrawRegion renders the cells and rules that intersect the clip rectangle,
// given in page pixel coordinates. Some extra content around the edges may
// be drawn; the device should clip.
func (p *Page) DrawRegion(ofs [2]int, clip [2][2]int) {
	var bb [2][2]int
	for a := 0; a < 2; a++ {
		cp := p.cp[a][:p.n[a]*2+1]
		bb[a][0] = clipMinExtent(clip[a][0], cp)
		bb[a][1] = clipMaxExtent(clip[a][1], cp)
	}
	p.drawCells(ofs, bb)
}
