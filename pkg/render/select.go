package render

import (
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// slice returns a new page covering cells z0 through z1 (exclusive) of p
// along axis, plus the headers on that axis. p0 pixels are trimmed from the
// leading edge of cell z0 and p1 pixels from the trailing edge of cell
// z1-1; nonzero trims mark cells as overflowing so their content is
// positioned and clipped correctly. The whole opposite axis is retained, so
// slicing both ways takes two calls. The caller keeps its reference to p.
func (p *Page) slice(axis, z0, p0, z1, p1 int) *Page {
	a := axis
	b := 1 - a

	// Selecting the entire page is just another reference.
	if z0 == p.h[a][0] && p0 == 0 && z1 == p.n[a]-p.h[a][1] && p1 == 0 {
		return p.Ref()
	}

	trim := [2]int{z0 - p.h[a][0], (p.n[a] - p.h[a][1]) - z1}
	n := p.n
	n[a] -= trim[0] + trim[1]
	sub := allocatePage(p.params, p.g, n)
	for k := 0; k < 2; k++ {
		sub.h[k] = p.h[k]
		sub.r[k] = p.r[k]
	}
	sub.r[a][0] += trim[0]
	sub.r[a][1] -= trim[1]

	// An edge is cut off if it was cut off before or if pixels are being
	// trimmed from a side with no header.
	sub.isEdgeCutoff[a][0] = sub.h[a][0] == 0 && (p0 != 0 || (z0 == 0 && p.isEdgeCutoff[a][0]))
	sub.isEdgeCutoff[a][1] = sub.h[a][1] == 0 && (p1 != 0 || (z1 == p.n[a] && p.isEdgeCutoff[a][1]))
	sub.isEdgeCutoff[b] = p.isEdgeCutoff[b]

	jc := sub.joinCrossing[a][:0]
	for z := 0; z < p.h[a][0]; z++ {
		jc = append(jc, p.joinCrossing[a][z])
	}
	for z := z0; z <= z1; z++ {
		jc = append(jc, p.joinCrossing[a][z])
	}
	for z := p.n[a] - p.h[a][1]; z < p.n[a]; z++ {
		jc = append(jc, p.joinCrossing[a][z])
	}
	sub.joinCrossing[a] = jc
	copy(sub.joinCrossing[b], p.joinCrossing[b])

	// Copy pixel positions: leading header, then the selected body cells
	// with the pixel trims applied, then the trailing header.
	scp := p.cp[a]
	dcp := sub.cp[a]
	di := 0
	dcp[0] = 0
	for z := 0; z <= ruleOfs(sub.h[a][0]); z++ {
		w := scp[z+1] - scp[z]
		if z == 0 && sub.isEdgeCutoff[a][0] {
			w = 0
		}
		dcp[di+1] = dcp[di] + w
		di++
	}
	for z := cellOfs(z0); z <= cellOfs(z1-1); z++ {
		dcp[di+1] = dcp[di] + (scp[z+1] - scp[z])
		if z == cellOfs(z0) {
			dcp[di+1] -= p0
			if p.h[a][0] != 0 && p.h[a][1] != 0 {
				dcp[di+1] += p.joinCrossing[a][z/2]
			}
		}
		if z == cellOfs(z1-1) {
			dcp[di+1] -= p1
		}
		di++
	}
	for z := p.ruleOfsR(a, sub.h[a][1]); z <= p.ruleOfsR(a, 0); z++ {
		if z == p.ruleOfsR(a, 0) && sub.isEdgeCutoff[a][1] {
			dcp[di+1] = dcp[di]
		} else {
			dcp[di+1] = dcp[di] + (scp[z+1] - scp[z])
		}
		di++
	}
	copy(sub.cp[b], p.cp[b][:2*sub.n[b]+2])

	s := &selection{page: p, subpage: sub, a: a, b: b, z0: z0, z1: z1, p0: p0, p1: p1}

	// Cells crossing the leading edge of the selection overflow.
	if p.h[a][0] == 0 || z0 > p.h[a][0] || p0 != 0 {
		for z := 0; z < p.n[b]; {
			var d [2]int
			d[a] = z0
			d[b] = z

			c := p.GetCell(d[0], d[1])
			overflow0 := p0 != 0 || c.Rect[a][0] < z0
			overflow1 := c.Rect[a][1] > z1 || (c.Rect[a][1] == z1 && p1 != 0)
			if overflow0 || overflow1 {
				ro := s.insertOverflow(c)

				if overflow0 {
					ro.amount[a][0] += p0 + p.axisWidth(a, cellOfs(c.Rect[a][0]), cellOfs(z0))
					if p.h[a][0] != 0 && p.h[a][1] != 0 {
						ro.amount[a][0] -= p.joinCrossing[a][c.Rect[a][0]+1]
					}
				}
				if overflow1 {
					ro.amount[a][1] += p1 + p.axisWidth(a, cellOfs(z1), cellOfs(c.Rect[a][1]))
					if p.h[a][0] != 0 && p.h[a][1] != 0 {
						ro.amount[a][1] -= p.joinCrossing[a][c.Rect[a][1]]
					}
				}
			}
			z = c.Rect[b][1]
		}
	}

	// Cells crossing the trailing edge.
	if p.h[a][1] == 0 || z1 < p.n[a]-p.h[a][1] || p1 != 0 {
		for z := 0; z < p.n[b]; {
			var d [2]int
			d[a] = z1 - 1
			d[b] = z

			c := p.GetCell(d[0], d[1])
			if (c.Rect[a][1] > z1 || (c.Rect[a][1] == z1 && p1 != 0)) &&
				s.findOverflow(c) == nil {
				ro := s.insertOverflow(c)
				ro.amount[a][1] += p1 + p.axisWidth(a, cellOfs(z1), cellOfs(c.Rect[a][1]))
			}
			z = c.Rect[b][1]
		}
	}

	// Carry over overflows that still intersect the selection.
	for _, ro := range p.overflows {
		inner := p.g.GetCell(ro.d[0], ro.d[1])
		c := Cell{Rect: inner.Rect, Inner: inner}
		if c.Rect[a][1] > z0 && c.Rect[a][0] < z1 && s.findOverflow(c) == nil {
			s.insertOverflow(c)
		}
	}

	return sub
}

// selection carries the bookkeeping for one slice operation.
type selection struct {
	page    *Page
	subpage *Page
	a, b    int
	z0, z1  int
	p0, p1  int
}

// subpagePos returns the top-left position of the cell as it will appear in
// the slice.
func (s *selection) subpagePos(c Cell) [2]int {
	ha0 := s.subpage.h[s.a][0]
	var pos [2]int
	pos[s.a] = maxInt(c.Rect[s.a][0]-s.z0+ha0, ha0)
	pos[s.b] = c.Rect[s.b][0]
	return pos
}

func (s *selection) findOverflow(c Cell) *overflow {
	return s.subpage.overflows[s.subpagePos(c)]
}

// insertOverflow adds an overflow record for the cell to the slice,
// seeding it from the cell's overflow on the source page, if any.
func (s *selection) insertOverflow(c Cell) *overflow {
	of := &overflow{d: s.subpagePos(c)}
	s.subpage.overflows[of.d] = of

	if old, ok := s.page.overflows[[2]int{c.Rect[pivot.Horz][0], c.Rect[pivot.Vert][0]}]; ok {
		of.amount = old.amount
	}
	return of
}
