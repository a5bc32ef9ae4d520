package render

import (
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Break iterates over slices of a page along one axis, each slice no larger
// than a requested size. Headers along the axis repeat on every slice.
type Break struct {
	page *Page
	axis int
	z    int // next cell along the axis
	px   int // pixel offset within cell z, usually 0
}

// newBreak initializes a break over page along axis, taking ownership of
// the page reference.
func newBreak(page *Page, axis int) Break {
	return Break{page: page, axis: axis, z: page.h[axis][0]}
}

func emptyBreak() Break { return Break{} }

func (b *Break) destroy() {
	b.page.Unref()
	b.page = nil
}

// HasNext reports whether any cells remain to slice off.
func (b *Break) HasNext() bool {
	return b.page != nil && b.z < b.page.n[b.axis]-b.page.h[b.axis][1]
}

// Next returns a slice of the page up to size pixels along the break's
// axis, or nil if the page is exhausted or size cannot fit any content.
// The latter never happens when size is at least the device size used to
// create the page.
func (b *Break) Next(size int) *Page {
	if !b.HasNext() {
		return nil
	}
	page := b.page
	axis := b.axis

	px := 0
	z := b.z
	for ; z < page.n[axis]-page.h[axis][1]; z++ {
		needed := b.neededSize(z + 1)
		if needed <= size {
			continue
		}
		if b.breakable(z) {
			// Without a trailing header, a partial cell must not end
			// with the body's last rule, or it would look complete.
			ruleAllowance := 0
			if page.h[axis][1] == 0 {
				ruleAllowance = page.ruleWidth(axis, z)
			}

			overhang := needed - size - ruleAllowance
			cellSize := page.cellWidth(axis, z)
			cellOfs := 0
			if z == b.z {
				cellOfs = b.px
			}
			cellLeft := cellSize - cellOfs

			// A small but visible width.
			em := page.params.FontSize[axis]

			if cellLeft != 0 && cellLeft > overhang {
				px = cellLeft - overhang + cellOfs
			}

			// Leaving only a sliver of the cell for the next slice
			// looks bad; pull the break in by an em instead.
			if px+em > cellSize {
				px = maxInt(px-em, 0)
			}

			// When breaking vertically, prefer a breakpoint that the
			// device likes, such as between lines of text.
			if axis == pivot.Vert {
				for x := 0; x < page.n[pivot.Horz]; {
					c := page.GetCell(x, z)
					w := page.joinedWidth(pivot.Horz, c.Rect[pivot.Horz][0], c.Rect[pivot.Horz][1])
					better, ok := page.params.adjustBreak(page.g, c.Inner, w, px)
					if !ok {
						break
					}
					x = c.Rect[pivot.Horz][1]

					if better < px {
						was := 0
						if z == b.z {
							was = b.px
						}
						if better > was {
							px = better
							break
						} else if better == 0 && z != b.z {
							px = 0
							break
						}
					}
				}
			}
		}
		break
	}

	if z == b.z && px == 0 {
		return nil
	}

	var sub *Page
	if px != 0 {
		sub = page.slice(axis, b.z, b.px, z+1, page.cellWidth(axis, z)-px)
	} else {
		sub = page.slice(axis, b.z, b.px, z, 0)
	}
	b.z = z
	b.px = px
	return sub
}

// neededSize returns the size along the break axis of a slice from the
// current position up to but not including cell.
func (b *Break) neededSize(cell int) int {
	page := b.page
	axis := b.axis

	// Leading header without its inner rule.
	size := page.axisWidth(axis, 0, ruleOfs(page.h[axis][0]))

	// If we have a pixel offset and no leading header, the slice omits
	// the body's leading rule so a partial cell does not look whole.
	// Otherwise the header's inner rule merges with the body's leading
	// rule; a merged rule is as wide as the wider of the two.
	if b.px == 0 || page.h[axis][0] != 0 {
		size += maxInt(page.ruleWidth(axis, page.h[axis][0]),
			page.ruleWidth(axis, b.z))
	}

	// Body, minus any pixel offset in its first cell.
	size += page.joinedWidth(axis, b.z, cell) - b.px

	// Body's trailing rule merged with the trailing header's inner rule.
	size += maxInt(page.ruleWidthR(axis, page.h[axis][1]),
		page.ruleWidth(axis, cell))

	// Trailing header without its inner rule.
	size += page.axisWidth(axis, page.ruleOfsR(axis, page.h[axis][1]),
		page.ruleOfsR(axis, 0))

	if page.h[axis][0] != 0 && page.h[axis][1] != 0 {
		size += page.joinCrossing[axis][b.z]
	}

	return size
}

// breakable reports whether the cell may be split across slices. Splitting
// saves space but looks ugly, so only generously sized cells qualify.
func (b *Break) breakable(cell int) bool {
	return b.page.cellWidth(b.axis, cell) >= b.page.params.MinBreak[b.axis]
}
