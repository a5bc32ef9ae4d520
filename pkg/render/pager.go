package render

import (
	"github.com/matzehuels/pivotpress/pkg/compose"
	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Pager renders one layer of a pivot table in device-sized chunks. It lays
// out the title, layer labels, body, caption, and footnotes as separate
// pages stacked vertically, slicing each page horizontally and vertically
// as needed.
type Pager struct {
	params *Params
	scale  float64

	pages []*Page
	cur   int

	xBreak Break
	yBreak Break
}

func (p *Pager) addPage(g *grid.Grid, minWidth int, look *pivot.Look) {
	if g != nil {
		p.pages = append(p.pages, NewPage(p.params, g, minWidth, look))
	}
}

func (p *Pager) startPage() {
	p.xBreak = newBreak(p.pages[p.cur].Ref(), pivot.Horz)
	p.cur++
	p.yBreak = emptyBreak()
}

// NewPager composes and lays out one layer of pt. A nil layerIndexes
// selects the table's current layer.
func NewPager(params *Params, pt *pivot.Table, layerIndexes []int) *Pager {
	if layerIndexes == nil {
		layerIndexes = pt.CurrentLayer
	}

	out := compose.Build(pt, layerIndexes, params.Printing)
	defer out.Unref()

	// The width of the table body determines the base scale and how wide
	// the title and layer grids are stretched.
	bodyPage := NewPage(params, out.Body, 0, pt.Look)
	bodyWidth := bodyPage.Size(pivot.Horz)
	scale := 1.0
	if bodyWidth > params.Size[pivot.Horz] {
		_, canScale := params.Ops.(Scaler)
		if pt.Look.ShrinkToFit[pivot.Horz] && canScale {
			scale = float64(params.Size[pivot.Horz]) / float64(bodyWidth)
		} else {
			b := newBreak(bodyPage.Ref(), pivot.Horz)
			sub := b.Next(params.Size[pivot.Horz])
			if sub != nil {
				bodyWidth = sub.Size(pivot.Horz)
			} else {
				bodyWidth = 0
			}
			sub.Unref()
			b.destroy()
		}
	}

	p := &Pager{params: params, scale: scale}
	p.addPage(out.Title, bodyWidth, pt.Look)
	p.addPage(out.Layers, bodyWidth, pt.Look)
	p.pages = append(p.pages, bodyPage)
	p.addPage(out.Caption, 0, pt.Look)
	p.addPage(out.Footnotes, 0, pt.Look)

	// Shrinking to the page length can overshoot: a smaller scale leaves
	// cells effectively wider, so they break over less vertical space
	// than the scale implies. Finding the exact factor would need an
	// iterative search, so accept the overshoot.
	if _, canScale := params.Ops.(Scaler); pt.Look.ShrinkToFit[pivot.Vert] && canScale {
		totalHeight := 0
		for _, page := range p.pages {
			totalHeight += page.Size(pivot.Vert)
		}
		if float64(totalHeight)*p.scale >= float64(params.Size[pivot.Vert]) {
			p.scale *= float64(params.Size[pivot.Vert]) / float64(totalHeight)
		}
	}

	p.startPage()
	return p
}

// Close releases the pager's pages.
func (p *Pager) Close() {
	p.xBreak.destroy()
	p.yBreak.destroy()
	for _, page := range p.pages {
		page.Unref()
	}
	p.pages = nil
}

// HasNext reports whether any content remains to draw.
func (p *Pager) HasNext() bool {
	for !p.yBreak.HasNext() {
		p.yBreak.destroy()
		p.yBreak = emptyBreak()
		if !p.xBreak.HasNext() {
			p.xBreak.destroy()
			if p.cur >= len(p.pages) {
				p.xBreak = emptyBreak()
				return false
			}
			p.startPage()
		} else {
			width := p.params.Size[pivot.Horz]
			if p.scale != 1 {
				width = int(float64(width) / p.scale)
			}
			slice := p.xBreak.Next(width)
			if slice == nil {
				p.xBreak.destroy()
				p.xBreak = emptyBreak()
				continue
			}
			p.yBreak = newBreak(slice, pivot.Vert)
		}
	}
	return true
}

// DrawNext draws a chunk of content no taller than space, at the width
// given in the device parameters, and returns the height actually used.
// Zero means either nothing fits in space or nothing remains; HasNext
// distinguishes the two.
func (p *Pager) DrawNext(space int) int {
	if p.scale != 1 {
		p.params.Ops.(Scaler).Scale(p.scale)
		space = int(float64(space) / p.scale)
	}

	var ofs [2]int
	startPage := -1
	for p.HasNext() {
		if startPage == p.cur {
			break
		}
		startPage = p.cur

		page := p.yBreak.Next(space - ofs[pivot.Vert])
		if page == nil {
			break
		}
		page.Draw(ofs)
		ofs[pivot.Vert] += page.Size(pivot.Vert)
		page.Unref()
	}

	if p.scale != 1 {
		ofs[pivot.Vert] = int(float64(ofs[pivot.Vert]) * p.scale)
	}
	return ofs[pivot.Vert]
}

// Draw renders all remaining content without breaking it up.
func (p *Pager) Draw() {
	const huge = int(^uint(0) >> 1)
	p.DrawRegion(0, 0, huge, huge)
}

// DrawRegion renders the content intersecting the rectangle at (x, y) with
// the given width and height. Extra content near the edges may be drawn;
// the device should clip.
func (p *Pager) DrawRegion(x, y, w, h int) {
	var ofs [2]int
	var clip [2][2]int

	clip[pivot.Horz][0] = x
	clip[pivot.Horz][1] = x + w
	for _, page := range p.pages {
		size := page.Size(pivot.Vert)

		clip[pivot.Vert][0] = maxInt(y, ofs[pivot.Vert]) - ofs[pivot.Vert]
		clip[pivot.Vert][1] = minInt(y+h, ofs[pivot.Vert]+size) - ofs[pivot.Vert]
		if clip[pivot.Vert][1] > clip[pivot.Vert][0] {
			page.DrawRegion(ofs, clip)
		}

		ofs[pivot.Vert] += size
	}
}

// Size returns the content extent along an axis: the widest page
// horizontally, the summed page heights vertically.
func (p *Pager) Size(axis int) int {
	size := 0
	for _, page := range p.pages {
		sub := page.Size(axis)
		if axis == pivot.Horz {
			size = maxInt(size, sub)
		} else {
			size += sub
		}
	}
	return size
}

// BestBreakpoint returns the best vertical break position within height,
// preferring cuts between rows over cuts through them.
func (p *Pager) BestBreakpoint(height int) int {
	y := 0
	for _, page := range p.pages {
		size := page.Size(pivot.Vert)
		if y+size >= height {
			return page.bestBreakpoint(height-y) + y
		}
		y += size
	}
	return height
}
