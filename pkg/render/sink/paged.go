package sink

import (
	"fmt"

	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render"
)

// headingLineHeight is the vertical space one heading paragraph occupies,
// in points, including its gap from the body.
const headingLineHeight = 15

// RenderPagedSVG draws a stream of items across as many pages as they need
// and returns one SVG document per page. Page headings are expanded with
// vars plus the running page number.
func RenderPagedSVG(items []*output.Item, ps *render.PageSetup, vars map[string]string, opts ...SVGOption) ([][]byte, error) {
	d := &pagedDriver{ps: ps, opts: opts, vars: vars}
	d.params = deviceParams(NewSVG(opts...))
	d.params.Printing = true

	size := ps.PrintableSize()
	d.headerH = render.PtUnits(float64(headingLineHeight * len(ps.Headings[0].Paragraphs)))
	d.footerH = render.PtUnits(float64(headingLineHeight * len(ps.Headings[1].Paragraphs)))
	d.size = [2]int{size[pivot.Horz], size[pivot.Vert] - d.headerH - d.footerH}
	if d.size[pivot.Vert] <= 0 {
		return nil, fmt.Errorf("sink: page headings leave no room for content")
	}
	d.params.Size = d.size
	d.params.MinBreak = [2]int{d.size[pivot.Horz] / 2, d.size[pivot.Vert] / 2}

	d.pageNum = ps.InitialPageNumber
	d.startPage()

	spacing := render.PtUnits(ps.ObjectSpacing)
	for _, item := range items {
		fsm := render.NewFSM(d.params, item, true, spacing)
		if fsm == nil {
			continue
		}
		for !fsm.Done() {
			space := d.size[pivot.Vert] - d.y
			used := fsm.DrawSlice(space)
			if used > 0 {
				d.advance(used)
				continue
			}
			if fsm.Done() || d.y == 0 {
				break
			}
			d.flushPage()
		}
		fsm.Close()
		if d.y > 0 {
			d.advance(spacing)
		}
	}
	if d.y > 0 || len(d.pages) == 0 {
		d.flushPage()
	}
	return d.pages, nil
}

type pagedDriver struct {
	ps     *render.PageSetup
	opts   []SVGOption
	vars   map[string]string
	params *render.Params

	size             [2]int
	headerH, footerH int

	dev     *SVG
	y       int
	pageNum int
	pages   [][]byte
}

// advance moves the drawing origin down by used units, clamped to the page.
func (d *pagedDriver) advance(used int) {
	if used > d.size[pivot.Vert]-d.y {
		used = d.size[pivot.Vert] - d.y
	}
	d.dev.Translate(0, used)
	d.y += used
}

func (d *pagedDriver) startPage() {
	d.dev = NewSVG(d.opts...)
	d.params.Ops = d.dev
	d.y = 0

	for i, p := range d.ps.Headings[0].Paragraphs {
		d.heading(p, render.PtUnits(float64(headingLineHeight * (i + 1))))
	}
	d.dev.Translate(0, d.headerH)
}

func (d *pagedDriver) flushPage() {
	// Undo the body translation so the footer lands at a fixed offset.
	d.dev.Translate(0, d.size[pivot.Vert]-d.y)
	for i, p := range d.ps.Headings[1].Paragraphs {
		d.heading(p, render.PtUnits(float64(headingLineHeight * (i + 1))))
	}
	d.dev.extend(d.dev.ofs[pivot.Horz]+d.size[pivot.Horz], d.dev.ofs[pivot.Vert]+d.footerH)

	d.pages = append(d.pages, d.dev.Finish())
	d.pageNum++
	d.startPage()
}

// heading draws one heading paragraph with its baseline at dy below the
// current origin.
func (d *pagedDriver) heading(p render.Paragraph, dy int) {
	t := render.SubstituteHeadingVars(p.Text, d.vars, d.pageNum)
	if t == "" {
		return
	}
	font := pivot.FontStyle{Size: 10}
	x := 0
	anchor := "start"
	switch p.HAlign {
	case pivot.HCenter:
		x, anchor = d.size[pivot.Horz]/2, "middle"
	case pivot.HRight:
		x, anchor = d.size[pivot.Horz], "end"
	}
	fmt.Fprintf(&d.dev.body, "<text x=%q y=%q text-anchor=%q %s>%s</text>\n",
		ptStr(d.dev.toPt(d.dev.ofs[pivot.Horz]+x)),
		ptStr(d.dev.toPt(d.dev.ofs[pivot.Vert]+dy)),
		anchor, fontAttrs(font), escape(t))
	d.dev.extend(d.dev.ofs[pivot.Horz]+d.size[pivot.Horz], d.dev.ofs[pivot.Vert]+dy)
}
