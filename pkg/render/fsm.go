package render

import (
	"image"

	"github.com/matzehuels/pivotpress/pkg/compose"
	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Nominal chart size, in points, for scrolling backends that measure before
// drawing.
const (
	chartWidthPt  = 500
	chartHeightPt = 375
)

// ChartDrawer is implemented by devices that can draw charts. The FSM skips
// chart items on devices without it.
type ChartDrawer interface {
	DrawChart(c *output.Chart, width, height int)
}

// ImageDrawer is implemented by devices that can draw raster images.
type ImageDrawer interface {
	DrawImage(img image.Image, width, height int)
}

// FSM incrementally renders one output item. Printing backends feed it
// vertical space a slice at a time with [FSM.DrawSlice] until [FSM.Done];
// scrolling backends measure once and draw everything with [FSM.DrawAll].
type FSM struct {
	params        *Params
	item          *output.Item
	print         bool
	objectSpacing int

	layerIndexes []int
	pager        *Pager
	done         bool
}

// NewFSM returns a state machine for rendering item, or nil when the item
// produces no output of its own (groups, page titles, and tables whose
// layer iteration is empty). Message and text items are converted to
// one-cell tables first. With print set, a look requesting all layers makes
// the FSM emit one pagination pass per layer.
func NewFSM(params *Params, item *output.Item, print bool, objectSpacing int) *FSM {
	switch item.Kind {
	case output.KindChart, output.KindImage, output.KindPageBreak, output.KindTable:

	case output.KindGroup:
		return nil

	case output.KindMessage:
		item = item.ToText().ToTable()

	case output.KindText:
		if item.Text.Type == output.TextPageTitle {
			return nil
		}
		item = item.ToTable()

	default:
		panic("render: invalid output item kind")
	}

	fsm := &FSM{
		params:        params,
		item:          item,
		print:         print,
		objectSpacing: objectSpacing,
	}
	if item.Kind == output.KindTable {
		indexes, ok := compose.NextLayer(item.Table, nil, print)
		if !ok {
			return nil
		}
		fsm.layerIndexes = indexes
		fsm.pager = NewPager(params, item.Table, indexes)
	}
	return fsm
}

// Close releases the FSM's pagination state.
func (fsm *FSM) Close() {
	if fsm.pager != nil {
		fsm.pager.Close()
		fsm.pager = nil
	}
}

// Measure returns the item's full size in layout units, for scrolling
// backends that size a viewport before drawing.
func (fsm *FSM) Measure() (w, h int) {
	switch fsm.item.Kind {
	case output.KindChart:
		return PtUnits(chartWidthPt), PtUnits(chartHeightPt)

	case output.KindImage:
		b := fsm.item.Image.Bounds()
		return PxUnits(b.Dx()), PxUnits(b.Dy())

	case output.KindTable:
		return fsm.pager.Size(pivot.Horz), fsm.pager.Size(pivot.Vert)

	default:
		panic("render: measuring an unmeasurable item")
	}
}

// DrawAll draws the entire item without pagination.
func (fsm *FSM) DrawAll() {
	fsm.DrawRegion(0, 0, maxInt32, maxInt32)
}

const maxInt32 = 1<<31 - 1

// DrawRegion draws the parts of the item that intersect the given region.
func (fsm *FSM) DrawRegion(x, y, w, h int) {
	switch fsm.item.Kind {
	case output.KindChart:
		if cd, ok := fsm.params.Ops.(ChartDrawer); ok {
			cd.DrawChart(fsm.item.Chart, PtUnits(chartWidthPt), PtUnits(chartHeightPt))
		}

	case output.KindImage:
		if id, ok := fsm.params.Ops.(ImageDrawer); ok {
			b := fsm.item.Image.Bounds()
			id.DrawImage(fsm.item.Image, PxUnits(b.Dx()), PxUnits(b.Dy()))
		}

	case output.KindTable:
		fsm.pager.DrawRegion(x, y, w, h)

	default:
		panic("render: drawing an undrawable item")
	}
}

// DrawSlice gives the FSM up to space vertical layout units to draw into
// and returns how much it used. A return of 0 with [FSM.Done] still false
// means the item needs a fresh page.
func (fsm *FSM) DrawSlice(space int) int {
	if fsm.done || space <= 0 {
		return 0
	}
	switch fsm.item.Kind {
	case output.KindChart:
		return fsm.drawChartSlice(space)
	case output.KindImage:
		return fsm.drawImageSlice(space)
	case output.KindPageBreak:
		return fsm.drawPageBreakSlice(space)
	case output.KindTable:
		return fsm.drawTableSlice(space)
	default:
		panic("render: invalid output item kind")
	}
}

// Done reports whether the item has been fully drawn.
func (fsm *FSM) Done() bool { return fsm.done }

func (fsm *FSM) drawTableSlice(space int) int {
	used := fsm.pager.DrawNext(space)
	if !fsm.pager.HasNext() {
		fsm.pager.Close()

		indexes, ok := compose.NextLayer(fsm.item.Table, fsm.layerIndexes, true)
		if ok {
			fsm.layerIndexes = indexes
			fsm.pager = NewPager(fsm.params, fsm.item.Table, indexes)
			if fsm.item.Table.Look.PaginateLayers {
				used = space
			} else {
				used += fsm.objectSpacing
			}
		} else {
			fsm.pager = nil
			fsm.done = true
		}
	}
	return minInt(used, space)
}

// drawChartSlice draws the chart across the page width at 0.8 of the
// smaller page dimension. Charts are atomic: with less space than that
// available the whole chart waits for the next page.
func (fsm *FSM) drawChartSlice(space int) int {
	chartHeight := 8 * minInt(fsm.params.Size[pivot.Horz], fsm.params.Size[pivot.Vert]) / 10
	if space < chartHeight {
		return 0
	}

	fsm.done = true
	if cd, ok := fsm.params.Ops.(ChartDrawer); ok {
		cd.DrawChart(fsm.item.Chart, fsm.params.Size[pivot.Horz], chartHeight)
	}
	return chartHeight
}

// drawImageSlice draws the image at one point per pixel, scaled down as
// needed to fit the page. Images are atomic like charts.
func (fsm *FSM) drawImageSlice(space int) int {
	b := fsm.item.Image.Bounds()
	width := b.Dx() * Unit
	height := b.Dy() * Unit
	if width == 0 || height == 0 {
		fsm.done = true
		return 0
	}

	if height > fsm.params.Size[pivot.Vert] {
		scale := float64(fsm.params.Size[pivot.Vert]) / float64(height)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}
	if width > fsm.params.Size[pivot.Horz] {
		scale := float64(fsm.params.Size[pivot.Horz]) / float64(width)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}
	if width == 0 || height == 0 {
		fsm.done = true
		return 0
	}

	if space < height {
		return 0
	}

	if id, ok := fsm.params.Ops.(ImageDrawer); ok {
		id.DrawImage(fsm.item.Image, width, height)
	}
	fsm.done = true
	return height
}

// drawPageBreakSlice consumes no space; the break is complete once a full
// page of space is on offer, which means a page boundary was crossed.
func (fsm *FSM) drawPageBreakSlice(space int) int {
	if space >= fsm.params.Size[pivot.Vert] {
		fsm.done = true
	}
	return 0
}
