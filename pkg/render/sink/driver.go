package sink

import (
	"errors"

	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render"
)

// ErrNoContent reports an item with nothing to draw: a group, a page title,
// a page break, or a table whose layer iteration is empty.
var ErrNoContent = errors.New("sink: item produces no visible output")

const unbounded = 1 << 30

// RenderSVG draws one output item, unpaginated, into a fresh SVG document.
// Tables render their current layer unless their look requests all layers.
func RenderSVG(item *output.Item, opts ...SVGOption) ([]byte, error) {
	if item.Kind == output.KindPageBreak {
		return nil, ErrNoContent
	}

	dev := NewSVG(opts...)
	if dev.pt == nil && item.Kind == output.KindTable {
		dev.pt = item.Table
	}

	fsm := render.NewFSM(deviceParams(dev), item, false, 0)
	if fsm == nil {
		return nil, ErrNoContent
	}
	defer fsm.Close()

	fsm.DrawAll()
	return dev.Finish(), nil
}

// RenderPDF renders the item as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(item *output.Item, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(item, opts...)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// RenderPNG renders the item as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(item *output.Item, scale float64, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(item, opts...)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}

// deviceParams builds layout parameters around the device, deriving the em
// box from the device's own metrics.
func deviceParams(dev *SVG) *render.Params {
	em := dev.shaper.Layout("0", pivot.FontStyle{}, -1).Size()

	return &render.Params{
		Ops:             dev,
		Size:            [2]int{unbounded, unbounded},
		FontSize:        em,
		LineWidths:      render.DefaultLineWidths(),
		PxSize:          render.PxUnits(1),
		MinBreak:        [2]int{unbounded, unbounded},
		SupportsMargins: true,
		RTL:             dev.rtl,
	}
}
