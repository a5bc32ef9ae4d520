package render

import (
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Segment is one straight stroke of a rule intersection, in the same
// coordinates as the bounding box it was derived from.
type Segment struct {
	X0, Y0, X1, Y1 int
	Stroke         pivot.Stroke
	Color          pivot.Color
}

// horzSegments emits the horizontal strokes of an intersection at height y.
// The left stroke runs x0..x2 and the right stroke x1..x3, overlapping in
// the middle; when shorten is set they stop at x1 and x2 instead, leaving
// the crossing open for a double vertical rule.
func horzSegments(segs []Segment, x0, x1, x2, x3, y int,
	left, right pivot.BorderStyle, shorten bool) []Segment {

	if left.Stroke != pivot.StrokeNone && right.Stroke != pivot.StrokeNone &&
		!shorten && left.Color == right.Color {
		return append(segs, Segment{X0: x0, Y0: y, X1: x3, Y1: y, Stroke: left.Stroke, Color: left.Color})
	}
	if left.Stroke != pivot.StrokeNone {
		end := x2
		if shorten {
			end = x1
		}
		segs = append(segs, Segment{X0: x0, Y0: y, X1: end, Y1: y, Stroke: left.Stroke, Color: left.Color})
	}
	if right.Stroke != pivot.StrokeNone {
		start := x1
		if shorten {
			start = x2
		}
		segs = append(segs, Segment{X0: start, Y0: y, X1: x3, Y1: y, Stroke: right.Stroke, Color: right.Color})
	}
	return segs
}

func vertSegments(segs []Segment, y0, y1, y2, y3, x int,
	top, bottom pivot.BorderStyle, shorten bool) []Segment {

	if top.Stroke != pivot.StrokeNone && bottom.Stroke != pivot.StrokeNone &&
		!shorten && top.Color == bottom.Color {
		return append(segs, Segment{X0: x, Y0: y0, X1: x, Y1: y3, Stroke: top.Stroke, Color: top.Color})
	}
	if top.Stroke != pivot.StrokeNone {
		end := y2
		if shorten {
			end = y1
		}
		segs = append(segs, Segment{X0: x, Y0: y0, X1: x, Y1: end, Stroke: top.Stroke, Color: top.Color})
	}
	if bottom.Stroke != pivot.StrokeNone {
		start := y1
		if shorten {
			start = y2
		}
		segs = append(segs, Segment{X0: x, Y0: start, X1: x, Y1: y3, Stroke: bottom.Stroke, Color: bottom.Color})
	}
	return segs
}

// RuleSegments expands a rule intersection into straight strokes.
//
// bb bounds the intersection and styles names, per axis, the style of the
// rule on each side of the crossing, as passed to [Ops.DrawLine]. Double
// rules split into two parallel strokes offset from the center, and the
// crossing strokes shorten so they do not cut through the gap of a double
// rule. A single crossing stroke through a double rule is cut the same way,
// which looks better than running through the intersection.
func RuleSegments(bb [2][2]int, styles [2][2]pivot.BorderStyle, rtl bool) []Segment {
	x0 := bb[pivot.Horz][0]
	y0 := bb[pivot.Vert][0]
	x3 := bb[pivot.Horz][1]
	y3 := bb[pivot.Vert][1]

	top := styles[pivot.Horz][0]
	bottom := styles[pivot.Horz][1]

	startSide, endSide := 0, 1
	if rtl {
		startSide, endSide = 1, 0
	}
	start := styles[pivot.Vert][startSide]
	end := styles[pivot.Vert][endSide]

	// Offset from the intersection center of each stroke in a double
	// rule pair.
	doubleOfs := (LineSpace + LineWidth) / 2

	doubleVert := top.Stroke == pivot.StrokeDouble || bottom.Stroke == pivot.StrokeDouble
	doubleHorz := start.Stroke == pivot.StrokeDouble || end.Stroke == pivot.StrokeDouble

	shortenY1 := top.Stroke == pivot.StrokeDouble
	shortenY2 := bottom.Stroke == pivot.StrokeDouble
	shortenYC := shortenY1 && shortenY2
	horzOfs := 0
	if doubleVert {
		horzOfs = doubleOfs
	}
	xc := (x0 + x3) / 2
	x1 := xc - horzOfs
	x2 := xc + horzOfs

	shortenX1 := start.Stroke == pivot.StrokeDouble
	shortenX2 := end.Stroke == pivot.StrokeDouble
	shortenXC := shortenX1 && shortenX2
	vertOfs := 0
	if doubleHorz {
		vertOfs = doubleOfs
	}
	yc := (y0 + y3) / 2
	y1 := yc - vertOfs
	y2 := yc + vertOfs

	var segs []Segment
	if !doubleHorz {
		segs = horzSegments(segs, x0, x1, x2, x3, yc, start, end, shortenYC)
	} else {
		segs = horzSegments(segs, x0, x1, x2, x3, y1, start, end, shortenY1)
		segs = horzSegments(segs, x0, x1, x2, x3, y2, start, end, shortenY2)
	}

	if !doubleVert {
		segs = vertSegments(segs, y0, y1, y2, y3, xc, top, bottom, shortenXC)
	} else {
		segs = vertSegments(segs, y0, y1, y2, y3, x1, top, bottom, shortenX1)
		segs = vertSegments(segs, y0, y1, y2, y3, x2, top, bottom, shortenX2)
	}
	return segs
}
