// Package compose flattens a pivot table into renderable grids. For one
// layer slice it produces up to five grids: title, layer labels, the body
// (headings plus data), caption, and footnotes, along with the pruned
// footnote list that determines marker order.
package compose

import (
	"strings"

	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Output holds the composed grids for one layer of a pivot table. Any grid
// except Body may be nil when the table has nothing to show there.
type Output struct {
	Title     *grid.Grid
	Layers    *grid.Grid
	Body      *grid.Grid
	Caption   *grid.Grid
	Footnotes *grid.Grid

	// FootnoteList is the referenced-and-shown footnotes in index order;
	// markers render in this order.
	FootnoteList []*pivot.Footnote
}

// Unref releases the references on all composed grids.
func (o *Output) Unref() {
	o.Title.Unref()
	o.Layers.Unref()
	o.Body.Unref()
	o.Caption.Unref()
	o.Footnotes.Unref()
}

// NextLayer steps the layer iteration for output. With print set and a look
// requesting all layers it advances an odometer over the layer axis (pass
// nil to start); otherwise it yields the table's current layer exactly once.
// The second return is false when the iteration is finished.
func NextLayer(pt *pivot.Table, indexes []int, print bool) ([]int, bool) {
	layerAxis := &pt.Axes[pivot.AxisLayer]
	if print && pt.Look.PrintAllLayers {
		if indexes == nil {
			indexes = make([]int, len(layerAxis.Dimensions))
			for _, d := range layerAxis.Dimensions {
				if d.NLeaves() == 0 {
					return nil, false
				}
			}
			return indexes, true
		}
		for i, d := range layerAxis.Dimensions {
			if indexes[i]+1 < d.NLeaves() {
				indexes[i]++
				return indexes, true
			}
			indexes[i] = 0
		}
		return nil, false
	}
	if indexes == nil {
		return append([]int(nil), pt.CurrentLayer...), true
	}
	return nil, false
}

// findCategory maps one enumerated position to the category shown at a
// given heading row of a dimension, walking up the parent chain. A category
// covering several rows is returned only for its top row, so run-length
// scans group positions per row correctly.
func findCategory(d *pivot.Dimension, tuple []int, dimIndex, rowOfs int) *pivot.Category {
	index := tuple[dimIndex]
	for c := d.PresentationLeaves[index]; c != nil; c = c.Parent {
		if rowOfs == c.ExtraDepth {
			return c
		}
		rowOfs -= 1 + c.ExtraDepth
		if rowOfs < 0 {
			return nil
		}
	}
	return nil
}

func drawLine(t *grid.Grid, b pivot.Border, axis, a, b0, b1 int) {
	if axis == pivot.Horz {
		t.HLine(b, b0, b1, a)
	} else {
		t.VLine(b, a, b0, b1)
	}
}

func fillCell(t *grid.Grid, x1, y1, x2, y2 int, area pivot.Area, v *pivot.Value, rotate bool) {
	c := t.Put(x1, y1, x2, y2, area, v)
	c.Rotate = rotate
}

// composeHeadings fills one axis's heading block into t. The terminology and
// variable names are for column headings; for row headings the caller swaps
// the axis arguments and the border styles and everything transposes.
//
// Dimensions iterate from outer to inner. Within each dimension's rows, the
// enumeration is scanned left to right with a two-pointer run-length scan
// grouping positions that show the same category; one spanned cell is
// emitted per run. vrules tracks which vertical slot positions already carry
// a rule: once a separator starts it runs to the bottom of the table, and a
// rule starting on the bottom-most heading row uses the category border
// style while all others use the dimension style.
func composeHeadings(t *grid.Grid,
	hAxis *pivot.Axis, h int, vAxis *pivot.Axis,
	dimColHorz, dimColVert, catColHorz, catColVert pivot.Border,
	columnEnumeration [][]int,
	labelArea pivot.Area,
	rotateInnerLabels, rotateOuterLabels bool,
) {
	v := 1 - h
	vSize := hAxis.LabelDepth
	hOfs := vAxis.LabelDepth
	nColumns := len(columnEnumeration)

	if len(hAxis.Dimensions) == 0 || nColumns == 0 || vSize == 0 {
		return
	}

	vrules := make([]bool, nColumns+1)
	vrules[0], vrules[nColumns] = true, true

	topRow := 0
	for dimIndex := len(hAxis.Dimensions) - 1; dimIndex >= 0; dimIndex-- {
		d := hAxis.Dimensions[dimIndex]
		if d.HideAllLabels {
			continue
		}

		for rowOfs := 0; rowOfs < d.LabelDepth; rowOfs++ {
			for x1 := 0; x1 < nColumns; {
				c := findCategory(d, columnEnumeration[x1], dimIndex, d.LabelDepth-rowOfs-1)
				if c == nil {
					x1++
					continue
				}

				x2 := x1 + 1
				for ; x2 < nColumns; x2++ {
					if vrules[x2] {
						break
					}
					if findCategory(d, columnEnumeration[x2], dimIndex, d.LabelDepth-rowOfs-1) != c {
						break
					}
				}

				y1 := topRow + rowOfs
				y2 := topRow + rowOfs + c.ExtraDepth + 1
				isOuterRow := y1 == 0
				isInnerRow := y2 == vSize
				if c.IsLeaf() || c.ShowLabel {
					var bb [2][2]int
					bb[h][0] = x1 + hOfs
					bb[h][1] = x2 + hOfs - 1
					bb[v][0] = y1
					bb[v][1] = y2 - 1
					rotate := (rotateInnerLabels && isInnerRow) ||
						(rotateOuterLabels && isOuterRow)
					fillCell(t, bb[pivot.Horz][0], bb[pivot.Vert][0],
						bb[pivot.Horz][1], bb[pivot.Vert][1], labelArea, c.Name, rotate)

					// Only separators starting on the last heading row get
					// the category style.
					style := dimColVert
					if y1 == vSize-1 {
						style = catColVert
					}
					if !vrules[x2] {
						drawLine(t, style, v, x2+hOfs, y1, t.N[v]-1)
						vrules[x2] = true
					}
					if !vrules[x1] {
						drawLine(t, style, v, x1+hOfs, y1, t.N[v]-1)
						vrules[x1] = true
					}
				}

				// Separate a category or group from its parent's label row.
				if c.Parent != nil && c.Parent.ShowLabel {
					drawLine(t, catColHorz, h, y1, x1+hOfs, x2+hOfs-1)
				}
				x1 = x2
			}
		}

		if d.Root.ShowLabelInCorner && hOfs > 0 {
			var bb [2][2]int
			bb[h][0] = 0
			bb[h][1] = hOfs - 1
			bb[v][0] = topRow
			bb[v][1] = topRow + d.LabelDepth - 1
			fillCell(t, bb[pivot.Horz][0], bb[pivot.Vert][0],
				bb[pivot.Horz][1], bb[pivot.Vert][1], pivot.AreaCorner, d.Root.Name, false)
		}

		// Separator between adjacent dimensions of the same axis.
		if dimIndex != len(hAxis.Dimensions)-1 {
			drawLine(t, dimColHorz, h, topRow, hOfs, t.N[h]-1)
		}
		topRow += d.LabelDepth
	}
}

func newAuxGrid(pt *pivot.Table, nc, nr int) *grid.Grid {
	g := grid.New(nc, nr, 0, 0)
	g.Areas = pt.Look.Areas
	return g
}

// addReferences marks the footnotes referenced by any cell of the grid.
func addReferences(pt *pivot.Table, g *grid.Grid, refs []bool, nRefs *int) {
	if g == nil {
		return
	}
	for y := 0; y < g.N[pivot.Vert]; y++ {
		for x := 0; x < g.N[pivot.Horz]; {
			cell := g.GetCell(x, y)
			if x == cell.Rect[pivot.Horz][0] && y == cell.Rect[pivot.Vert][0] && cell.Value != nil {
				for _, idx := range cell.Value.Footnotes {
					if idx < len(pt.Footnotes) && !refs[idx] && pt.Footnotes[idx].Show {
						refs[idx] = true
						*nRefs++
					}
				}
			}
			x = cell.Rect[pivot.Horz][1]
		}
	}
}

func collectFootnotes(pt *pivot.Table, title, layers, body, caption *grid.Grid) []*pivot.Footnote {
	if len(pt.Footnotes) == 0 {
		return nil
	}
	refs := make([]bool, len(pt.Footnotes))
	nRefs := 0
	addReferences(pt, title, refs, &nRefs)
	addReferences(pt, layers, refs, &nRefs)
	addReferences(pt, body, refs, &nRefs)
	addReferences(pt, caption, refs, &nRefs)

	footnotes := make([]*pivot.Footnote, 0, nRefs)
	for i, referenced := range refs {
		if referenced {
			footnotes = append(footnotes, pt.Footnotes[i])
		}
	}
	return footnotes
}

// Build composes the grids for one layer of the table. layerIndexes selects
// the layer slice, one index per layer dimension (use [NextLayer] to
// iterate). printing selects print-time border resolution: unset borders
// render as dashed grid lines when the table asks to show them.
func Build(pt *pivot.Table, layerIndexes []int, printing bool) *Output {
	pt.AssignLabelDepths()

	columnEnumeration := pt.EnumerateAxis(pivot.AxisColumn, layerIndexes, pt.Look.OmitEmpty)
	rowEnumeration := pt.EnumerateAxis(pivot.AxisRow, layerIndexes, pt.Look.OmitEmpty)
	data := [2]int{len(columnEnumeration), len(rowEnumeration)}

	stub := [2]int{
		pivot.Horz: pt.Axes[pivot.AxisRow].LabelDepth,
		pivot.Vert: pt.Axes[pivot.AxisColumn].LabelDepth,
	}
	body := grid.New(data[pivot.Horz]+stub[pivot.Horz], data[pivot.Vert]+stub[pivot.Vert],
		stub[pivot.Horz], stub[pivot.Vert])
	body.Areas = pt.Look.Areas
	for b := pivot.Border(0); b < pivot.BorderCount; b++ {
		body.Borders[b] = pt.Look.ResolveBorder(b, printing && pt.ShowGridLines)
	}

	composeHeadings(body,
		&pt.Axes[pivot.AxisColumn], pivot.Horz, &pt.Axes[pivot.AxisRow],
		pivot.BorderDimColHorz, pivot.BorderDimColVert,
		pivot.BorderCatColHorz, pivot.BorderCatColVert,
		columnEnumeration, pivot.AreaColumnLabels,
		pt.RotateOuterRowLabels, false)

	composeHeadings(body,
		&pt.Axes[pivot.AxisRow], pivot.Vert, &pt.Axes[pivot.AxisColumn],
		pivot.BorderDimRowVert, pivot.BorderDimRowHorz,
		pivot.BorderCatRowVert, pivot.BorderCatRowHorz,
		rowEnumeration, pivot.AreaRowLabels,
		false, pt.RotateInnerColumnLabels)

	dindexes := make([]int, len(pt.Dimensions))
	for y, rowTuple := range rowEnumeration {
		for x, colTuple := range columnEnumeration {
			pt.ConvertIndexesPtoD(rowTuple, colTuple, layerIndexes, dindexes)
			value := pt.Get(dindexes)
			fillCell(body, x+stub[pivot.Horz], y+stub[pivot.Vert],
				x+stub[pivot.Horz], y+stub[pivot.Vert], pivot.AreaData, value, false)
		}
	}

	if (pt.CornerText != nil || !pt.Look.RowLabelsInCorner) &&
		stub[pivot.Horz] > 0 && stub[pivot.Vert] > 0 {
		fillCell(body, 0, 0, stub[pivot.Horz]-1, stub[pivot.Vert]-1,
			pivot.AreaCorner, pt.CornerText, false)
	}

	if body.N[pivot.Horz] > 0 && body.N[pivot.Vert] > 0 {
		body.HLine(pivot.BorderInnerTop, 0, body.N[pivot.Horz]-1, 0)
		body.HLine(pivot.BorderInnerBottom, 0, body.N[pivot.Horz]-1, body.N[pivot.Vert])
		body.VLine(pivot.BorderInnerLeft, 0, 0, body.N[pivot.Vert]-1)
		body.VLine(pivot.BorderInnerRight, body.N[pivot.Horz], 0, body.N[pivot.Vert]-1)

		if stub[pivot.Vert] > 0 {
			body.HLine(pivot.BorderDataTop, 0, body.N[pivot.Horz]-1, stub[pivot.Vert])
		}
		if stub[pivot.Horz] > 0 {
			body.VLine(pivot.BorderDataLeft, stub[pivot.Horz], 0, body.N[pivot.Vert]-1)
		}
	}

	out := &Output{Body: body}

	if pt.Title != nil && pt.ShowTitle {
		out.Title = newAuxGrid(pt, 1, 1)
		fillCell(out.Title, 0, 0, 0, 0, pivot.AreaTitle, pt.Title, false)
	}

	layerAxis := &pt.Axes[pivot.AxisLayer]
	nLayers := 0
	for _, d := range layerAxis.Dimensions {
		if d.NLeaves() > 0 {
			nLayers++
		}
	}
	if nLayers > 0 {
		out.Layers = newAuxGrid(pt, 1, nLayers)
		y := nLayers - 1
		for i, d := range layerAxis.Dimensions {
			if d.NLeaves() == 0 {
				continue
			}
			label, _ := d.DataLeaves[layerIndexes[i]].Name.Format(pt)
			fillCell(out.Layers, 0, y, 0, y, pivot.AreaLayers, pivot.NewText(label), false)
			y--
		}
	}

	if pt.Caption != nil && pt.ShowCaption {
		out.Caption = newAuxGrid(pt, 1, 1)
		fillCell(out.Caption, 0, 0, 0, 0, pivot.AreaCaption, pt.Caption, false)
	}

	out.FootnoteList = collectFootnotes(pt, out.Title, out.Layers, body, out.Caption)
	if len(out.FootnoteList) > 0 {
		out.Footnotes = newAuxGrid(pt, 1, len(out.FootnoteList))
		for i, f := range out.FootnoteList {
			var sb strings.Builder
			marker, _ := f.MarkerValue(pt).Format(pt)
			sb.WriteString(marker)
			sb.WriteString(". ")
			content, _ := f.Content.Format(pt)
			sb.WriteString(content)
			fillCell(out.Footnotes, 0, i, 0, i, pivot.AreaFooter, pivot.NewText(sb.String()), false)
		}
	}

	return out
}
