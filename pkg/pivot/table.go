package pivot

import (
	"encoding/binary"
	"fmt"
)

// Table is an N-dimensional pivot table: dimensions bound to axes, sparse
// cell storage keyed by per-dimension data indexes, footnotes, and styling.
//
// Tables are reference counted. A table with more than one owner must not be
// mutated; call [Table.Unshare] to obtain a privately owned copy first.
// Mutating a shared table is a programming error and panics.
type Table struct {
	refCnt int

	Look *Look

	// Display settings.
	RotateInnerColumnLabels bool
	RotateOuterRowLabels    bool
	ShowGridLines           bool
	ShowTitle               bool
	ShowCaption             bool
	ShowValues              Show
	ShowVariables           Show

	// CurrentLayer holds one presentation-leaf offset per layer dimension,
	// selecting the layer slice displayed by default.
	CurrentLayer []int

	// Format settings. Small is the threshold below which nonzero
	// fixed-point values switch to scientific notation; zero disables the
	// behavior. DefaultFormat applies to numeric cells with no explicit or
	// inherited format.
	Small         float64
	DefaultFormat Format

	Title      *Value
	Subtype    *Value
	CornerText *Value
	Caption    *Value
	Notes      string

	Footnotes []*Footnote

	// Dimensions lists every dimension in creation (top index) order; Axes
	// groups them by axis assignment.
	Dimensions []*Dimension
	Axes       [AxisTypeCount]Axis

	cells map[string]*Value
}

// New returns an empty pivot table with the given title and the default
// look.
func New(title string) *Table {
	return &Table{
		refCnt:        1,
		Look:          DefaultLook().Ref(),
		ShowTitle:     true,
		ShowCaption:   true,
		Title:         NewText(title),
		Small:         0.0001,
		DefaultFormat: F(40, 2),
		cells:         make(map[string]*Value),
	}
}

// Ref acquires a new reference to the table.
func (t *Table) Ref() *Table {
	t.refCnt++
	return t
}

// Unref releases one reference.
func (t *Table) Unref() {
	if t == nil {
		return
	}
	t.refCnt--
	if t.refCnt < 0 {
		panic("pivot: table reference count underflow")
	}
}

// Shared reports whether the table has more than one owner.
func (t *Table) Shared() bool { return t.refCnt > 1 }

// assertMutable panics when the table is shared. Every mutator calls it.
func (t *Table) assertMutable() {
	if t.Shared() {
		panic("pivot: mutation of a shared table; Unshare it first")
	}
}

// Unshare returns a table safe to mutate: the receiver if it has a single
// owner, otherwise a deep copy with the receiver's reference released.
func (t *Table) Unshare() *Table {
	if !t.Shared() {
		return t
	}
	t.Unref()

	n := &Table{
		refCnt:                  1,
		Look:                    t.Look.Ref(),
		RotateInnerColumnLabels: t.RotateInnerColumnLabels,
		RotateOuterRowLabels:    t.RotateOuterRowLabels,
		ShowGridLines:           t.ShowGridLines,
		ShowTitle:               t.ShowTitle,
		ShowCaption:             t.ShowCaption,
		ShowValues:              t.ShowValues,
		ShowVariables:           t.ShowVariables,
		Small:                   t.Small,
		DefaultFormat:           t.DefaultFormat,
		Title:                   t.Title.Clone(),
		Subtype:                 t.Subtype.Clone(),
		CornerText:              t.CornerText.Clone(),
		Caption:                 t.Caption.Clone(),
		Notes:                   t.Notes,
		cells:                   make(map[string]*Value, len(t.cells)),
	}
	for _, f := range t.Footnotes {
		n.Footnotes = append(n.Footnotes, &Footnote{
			Index:   f.Index,
			Content: f.Content.Clone(),
			Marker:  f.Marker.Clone(),
			Show:    f.Show,
		})
	}
	for _, d := range t.Dimensions {
		root := cloneCategory(d.Root)
		nd := NewDimension(n, d.AxisType, root)
		nd.HideAllLabels = d.HideAllLabels
		order := make([]int, len(d.PresentationLeaves))
		for pos, leaf := range d.PresentationLeaves {
			order[pos] = leaf.DataIndex
		}
		nd.Reorder(order)
	}
	copy(n.CurrentLayer, t.CurrentLayer)
	for k, v := range t.cells {
		n.cells[k] = v.Clone()
	}
	return n
}

func cloneCategory(c *Category) *Category {
	n := &Category{
		Name:              c.Name.Clone(),
		DataIndex:         -1,
		PresentationIndex: -1,
		Class:             c.Class,
		HonorSmall:        c.HonorSmall,
		ShowLabel:         c.ShowLabel,
		ShowLabelInCorner: c.ShowLabelInCorner,
	}
	if c.Format != nil {
		f := *c.Format
		n.Format = &f
	}
	if c.IsGroup() {
		n.Subs = make([]*Category, 0, len(c.Subs))
		for _, sub := range c.Subs {
			n.Subs = append(n.Subs, cloneCategory(sub))
		}
	}
	return n
}

// SetLook replaces the table's look.
func (t *Table) SetLook(look *Look) {
	t.assertMutable()
	t.Look.Unref()
	t.Look = look
}

func cellKey(dindexes []int) string {
	buf := make([]byte, 0, len(dindexes)*binary.MaxVarintLen32)
	for _, di := range dindexes {
		buf = binary.AppendUvarint(buf, uint64(di))
	}
	return string(buf)
}

func (t *Table) checkIndexes(dindexes []int) {
	if len(dindexes) != len(t.Dimensions) {
		panic(fmt.Sprintf("pivot: got %d cell indexes, table has %d dimensions",
			len(dindexes), len(t.Dimensions)))
	}
	for i, di := range dindexes {
		if di < 0 || di >= t.Dimensions[i].NLeaves() {
			panic(fmt.Sprintf("pivot: cell index %d out of range for dimension %d with %d leaves",
				di, i, t.Dimensions[i].NLeaves()))
		}
	}
}

// Put stores a value at the cell addressed by one data index per dimension,
// in top index order. A numeric value without an explicit format inherits
// the format of the first category in dimension order that specifies one
// (directly or through its result class), falling back to the table default.
func (t *Table) Put(dindexes []int, value *Value) {
	t.assertMutable()
	t.checkIndexes(dindexes)

	if value.Kind == ValueNumber && value.Number.Format == (Format{}) {
		f, honor := t.DefaultFormat, true
		for i, d := range t.Dimensions {
			leaf := d.DataLeaves[dindexes[i]]
			if lf, lh, ok := leaf.leafFormat(); ok {
				f, honor = lf, lh
				break
			}
		}
		value.Number.Format = f
		value.Number.HonorSmall = honor
	}

	t.cells[cellKey(dindexes)] = value
}

// Get returns the value stored at the cell, or nil when the cell is empty.
func (t *Table) Get(dindexes []int) *Value {
	t.checkIndexes(dindexes)
	return t.cells[cellKey(dindexes)]
}

// NCells returns the number of populated cells.
func (t *Table) NCells() int { return len(t.cells) }

// ConvertIndexesPtoD translates per-axis presentation index tuples for the
// row, column, and layer axes into one data index tuple covering every
// dimension in top index order.
func (t *Table) ConvertIndexesPtoD(rowPIndexes, colPIndexes, layerPIndexes []int, dindexes []int) []int {
	if dindexes == nil {
		dindexes = make([]int, len(t.Dimensions))
	}
	convert := func(axis AxisType, pindexes []int) {
		for i, d := range t.Axes[axis].Dimensions {
			if d.NLeaves() > 0 {
				dindexes[d.TopIndex] = d.PresentationLeaves[pindexes[i]].DataIndex
			}
		}
	}
	convert(AxisRow, rowPIndexes)
	convert(AxisColumn, colPIndexes)
	convert(AxisLayer, layerPIndexes)
	return dindexes
}

// SetCurrentLayer selects the layer slice displayed by default, one
// presentation index per layer dimension.
func (t *Table) SetCurrentLayer(indexes []int) {
	t.assertMutable()
	layer := &t.Axes[AxisLayer]
	if len(indexes) != len(layer.Dimensions) {
		panic("pivot: current layer must have one index per layer dimension")
	}
	for i, pi := range indexes {
		if n := layer.Dimensions[i].NLeaves(); n > 0 && (pi < 0 || pi >= n) {
			panic("pivot: current layer index out of range")
		}
	}
	copy(t.CurrentLayer, indexes)
}
