package pivot

// AxisType identifies the axis a dimension is assigned to.
type AxisType int

const (
	AxisLayer AxisType = iota
	AxisRow
	AxisColumn

	AxisTypeCount = iota
)

// String returns the lowercase axis name.
func (a AxisType) String() string {
	switch a {
	case AxisLayer:
		return "layer"
	case AxisRow:
		return "row"
	case AxisColumn:
		return "column"
	default:
		return "invalid"
	}
}

// Transpose returns the opposite display axis. Calling it on the layer axis
// is a programming error.
func (a AxisType) Transpose() AxisType {
	switch a {
	case AxisRow:
		return AxisColumn
	case AxisColumn:
		return AxisRow
	default:
		panic("pivot: layer axis has no transpose")
	}
}

// Dimension is one facet of the data cube: a tree of categories rooted in a
// single labeled group, bound to one axis of the table.
type Dimension struct {
	Root  *Category
	Table *Table

	AxisType AxisType
	// Level is the dimension's position within its axis, 0 = innermost.
	Level int
	// TopIndex is the dimension's position among all dimensions of the
	// table, used to compose per-cell index tuples.
	TopIndex int

	// DataLeaves holds the leaves ordered by data index; PresentationLeaves
	// holds the same leaves ordered by display position. The two diverge
	// after sorting.
	DataLeaves         []*Category
	PresentationLeaves []*Category

	// HideAllLabels suppresses every heading row the dimension would occupy.
	HideAllLabels bool

	// LabelDepth caches Root.LabelDepth after the label depth pass, or 0
	// with HideAllLabels set.
	LabelDepth int
}

// NewDimension creates a dimension on the table's given axis. The root group
// carries the dimension label; leaves anywhere under it become the
// dimension's data slices in creation order.
func NewDimension(t *Table, axis AxisType, root *Category) *Dimension {
	t.assertMutable()
	d := &Dimension{
		Root:     root,
		Table:    t,
		AxisType: axis,
		TopIndex: len(t.Dimensions),
	}
	d.attach(root, nil)

	t.Dimensions = append(t.Dimensions, d)
	a := &t.Axes[axis]
	d.Level = len(a.Dimensions)
	a.Dimensions = append(a.Dimensions, d)
	if axis == AxisLayer {
		t.CurrentLayer = append(t.CurrentLayer, 0)
	}
	return d
}

// attach wires a subtree into the dimension, assigning data and presentation
// indexes to its leaves in creation order.
func (d *Dimension) attach(c *Category, parent *Category) {
	c.Dimension = d
	c.Parent = parent
	if c.IsLeaf() {
		c.DataIndex = len(d.DataLeaves)
		c.PresentationIndex = len(d.PresentationLeaves)
		d.DataLeaves = append(d.DataLeaves, c)
		d.PresentationLeaves = append(d.PresentationLeaves, c)
		return
	}
	for _, sub := range c.Subs {
		d.attach(sub, c)
	}
}

// NLeaves returns the number of leaf categories in the dimension.
func (d *Dimension) NLeaves() int { return len(d.DataLeaves) }

// Reorder installs a new presentation order given as a permutation of data
// indexes. Data indexes are unaffected.
func (d *Dimension) Reorder(order []int) {
	d.Table.assertMutable()
	if len(order) != len(d.DataLeaves) {
		panic("pivot: presentation order must cover every leaf exactly once")
	}
	seen := make([]bool, len(order))
	leaves := make([]*Category, len(order))
	for pos, di := range order {
		if di < 0 || di >= len(d.DataLeaves) || seen[di] {
			panic("pivot: presentation order must be a permutation of data indexes")
		}
		seen[di] = true
		leaves[pos] = d.DataLeaves[di]
		leaves[pos].PresentationIndex = pos
	}
	d.PresentationLeaves = leaves
}

// Axis is the ordered set of dimensions assigned to one axis type.
type Axis struct {
	Dimensions []*Dimension

	// LabelDepth and Extent are computed by the label depth pass.
	LabelDepth int
	Extent     int
}

// CalcExtent returns the product of the axis's per-dimension leaf counts.
func (a *Axis) CalcExtent() int {
	extent := 1
	for _, d := range a.Dimensions {
		extent *= d.NLeaves()
	}
	return extent
}

// assignLabelDepth runs the label depth pass over one axis. It reports
// whether any dimension root moved its label into the stub corner.
func (a *Axis) assignLabelDepth(dimensionLabelsInCorner bool) bool {
	anyCorner := false
	a.LabelDepth = 0
	a.Extent = 1
	for _, d := range a.Dimensions {
		d.Root.assignLabelDepth(dimensionLabelsInCorner)
		if d.HideAllLabels {
			d.LabelDepth = 0
		} else {
			d.LabelDepth = d.Root.LabelDepth
		}
		a.LabelDepth += d.LabelDepth
		a.Extent *= d.NLeaves()

		if d.Root.ShowLabelInCorner {
			anyCorner = true
		}
	}
	return anyCorner
}

// AssignLabelDepths runs the label depth pass over the whole table: column
// axis first, then the row axis (which may claim the corner when the look
// allows it and no explicit corner text exists), then the layer axis. When
// row labels take the corner and the column axis would otherwise have no
// heading rows, one heading row is forced so the corner has somewhere to go.
func (t *Table) AssignLabelDepths() {
	t.Axes[AxisColumn].assignLabelDepth(false)
	rowCorner := t.Axes[AxisRow].assignLabelDepth(
		t.Look.RowLabelsInCorner && t.CornerText == nil)
	if rowCorner && t.Axes[AxisColumn].LabelDepth == 0 {
		t.Axes[AxisColumn].LabelDepth = 1
	}
	t.Axes[AxisLayer].assignLabelDepth(false)
}
