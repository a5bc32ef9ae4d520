package pivot

// Category is a node in a dimension's label tree. Leaves map 1:1 to a slice
// of the data cube along their dimension; groups organize leaves under a
// shared label.
type Category struct {
	Name      *Value
	Parent    *Category
	Dimension *Dimension

	// Leaf fields. DataIndex is the leaf's stable creation-order position;
	// PresentationIndex is its current display-order position. Both are -1
	// on groups.
	DataIndex         int
	PresentationIndex int
	// Format overrides the table default for numeric cells under this leaf.
	Format *Format
	// Class names a result class whose format applies when Format is nil.
	// Unknown class names are silently ignored.
	Class      ResultClass
	HonorSmall bool

	// Group fields.
	Subs              []*Category
	ShowLabel         bool
	ShowLabelInCorner bool

	// Computed by the label depth pass.
	LabelDepth int
	ExtraDepth int
}

// NewLeaf returns a leaf category with the given name. Its data and
// presentation indexes are assigned when the category is attached to a
// dimension.
func NewLeaf(name *Value) *Category {
	return &Category{Name: name, DataIndex: -1, PresentationIndex: -1}
}

// NewLeafClass returns a leaf category whose cells inherit the format of the
// given result class.
func NewLeafClass(name *Value, class ResultClass) *Category {
	c := NewLeaf(name)
	c.Class = class
	c.HonorSmall = ClassHonorsSmall(class)
	return c
}

// NewGroup returns a group category over the given children. Groups show
// their label by default.
func NewGroup(name *Value, subs ...*Category) *Category {
	return &Category{Name: name, DataIndex: -1, PresentationIndex: -1, Subs: subs, ShowLabel: true}
}

// IsGroup reports whether the category is a group rather than a leaf.
func (c *Category) IsGroup() bool { return c.Subs != nil }

// IsLeaf reports whether the category is a leaf.
func (c *Category) IsLeaf() bool { return c.Subs == nil }

// Add appends a child category to a group. Panics on a leaf.
func (c *Category) Add(sub *Category) *Category {
	if c.IsLeaf() {
		panic("pivot: cannot add a child to a leaf category")
	}
	c.Subs = append(c.Subs, sub)
	if c.Dimension != nil {
		c.Dimension.attach(sub, c)
	}
	return sub
}

// leafFormat returns the effective numeric format contributed by the leaf,
// if any, along with whether small-number handling applies.
func (c *Category) leafFormat() (Format, bool, bool) {
	if c.Format != nil {
		return *c.Format, c.HonorSmall, true
	}
	if f, ok := ClassFormat(c.Class); ok {
		return f, ClassHonorsSmall(c.Class), true
	}
	return Format{}, false, false
}

// distributeExtraDepth pushes padding rows down to the leaf-most descendants
// so sibling subtrees of different depth still align at the bottom of the
// heading block.
func distributeExtraDepth(c *Category, extra int) {
	if c.IsGroup() && len(c.Subs) > 0 {
		for _, sub := range c.Subs {
			distributeExtraDepth(sub, extra)
		}
	} else {
		c.ExtraDepth += extra
	}
}

// assignLabelDepth computes LabelDepth and ExtraDepth for the subtree rooted
// at c. dimensionLabelsInCorner applies only to a dimension root: when set,
// a label-showing root moves into the stub corner instead of occupying a
// heading row of its own.
func (c *Category) assignLabelDepth(dimensionLabelsInCorner bool) {
	c.ExtraDepth = 0

	if c.IsGroup() {
		depth := 0
		for _, sub := range c.Subs {
			sub.assignLabelDepth(false)
			if sub.LabelDepth > depth {
				depth = sub.LabelDepth
			}
		}

		for _, sub := range c.Subs {
			if extra := depth - sub.LabelDepth; extra > 0 {
				distributeExtraDepth(sub, extra)
			}
			sub.LabelDepth = depth
		}

		c.ShowLabelInCorner = c.ShowLabel && dimensionLabelsInCorner
		if c.ShowLabel && !c.ShowLabelInCorner {
			c.LabelDepth = depth + 1
		} else {
			c.LabelDepth = depth
		}
	} else {
		c.LabelDepth = 1
	}
}
