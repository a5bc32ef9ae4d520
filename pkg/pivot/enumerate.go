package pivot

// axisNext advances a tuple of per-dimension presentation indexes through
// the axis in odometer order, innermost dimension fastest. It reports false
// once the tuple wraps around.
func axisNext(a *Axis, indexes []int) bool {
	for i, d := range a.Dimensions {
		if indexes[i]+1 < d.NLeaves() {
			indexes[i]++
			return true
		}
		indexes[i] = 0
	}
	return false
}

// firstTuple returns the initial index tuple for the axis, or false when any
// dimension is empty.
func firstTuple(a *Axis) ([]int, bool) {
	indexes := make([]int, len(a.Dimensions))
	for _, d := range a.Dimensions {
		if d.NLeaves() == 0 {
			return nil, false
		}
	}
	return indexes, true
}

// EnumerateAxis returns the presentation-order enumeration of one display
// axis: every combination of per-dimension presentation indexes, innermost
// dimension varying fastest.
//
// An axis with no dimensions enumerates to a single implicit combination. An
// axis containing an empty dimension enumerates to nothing. With omitEmpty
// set, combinations are kept only if at least one cell exists for them when
// crossed with the opposite axis's full enumeration at the fixed layer; if
// that filter leaves nothing, the full enumeration is returned instead so a
// table with real dimensions never collapses to an empty grid.
func (t *Table) EnumerateAxis(axisType AxisType, layerIndexes []int, omitEmpty bool) [][]int {
	axis := &t.Axes[axisType]

	if len(axis.Dimensions) == 0 {
		return [][]int{{}}
	}
	indexes, ok := firstTuple(axis)
	if !ok {
		return nil
	}

	var full [][]int
	for {
		full = append(full, append([]int(nil), indexes...))
		if !axisNext(axis, indexes) {
			break
		}
	}

	if !omitEmpty {
		return full
	}

	opposite := &t.Axes[axisType.Transpose()]
	dindexes := make([]int, len(t.Dimensions))
	var kept [][]int
	for _, tuple := range full {
		if t.anyCellOnOpposite(axisType, tuple, opposite, layerIndexes, dindexes) {
			kept = append(kept, tuple)
		}
	}
	if len(kept) == 0 {
		return full
	}
	return kept
}

// anyCellOnOpposite reports whether some combination along the opposite axis
// has data for the given tuple with the layer fixed.
func (t *Table) anyCellOnOpposite(axisType AxisType, tuple []int, opposite *Axis, layerIndexes []int, dindexes []int) bool {
	oppIndexes, ok := firstTuple(opposite)
	if !ok && len(opposite.Dimensions) > 0 {
		return false
	}
	for {
		var row, col []int
		if axisType == AxisRow {
			row, col = tuple, oppIndexes
		} else {
			col, row = tuple, oppIndexes
		}
		t.ConvertIndexesPtoD(row, col, layerIndexes, dindexes)
		if t.cells[cellKey(dindexes)] != nil {
			return true
		}
		if len(opposite.Dimensions) == 0 || !axisNext(opposite, oppIndexes) {
			return false
		}
	}
}
