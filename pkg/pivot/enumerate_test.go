package pivot

import (
	"reflect"
	"testing"
)

// buildTwoByThree returns a table with Row={A,B} and Column={X,Y,Z}; fill
// selects which (row, column) data index pairs get cells.
func buildTwoByThree(t *testing.T, fill [][2]int) *Table {
	t.Helper()
	pt := New("test")
	NewDimension(pt, AxisRow, NewGroup(NewText("Row"),
		NewLeaf(NewText("A")), NewLeaf(NewText("B"))))
	NewDimension(pt, AxisColumn, NewGroup(NewText("Column"),
		NewLeaf(NewText("X")), NewLeaf(NewText("Y")), NewLeaf(NewText("Z"))))
	for _, f := range fill {
		pt.Put([]int{f[0], f[1]}, NewNumber(float64(f[0]*10+f[1])))
	}
	return pt
}

func TestEnumerateAxisFull(t *testing.T) {
	pt := buildTwoByThree(t, nil)

	got := pt.EnumerateAxis(AxisColumn, nil, false)
	want := [][]int{{0}, {1}, {2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("column enumeration = %v, want %v", got, want)
	}

	if rows := pt.EnumerateAxis(AxisRow, nil, false); len(rows) != 2 {
		t.Errorf("row enumeration has %d entries, want 2", len(rows))
	}
}

func TestEnumerateAxisOdometer(t *testing.T) {
	pt := New("test")
	NewDimension(pt, AxisColumn, NewGroup(NewText("inner"),
		NewLeaf(NewText("i0")), NewLeaf(NewText("i1"))))
	NewDimension(pt, AxisColumn, NewGroup(NewText("outer"),
		NewLeaf(NewText("o0")), NewLeaf(NewText("o1"))))

	got := pt.EnumerateAxis(AxisColumn, nil, false)
	// Innermost dimension (level 0) varies fastest.
	want := [][]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("enumeration = %v, want %v", got, want)
	}
}

func TestEnumerateAxisNoDimensions(t *testing.T) {
	pt := New("test")
	NewDimension(pt, AxisColumn, NewGroup(NewText("C"), NewLeaf(NewText("x"))))

	got := pt.EnumerateAxis(AxisRow, nil, false)
	if len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("empty axis enumeration = %v, want one empty tuple", got)
	}
}

func TestEnumerateAxisOmitEmpty(t *testing.T) {
	tests := []struct {
		name     string
		fill     [][2]int
		axis     AxisType
		want     [][]int
		fallback bool
	}{
		{
			"keeps rows with any data",
			[][2]int{{0, 0}, {0, 2}},
			AxisRow,
			[][]int{{0}},
			false,
		},
		{
			"keeps columns with any data",
			[][2]int{{1, 1}},
			AxisColumn,
			[][]int{{1}},
			false,
		},
		{
			"empty table falls back to full",
			nil,
			AxisColumn,
			[][]int{{0}, {1}, {2}},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := buildTwoByThree(t, tt.fill)
			got := pt.EnumerateAxis(tt.axis, nil, true)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("enumeration = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnumerateRespectsLayer(t *testing.T) {
	pt := New("test")
	NewDimension(pt, AxisRow, NewGroup(NewText("Row"),
		NewLeaf(NewText("A")), NewLeaf(NewText("B"))))
	NewDimension(pt, AxisColumn, NewGroup(NewText("Col"),
		NewLeaf(NewText("X")), NewLeaf(NewText("Y"))))
	NewDimension(pt, AxisLayer, NewGroup(NewText("Layer"),
		NewLeaf(NewText("L0")), NewLeaf(NewText("L1"))))

	// Only layer 1 has data, and only in row B.
	pt.Put([]int{1, 0, 1}, NewNumber(1))

	if got := pt.EnumerateAxis(AxisRow, []int{1}, true); !reflect.DeepEqual(got, [][]int{{1}}) {
		t.Errorf("layer 1 rows = %v, want [[1]]", got)
	}
	// Layer 0 is empty, so the filter falls back to the full enumeration.
	if got := pt.EnumerateAxis(AxisRow, []int{0}, true); len(got) != 2 {
		t.Errorf("layer 0 rows = %v, want full fallback of 2", got)
	}
}

func TestPutGetAndFormatInheritance(t *testing.T) {
	pt := New("test")
	NewDimension(pt, AxisRow, NewGroup(NewText("Stats"),
		NewLeafClass(NewText("Count"), ClassCount),
		NewLeaf(NewText("Mean"))))
	NewDimension(pt, AxisColumn, NewGroup(NewText("Col"), NewLeaf(NewText("x"))))

	pt.Put([]int{0, 0}, NewNumber(12))
	pt.Put([]int{1, 0}, NewNumber(3.25))

	if got, _ := pt.Get([]int{0, 0}).FormatBody(pt); got != "12" {
		t.Errorf("count cell = %q, want %q (class format)", got, "12")
	}
	if got, _ := pt.Get([]int{1, 0}).FormatBody(pt); got != "3.25" {
		t.Errorf("mean cell = %q, want %q (table default)", got, "3.25")
	}
	if pt.Get([]int{1, 0}) == nil || pt.Get([]int{0, 0}) == nil {
		t.Fatal("stored cells missing")
	}
	if pt.NCells() != 2 {
		t.Errorf("NCells() = %d, want 2", pt.NCells())
	}
}

func TestPutPanicsOnBadIndexes(t *testing.T) {
	pt := buildTwoByThree(t, nil)

	for _, indexes := range [][]int{{0}, {0, 1, 2}, {2, 0}, {0, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Put(%v) did not panic", indexes)
				}
			}()
			pt.Put(indexes, NewNumber(1))
		}()
	}
}

func TestSharedTableMutationPanics(t *testing.T) {
	pt := buildTwoByThree(t, nil)
	ref := pt.Ref()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Put on a shared table did not panic")
			}
		}()
		pt.Put([]int{0, 0}, NewNumber(1))
	}()

	// Unshare yields a privately owned copy that accepts mutation.
	own := ref.Unshare()
	if own == pt {
		t.Fatal("Unshare returned the shared table")
	}
	own.Put([]int{0, 0}, NewNumber(1))
	if own.Get([]int{0, 0}) == nil {
		t.Error("cell missing after Put on unshared copy")
	}
	if pt.Get([]int{0, 0}) != nil {
		t.Error("Put on copy leaked into the original")
	}
}
