package compose

import (
	"reflect"
	"testing"

	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// buildExample returns a 2x3 table: Row={A,B}, Column={X,Y,Z}, all six cells
// filled with row*10+column.
func buildExample(t *testing.T) *pivot.Table {
	t.Helper()
	pt := pivot.New("Example")
	pivot.NewDimension(pt, pivot.AxisRow, pivot.NewGroup(pivot.NewText("Row"),
		pivot.NewLeaf(pivot.NewText("A")), pivot.NewLeaf(pivot.NewText("B"))))
	pivot.NewDimension(pt, pivot.AxisColumn, pivot.NewGroup(pivot.NewText("Column"),
		pivot.NewLeaf(pivot.NewText("X")), pivot.NewLeaf(pivot.NewText("Y")),
		pivot.NewLeaf(pivot.NewText("Z"))))
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			pt.Put([]int{r, c}, pivot.NewNumberFormat(float64(r*10+c), pivot.F(40, 0)))
		}
	}
	return pt
}

func cellText(t *testing.T, g *grid.Grid, pt *pivot.Table, x, y int) string {
	t.Helper()
	c := g.GetCell(x, y)
	if c.Value == nil {
		return ""
	}
	s, _ := c.Value.Format(pt)
	return s
}

func TestBuildExampleGrid(t *testing.T) {
	pt := buildExample(t)
	out := Build(pt, nil, false)
	body := out.Body

	// 3 data columns plus a one-column row stub; 2 data rows plus a
	// two-row column heading (dimension label and leaf labels).
	if got := body.N; got != [2]int{4, 4} {
		t.Fatalf("body size = %v, want [4 4]", got)
	}
	if got := body.H; got[pivot.Horz][0] != 1 || got[pivot.Vert][0] != 2 {
		t.Errorf("headers = %v, want 1 stub column and 2 heading rows", got)
	}

	// Column heading hierarchy: dimension label spans the three leaves.
	dimCell := body.GetCell(1, 0)
	if got, _ := dimCell.Value.Format(pt); got != "Column" {
		t.Errorf("dimension label = %q", got)
	}
	if dimCell.Rect[pivot.Horz] != [2]int{1, 4} {
		t.Errorf("dimension label spans %v, want [1 4]", dimCell.Rect[pivot.Horz])
	}
	for i, want := range []string{"X", "Y", "Z"} {
		if got := cellText(t, body, pt, 1+i, 1); got != want {
			t.Errorf("leaf label [%d] = %q, want %q", i, got, want)
		}
	}

	// The default look moves the row dimension label into the corner.
	if got := cellText(t, body, pt, 0, 0); got != "Row" {
		t.Errorf("corner label = %q, want %q", got, "Row")
	}
	for i, want := range []string{"A", "B"} {
		if got := cellText(t, body, pt, 0, 2+i); got != want {
			t.Errorf("row label [%d] = %q, want %q", i, got, want)
		}
	}

	// All six data cells, in (row, column) order.
	want := [][]string{{"0", "1", "2"}, {"10", "11", "12"}}
	for y, row := range want {
		for x, w := range row {
			if got := cellText(t, body, pt, 1+x, 2+y); got != w {
				t.Errorf("data cell (%d,%d) = %q, want %q", x, y, got, w)
			}
		}
	}
}

func TestBuildHeadingRules(t *testing.T) {
	pt := buildExample(t)
	out := Build(pt, nil, false)
	body := out.Body

	// The outer frame rules always exist at positions 0 and N.
	catStyle := pt.Look.ResolveBorder(pivot.BorderCatColVert, false)
	innerLeft := pt.Look.ResolveBorder(pivot.BorderInnerLeft, false)
	if got := body.GetRule(pivot.Horz, 0, 0); got != innerLeft {
		t.Errorf("left frame rule = %+v, want %+v", got, innerLeft)
	}
	if got := body.GetRule(pivot.Horz, body.N[pivot.Horz], 0); got.Stroke == pivot.StrokeNone {
		t.Error("right frame rule missing")
	}

	// Rules between leaf columns start on the bottom heading row and use
	// the category style, continuing to the bottom of the grid.
	for _, x := range []int{2, 3} {
		for y := 1; y < body.N[pivot.Vert]; y++ {
			if got := body.GetRule(pivot.Horz, x, y); got != catStyle {
				t.Errorf("rule left of column %d at row %d = %+v, want category style", x, y, got)
			}
		}
		// The run above the leaf row belongs to the dimension label span,
		// so no rule exists there.
		if got := body.GetRule(pivot.Horz, x, 0); got.Stroke != pivot.StrokeNone {
			t.Errorf("rule left of column %d at row 0 = %+v, want none", x, got)
		}
	}
}

func TestBuildOmitEmpty(t *testing.T) {
	pt := pivot.New("Sparse")
	pivot.NewDimension(pt, pivot.AxisRow, pivot.NewGroup(pivot.NewText("Row"),
		pivot.NewLeaf(pivot.NewText("A")), pivot.NewLeaf(pivot.NewText("B"))))
	pivot.NewDimension(pt, pivot.AxisColumn, pivot.NewGroup(pivot.NewText("Col"),
		pivot.NewLeaf(pivot.NewText("X")), pivot.NewLeaf(pivot.NewText("Y"))))
	pt.Put([]int{0, 0}, pivot.NewNumber(1))

	out := Build(pt, nil, false)
	// Row B and column Y are empty and the default look omits them.
	if got := out.Body.N; got != [2]int{2, 3} {
		t.Errorf("body size = %v, want [2 3]", got)
	}
}

func TestBuildFootnotes(t *testing.T) {
	pt := buildExample(t)
	shown := pt.AddFootnote(pivot.NewText("visible note"))
	hidden := pt.AddFootnote(pivot.NewText("hidden note"))
	hidden.Show = false
	pt.AddFootnote(pivot.NewText("unreferenced note"))

	v := pivot.NewNumberFormat(99, pivot.F(40, 0))
	v.AddFootnote(shown)
	v.AddFootnote(hidden)
	pt.Put([]int{0, 0}, v)

	out := Build(pt, nil, false)

	if len(out.FootnoteList) != 1 || out.FootnoteList[0] != shown {
		t.Fatalf("footnote list = %v, want only the shown, referenced one", out.FootnoteList)
	}
	if out.Footnotes == nil || out.Footnotes.N[pivot.Vert] != 1 {
		t.Fatal("footnotes grid missing or wrong size")
	}
	if got := cellText(t, out.Footnotes, pt, 0, 0); got != "a. visible note" {
		t.Errorf("footnote line = %q", got)
	}
}

func TestBuildLayers(t *testing.T) {
	pt := buildExample(t)
	pivot.NewDimension(pt, pivot.AxisLayer, pivot.NewGroup(pivot.NewText("Layer"),
		pivot.NewLeaf(pivot.NewText("L0")), pivot.NewLeaf(pivot.NewText("L1"))))
	pt.Put([]int{0, 0, 1}, pivot.NewNumber(42))

	out := Build(pt, []int{1}, false)
	if out.Layers == nil || out.Layers.N[pivot.Vert] != 1 {
		t.Fatal("layers grid missing")
	}
	if got := cellText(t, out.Layers, pt, 0, 0); got != "L1" {
		t.Errorf("layer label = %q, want %q", got, "L1")
	}
}

func TestNextLayer(t *testing.T) {
	pt := buildExample(t)
	pivot.NewDimension(pt, pivot.AxisLayer, pivot.NewGroup(pivot.NewText("Layer"),
		pivot.NewLeaf(pivot.NewText("L0")), pivot.NewLeaf(pivot.NewText("L1"))))

	t.Run("display iterates current layer once", func(t *testing.T) {
		indexes, ok := NextLayer(pt, nil, false)
		if !ok || !reflect.DeepEqual(indexes, []int{0}) {
			t.Fatalf("first = %v, %v", indexes, ok)
		}
		if _, ok := NextLayer(pt, indexes, false); ok {
			t.Error("display iteration did not stop after one layer")
		}
	})

	t.Run("print all layers walks the odometer", func(t *testing.T) {
		look := pt.Look.Unshare()
		look.PrintAllLayers = true
		pt.SetLook(look)

		var got [][]int
		indexes, ok := NextLayer(pt, nil, true)
		for ok {
			got = append(got, append([]int(nil), indexes...))
			indexes, ok = NextLayer(pt, indexes, true)
		}
		want := [][]int{{0}, {1}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("layers = %v, want %v", got, want)
		}
	})
}
