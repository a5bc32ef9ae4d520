package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// testOps is a fixed-metric device: every rune is 100 units wide and every
// cell 1000 units tall. It records what it is asked to draw.
type testOps struct {
	pt    *pivot.Table
	drawn []drawnCell
	lines int
}

type drawnCell struct {
	text     string
	bb, clip [2][2]int
}

func (o *testOps) text(c *grid.Cell) string {
	if c.Value == nil {
		return ""
	}
	s, _ := c.Value.Format(o.pt)
	return s
}

func (o *testOps) MeasureCellWidth(g *grid.Grid, c *grid.Cell) (int, int) {
	w := 100 * utf8.RuneCountInString(o.text(c))
	return w, w
}

func (o *testOps) MeasureCellHeight(g *grid.Grid, c *grid.Cell, width int) int {
	return 1000
}

func (o *testOps) DrawCell(g *grid.Grid, c *grid.Cell, colorIdx int, bb [2][2]int, valignOfs int, spill, clip [2][2]int) {
	o.drawn = append(o.drawn, drawnCell{text: o.text(c), bb: bb, clip: clip})
}

func (o *testOps) DrawLine(bb [2][2]int, styles [2][2]pivot.BorderStyle) {
	o.lines++
}

func (o *testOps) texts() []string {
	var out []string
	for _, d := range o.drawn {
		out = append(out, d.text)
	}
	return out
}

func testParams(ops *testOps, w, h int) *Params {
	return &Params{
		Ops:             ops,
		Size:            [2]int{w, h},
		FontSize:        [2]int{200, 1000},
		LineWidths:      DefaultLineWidths(),
		MinBreak:        [2]int{1 << 30, 1 << 30},
		SupportsMargins: true,
	}
}

func textGrid(t *testing.T, texts ...string) *grid.Grid {
	t.Helper()
	g := grid.New(len(texts), 1, 0, 0)
	for x, s := range texts {
		g.Text(x, 0, pivot.AreaData, pivot.NewText(s))
	}
	return g
}

func TestPageNaturalWidths(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 1<<30, 1<<30)

	g := textGrid(t, "aa", "bbbb")
	p := NewPage(params, g, 0, pivot.DefaultLook())
	defer p.Unref()

	// No rules are drawn, so the page is exactly as wide as its cells.
	if got := p.Size(pivot.Horz); got != 600 {
		t.Errorf("width = %d, want 600", got)
	}
	if got := p.Size(pivot.Vert); got != 1000 {
		t.Errorf("height = %d, want 1000", got)
	}
	if got := p.cellWidth(pivot.Horz, 0); got != 200 {
		t.Errorf("first column = %d, want 200", got)
	}
}

func TestPageMinWidthDistribution(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 1<<30, 1<<30)

	g := textGrid(t, "aa", "bbbb")
	p := NewPage(params, g, 1200, pivot.DefaultLook())
	defer p.Unref()

	if got := p.Size(pivot.Horz); got != 1200 {
		t.Errorf("width = %d, want stretched to 1200", got)
	}
	// Both columns grow, so their order by width is preserved.
	if p.cellWidth(pivot.Horz, 0) >= p.cellWidth(pivot.Horz, 1) {
		t.Errorf("column widths = %d, %d; want first narrower",
			p.cellWidth(pivot.Horz, 0), p.cellWidth(pivot.Horz, 1))
	}
}

func TestBreakWholeCells(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 500, 1<<30)

	g := textGrid(t, "aaaa", "bbbb", "cccc", "dddd")
	p := NewPage(params, g, 0, pivot.DefaultLook())

	b := newBreak(p, pivot.Horz)
	var widths []int
	for b.HasNext() {
		sub := b.Next(500)
		if sub == nil {
			t.Fatal("Next returned nil with content remaining")
		}
		widths = append(widths, sub.Size(pivot.Horz))
		sub.Unref()
	}
	b.destroy()

	if len(widths) != 4 {
		t.Fatalf("got %d slices %v, want 4", len(widths), widths)
	}
	for i, w := range widths {
		if w != 400 {
			t.Errorf("slice %d width = %d, want 400", i, w)
		}
	}
}

func TestBreakPartialCell(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 600, 1<<30)
	params.MinBreak = [2]int{100, 100}

	g := textGrid(t, strings.Repeat("a", 10))
	p := NewPage(params, g, 0, pivot.DefaultLook())

	b := newBreak(p, pivot.Horz)

	first := b.Next(600)
	if first == nil {
		t.Fatal("first slice missing")
	}
	if got := first.Size(pivot.Horz); got != 600 {
		t.Errorf("first slice width = %d, want 600", got)
	}
	if !first.isEdgeCutoff[pivot.Horz][1] {
		t.Error("first slice right edge not marked cut off")
	}

	// The sliced cell overflows: its content box keeps the full width
	// while the clip stays inside the slice.
	first.Draw([2]int{0, 0})
	if len(ops.drawn) != 1 {
		t.Fatalf("drew %d cells, want 1", len(ops.drawn))
	}
	d := ops.drawn[0]
	if got := d.bb[pivot.Horz][1] - d.bb[pivot.Horz][0]; got != 1000 {
		t.Errorf("content box width = %d, want full 1000", got)
	}
	if got := d.clip[pivot.Horz][1] - d.clip[pivot.Horz][0]; got != 600 {
		t.Errorf("clip width = %d, want 600", got)
	}
	first.Unref()

	second := b.Next(600)
	if second == nil {
		t.Fatal("second slice missing")
	}
	if got := second.Size(pivot.Horz); got != 400 {
		t.Errorf("second slice width = %d, want 400", got)
	}
	if !second.isEdgeCutoff[pivot.Horz][0] {
		t.Error("second slice left edge not marked cut off")
	}
	second.Unref()

	if b.HasNext() {
		t.Error("break not exhausted after both slices")
	}
	b.destroy()
}

// buildTall returns a table with six rows and three columns, every cell
// filled with a distinct number.
func buildTall(t *testing.T) *pivot.Table {
	t.Helper()
	pt := pivot.New("Example")
	rows := pivot.NewGroup(pivot.NewText("Row"))
	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		rows.Add(pivot.NewLeaf(pivot.NewText(name)))
	}
	pivot.NewDimension(pt, pivot.AxisRow, rows)
	pivot.NewDimension(pt, pivot.AxisColumn, pivot.NewGroup(pivot.NewText("Column"),
		pivot.NewLeaf(pivot.NewText("X")), pivot.NewLeaf(pivot.NewText("Y")),
		pivot.NewLeaf(pivot.NewText("Z"))))
	for r := 0; r < 6; r++ {
		for c := 0; c < 3; c++ {
			pt.Put([]int{r, c}, pivot.NewNumberFormat(float64(r*10+c), pivot.F(40, 0)))
		}
	}
	return pt
}

func TestPagerPaginatesVertically(t *testing.T) {
	pt := buildTall(t)
	ops := &testOps{pt: pt}
	params := testParams(ops, 1<<30, 8000)

	p := NewPager(params, pt, nil)
	defer p.Close()

	var chunks [][]string
	for p.HasNext() {
		before := len(ops.drawn)
		used := p.DrawNext(8000)
		if used == 0 {
			t.Fatal("DrawNext made no progress with a full page of space")
		}
		var chunk []string
		for _, d := range ops.drawn[before:] {
			chunk = append(chunk, d.text)
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) < 2 {
		t.Fatalf("six data rows fit one 8000-unit page; chunks = %v", chunks)
	}

	// Every data cell appears exactly once across all chunks, and the
	// column headings repeat on every chunk that shows data.
	counts := map[string]int{}
	for _, chunk := range chunks {
		for _, s := range chunk {
			counts[s]++
		}
	}
	for r := 0; r < 6; r++ {
		for c := 0; c < 3; c++ {
			s, _ := pivot.NewNumberFormat(float64(r*10+c), pivot.F(40, 0)).Format(pt)
			if counts[s] != 1 {
				t.Errorf("data cell %q drawn %d times, want 1", s, counts[s])
			}
		}
	}
	if counts["Example"] != 1 {
		t.Errorf("title drawn %d times, want 1", counts["Example"])
	}
	dataChunks := 0
	for _, chunk := range chunks {
		for _, s := range chunk {
			if s == "X" {
				dataChunks++
				break
			}
		}
	}
	if counts["X"] != dataChunks {
		t.Errorf("heading X drawn %d times over %d data chunks", counts["X"], dataChunks)
	}
}

func TestPagerTightSpaceMakesNoProgress(t *testing.T) {
	pt := buildTall(t)
	ops := &testOps{pt: pt}
	params := testParams(ops, 1<<30, 8000)

	p := NewPager(params, pt, nil)
	defer p.Close()

	if used := p.DrawNext(1); used != 0 {
		t.Errorf("DrawNext(1) = %d, want 0", used)
	}
	if !p.HasNext() {
		t.Error("content lost after too-small DrawNext")
	}
	if used := p.DrawNext(8000); used == 0 {
		t.Error("DrawNext with full space still made no progress")
	}
}

func TestPagerSize(t *testing.T) {
	pt := buildTall(t)
	ops := &testOps{pt: pt}
	params := testParams(ops, 1<<30, 1<<30)

	p := NewPager(params, pt, nil)
	defer p.Close()

	if w := p.Size(pivot.Horz); w <= 0 {
		t.Errorf("width = %d", w)
	}
	height := p.Size(pivot.Vert)
	total := 0
	for p.HasNext() {
		used := p.DrawNext(1 << 30)
		if used == 0 {
			break
		}
		total += used
	}
	if total != height {
		t.Errorf("drawn height %d != reported height %d", total, height)
	}
}

func TestRuleSegments(t *testing.T) {
	solid := pivot.BorderStyle{Stroke: pivot.StrokeSolid, Color: pivot.ColorBlack}
	none := pivot.BorderStyle{Stroke: pivot.StrokeNone, Color: pivot.ColorBlack}
	double := pivot.BorderStyle{Stroke: pivot.StrokeDouble, Color: pivot.ColorBlack}
	bb := [2][2]int{{0, 1000}, {0, 1000}}

	t.Run("plain cross merges colinear strokes", func(t *testing.T) {
		segs := RuleSegments(bb, [2][2]pivot.BorderStyle{{solid, solid}, {solid, solid}}, false)
		if len(segs) != 2 {
			t.Fatalf("got %d segments %v, want 2", len(segs), segs)
		}
	})

	t.Run("double vertical splits and shortens crossing", func(t *testing.T) {
		// A double rule is 2000 units wide, so its two strokes sit at
		// 250 and 1750 and crossing strokes stop short of them.
		wide := [2][2]int{{0, 2000}, {0, 1000}}
		segs := RuleSegments(wide, [2][2]pivot.BorderStyle{{double, double}, {solid, solid}}, false)
		vert := 0
		for _, s := range segs {
			if s.X0 == s.X1 {
				vert++
				if s.Y0 != 0 || s.Y1 != 1000 {
					t.Errorf("vertical stroke %+v not full height", s)
				}
			} else if s.X1 > 250 && s.X0 < 1750 {
				t.Errorf("horizontal stroke %+v crosses the double rule gap", s)
			}
		}
		if vert != 2 {
			t.Errorf("got %d vertical strokes, want 2", vert)
		}
	})

	t.Run("corner draws only present sides", func(t *testing.T) {
		segs := RuleSegments(bb, [2][2]pivot.BorderStyle{{none, solid}, {none, solid}}, false)
		if len(segs) != 2 {
			t.Fatalf("got %d segments %v, want 2", len(segs), segs)
		}
		for _, s := range segs {
			if s.Stroke != pivot.StrokeSolid {
				t.Errorf("segment %+v has wrong stroke", s)
			}
		}
	})
}

func TestSubstituteHeadingVars(t *testing.T) {
	vars := map[string]string{"Title": "Report"}
	tests := []struct {
		in, want string
	}{
		{"Page &[Page]", "Page 7"},
		{"&[Title] - &[Page]", "Report - 7"},
		{"&[Missing]", ""},
		{"no refs", "no refs"},
		{"unterminated &[Page", "unterminated &[Page"},
	}
	for _, tt := range tests {
		if got := SubstituteHeadingVars(tt.in, vars, 7); got != tt.want {
			t.Errorf("SubstituteHeadingVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"72", 72},
		{"36pt", 36},
		{"1in", 72},
		{"2.54cm", 72},
		{"25.4mm", 72},
	}
	for _, tt := range tests {
		got, err := ParseLength(tt.in)
		if err != nil || got < tt.want-0.001 || got > tt.want+0.001 {
			t.Errorf("ParseLength(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLength("wide"); err == nil {
		t.Error("ParseLength accepted a non-number")
	}
}
