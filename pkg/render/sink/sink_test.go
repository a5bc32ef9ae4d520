package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render"
)

// buildTable returns a two-by-two table with a title and footnote-free
// numeric cells.
func buildTable(t *testing.T) *pivot.Table {
	t.Helper()
	pt := pivot.New("Scores")
	pivot.NewDimension(pt, pivot.AxisRow, pivot.NewGroup(pivot.NewText("Player"),
		pivot.NewLeaf(pivot.NewText("Ann")), pivot.NewLeaf(pivot.NewText("Bo"))))
	pivot.NewDimension(pt, pivot.AxisColumn, pivot.NewGroup(pivot.NewText("Round"),
		pivot.NewLeaf(pivot.NewText("One")), pivot.NewLeaf(pivot.NewText("Two"))))
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			pt.Put([]int{r, c}, pivot.NewNumberFormat(float64(10*r+c), pivot.F(40, 0)))
		}
	}
	return pt
}

func TestRenderSVGTable(t *testing.T) {
	pt := buildTable(t)
	svg, err := RenderSVG(output.NewTable(pt))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	doc := string(svg)

	for _, want := range []string{"viewBox", "Scores", "Ann", "Bo", "One", "Two", "<line"} {
		if !strings.Contains(doc, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if !strings.HasPrefix(doc, "<svg") || !strings.HasSuffix(strings.TrimSpace(doc), "</svg>") {
		t.Error("SVG not a complete document")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	item := output.NewTextString(output.TextLog, `a < b & "c"`)
	svg, err := RenderSVG(item)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	doc := string(svg)
	if !strings.Contains(doc, "a &lt; b &amp; &quot;c&quot;") {
		t.Errorf("text not escaped: %s", doc)
	}
}

func TestRenderSVGSkipsEmptyItems(t *testing.T) {
	for _, item := range []*output.Item{
		output.NewGroup(),
		output.NewPageBreak(),
		output.NewTextString(output.TextPageTitle, "Report"),
	} {
		if _, err := RenderSVG(item); err != ErrNoContent {
			t.Errorf("%v item: err = %v, want ErrNoContent", item.Kind, err)
		}
	}
}

func TestRenderPagedSVGHeadings(t *testing.T) {
	ps := render.DefaultPageSetup()
	ps.Headings[0].Paragraphs = []render.Paragraph{
		{Text: "&[Title] p. &[Page]", HAlign: pivot.HCenter},
	}
	ps.InitialPageNumber = 3

	items := []*output.Item{
		output.NewTextString(output.TextLog, "first"),
		output.NewPageBreak(),
		output.NewTextString(output.TextLog, "second"),
	}
	pages, err := RenderPagedSVG(items, ps, map[string]string{"Title": "Report"})
	if err != nil {
		t.Fatalf("RenderPagedSVG: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2 (page break forces the second)", len(pages))
	}
	if !strings.Contains(string(pages[0]), "Report p. 3") {
		t.Errorf("page 1 heading missing:\n%s", pages[0])
	}
	if !strings.Contains(string(pages[1]), "Report p. 4") {
		t.Errorf("page 2 heading not renumbered:\n%s", pages[1])
	}
	if !strings.Contains(string(pages[0]), "first") || strings.Contains(string(pages[0]), "second") {
		t.Error("content not split at the page break")
	}
	if !strings.Contains(string(pages[1]), "second") {
		t.Error("second item missing from page 2")
	}
}

func TestRenderTerm(t *testing.T) {
	pt := buildTable(t)
	got := RenderTerm(pt, WithPlain())

	for _, want := range []string{"Scores", "Ann", "Bo", "One", "Two", "10", "─", "│"} {
		if !strings.Contains(got, want) {
			t.Errorf("terminal output missing %q in:\n%s", want, got)
		}
	}
	lines := strings.Split(got, "\n")
	if len(lines) < 4 {
		t.Errorf("expected rule and content rows, got %d lines", len(lines))
	}
}

func TestRenderXLSX(t *testing.T) {
	pt := buildTable(t)
	f, err := RenderXLSX(pt, WithSheetName("Scores"))
	if err != nil {
		t.Fatalf("RenderXLSX: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Scores")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	flat := map[string]bool{}
	for _, row := range rows {
		for _, cell := range row {
			flat[cell] = true
		}
	}
	for _, want := range []string{"Scores", "Ann", "Bo", "One", "Two", "10", "11"} {
		if !flat[want] {
			t.Errorf("workbook missing %q; rows = %v", want, rows)
		}
	}
}

func TestSVGMeasurement(t *testing.T) {
	dev := NewSVG()
	g := grid.New(1, 1, 0, 0)
	c := g.Text(0, 0, pivot.AreaData, pivot.NewText("alpha beta"))

	min, max := dev.MeasureCellWidth(g, c)
	if min <= 0 || max < min {
		t.Fatalf("widths = %d..%d", min, max)
	}
	// At the natural width everything fits one line; at the minimum width
	// the two words wrap.
	h1 := dev.MeasureCellHeight(g, c, max)
	h2 := dev.MeasureCellHeight(g, c, min)
	if h2 <= h1 {
		t.Errorf("height at min width %d not taller than at max width %d", h2, h1)
	}
}
