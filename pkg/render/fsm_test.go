package render

import (
	"testing"

	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

func TestFSMSkipsNonRenderable(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 10000, 10000)

	if fsm := NewFSM(params, output.NewGroup(), true, 0); fsm != nil {
		t.Error("group item produced an FSM")
	}
	title := output.NewTextString(output.TextPageTitle, "Report")
	if fsm := NewFSM(params, title, true, 0); fsm != nil {
		t.Error("page title item produced an FSM")
	}
}

func TestFSMTextRendersAsTable(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 1<<30, 1<<30)

	fsm := NewFSM(params, output.NewTextString(output.TextLog, "processing complete"), true, 0)
	if fsm == nil {
		t.Fatal("no FSM for a log text item")
	}
	defer fsm.Close()

	used := fsm.DrawSlice(1 << 30)
	if used == 0 {
		t.Fatal("text item drew nothing")
	}
	if !fsm.Done() {
		t.Error("text item not done after one full-space slice")
	}
	texts := ops.texts()
	if len(texts) != 1 || texts[0] != "processing complete" {
		t.Errorf("drew %v, want just the text content", texts)
	}
}

func TestFSMMessageConverts(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 1<<30, 1<<30)

	msg := output.NewMessage(&output.Message{Severity: output.SeverityError, Text: "bad input"})
	fsm := NewFSM(params, msg, true, 0)
	if fsm == nil {
		t.Fatal("no FSM for a message item")
	}
	defer fsm.Close()

	fsm.DrawSlice(1 << 30)
	texts := ops.texts()
	if len(texts) != 1 || texts[0] != "error: bad input" {
		t.Errorf("drew %v, want the formatted message", texts)
	}
}

func TestFSMChartIsAtomic(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 10000, 10000)

	fsm := NewFSM(params, output.NewChart(&output.Chart{DOT: "digraph {}"}), true, 0)
	if fsm == nil {
		t.Fatal("no FSM for a chart item")
	}
	defer fsm.Close()

	// The chart wants 0.8 of the smaller page dimension.
	if used := fsm.DrawSlice(7999); used != 0 {
		t.Errorf("DrawSlice(7999) = %d, want 0", used)
	}
	if fsm.Done() {
		t.Error("chart done without being drawn")
	}
	if used := fsm.DrawSlice(8000); used != 8000 {
		t.Errorf("DrawSlice(8000) = %d, want 8000", used)
	}
	if !fsm.Done() {
		t.Error("chart not done after drawing")
	}
}

func TestFSMPageBreak(t *testing.T) {
	ops := &testOps{}
	params := testParams(ops, 10000, 10000)

	fsm := NewFSM(params, output.NewPageBreak(), true, 0)
	if fsm == nil {
		t.Fatal("no FSM for a page break")
	}
	defer fsm.Close()

	if used := fsm.DrawSlice(5000); used != 0 {
		t.Errorf("partial page consumed %d units", used)
	}
	if fsm.Done() {
		t.Error("page break done before a page boundary")
	}
	if used := fsm.DrawSlice(10000); used != 0 {
		t.Errorf("full page consumed %d units", used)
	}
	if !fsm.Done() {
		t.Error("page break not done on a fresh page")
	}
}

func TestFSMPrintsAllLayers(t *testing.T) {
	pt := buildTall(t)
	pivot.NewDimension(pt, pivot.AxisLayer, pivot.NewGroup(pivot.NewText("Half"),
		pivot.NewLeaf(pivot.NewText("First")), pivot.NewLeaf(pivot.NewText("Second"))))
	look := pivot.NewLook()
	look.PrintAllLayers = true
	pt.SetLook(look)
	for r := 0; r < 6; r++ {
		for c := 0; c < 3; c++ {
			for l := 0; l < 2; l++ {
				pt.Put([]int{r, c, l}, pivot.NewNumberFormat(float64(l*100+r*10+c), pivot.F(40, 0)))
			}
		}
	}
	pt.AssignLabelDepths()

	ops := &testOps{pt: pt}
	params := testParams(ops, 1<<30, 1<<30)

	fsm := NewFSM(params, output.NewTable(pt), true, 12)
	if fsm == nil {
		t.Fatal("no FSM for the layered table")
	}
	defer fsm.Close()

	for i := 0; !fsm.Done(); i++ {
		if fsm.DrawSlice(1<<30) == 0 && !fsm.Done() {
			t.Fatal("no progress with unlimited space")
		}
		if i > 10 {
			t.Fatal("layer iteration never finished")
		}
	}

	counts := map[string]int{}
	for _, s := range ops.texts() {
		counts[s]++
	}
	if counts["First"] == 0 || counts["Second"] == 0 {
		t.Errorf("layer labels drawn %d and %d times, want both at least once",
			counts["First"], counts["Second"])
	}
	if counts["Example"] != 2 {
		t.Errorf("title drawn %d times, want once per layer", counts["Example"])
	}
}
