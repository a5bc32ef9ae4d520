package grid

import (
	"testing"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

func TestPutAndGetCell(t *testing.T) {
	g := New(3, 2, 1, 1)
	joined := g.Put(1, 0, 2, 1, pivot.AreaData, pivot.NewText("span"))
	g.Text(0, 0, pivot.AreaCorner, pivot.NewText("corner"))

	for _, tt := range []struct {
		x, y int
		want *Cell
	}{
		{1, 0, joined}, {2, 0, joined}, {1, 1, joined}, {2, 1, joined},
	} {
		if got := g.GetCell(tt.x, tt.y); got != tt.want {
			t.Errorf("GetCell(%d,%d) = %+v, want joined cell", tt.x, tt.y, got)
		}
	}

	if got := g.GetCell(0, 0); got.Area != pivot.AreaCorner {
		t.Errorf("GetCell(0,0).Area = %v, want corner", got.Area)
	}

	// Empty slots synthesize an empty data cell covering one slot.
	empty := g.GetCell(0, 1)
	if empty.Value != nil || empty.Area != pivot.AreaData || empty.Joined() {
		t.Errorf("empty slot cell = %+v", empty)
	}

	if !joined.Joined() || joined.Width(pivot.Horz) != 2 || joined.Width(pivot.Vert) != 2 {
		t.Errorf("joined cell geometry wrong: %+v", joined)
	}
}

func TestPutRejectsOverlap(t *testing.T) {
	g := New(2, 2, 0, 0)
	g.Text(1, 1, pivot.AreaData, pivot.NewText("x"))

	defer func() {
		if recover() == nil {
			t.Error("overlapping Put did not panic")
		}
	}()
	g.Put(0, 0, 1, 1, pivot.AreaData, pivot.NewText("y"))
}

func TestRules(t *testing.T) {
	g := New(2, 2, 0, 0)
	g.Borders[pivot.BorderInnerTop] = pivot.BorderStyle{Stroke: pivot.StrokeThick, Color: pivot.ColorBlack}
	g.Borders[pivot.BorderCatColVert] = pivot.BorderStyle{Stroke: pivot.StrokeSolid, Color: pivot.ColorBlack}

	g.HLine(pivot.BorderInnerTop, 0, 1, 0)
	g.VLine(pivot.BorderCatColVert, 1, 0, 1)

	if got := g.GetRule(pivot.Vert, 0, 0); got.Stroke != pivot.StrokeThick {
		t.Errorf("top rule stroke = %v, want thick", got.Stroke)
	}
	if got := g.GetRule(pivot.Horz, 1, 1); got.Stroke != pivot.StrokeSolid {
		t.Errorf("middle vertical rule stroke = %v, want solid", got.Stroke)
	}
	// Rules never drawn default to no stroke, black.
	if got := g.GetRule(pivot.Vert, 0, 2); got.Stroke != pivot.StrokeNone || got.Color != pivot.ColorBlack {
		t.Errorf("default rule = %+v", got)
	}

	// N cells have N+1 rule positions; one past that is out of range.
	defer func() {
		if recover() == nil {
			t.Error("out-of-range rule did not panic")
		}
	}()
	g.GetRule(pivot.Vert, 0, 3)
}

func TestSharedGridMutationPanics(t *testing.T) {
	g := New(2, 2, 0, 0)
	g.Ref()

	for name, mutate := range map[string]func(){
		"Put":        func() { g.Text(0, 0, pivot.AreaData, pivot.NewText("x")) },
		"HLine":      func() { g.HLine(pivot.BorderInnerTop, 0, 1, 0) },
		"VLine":      func() { g.VLine(pivot.BorderInnerLeft, 0, 0, 1) },
		"SetHeaders": func() { g.SetHeaders(1, 0, 1, 0) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s on a shared grid did not panic", name)
				}
			}()
			mutate()
		}()
	}
}

func TestAreaStyleOverride(t *testing.T) {
	g := New(1, 1, 0, 0)
	g.Areas[pivot.AreaData].FontStyle.Size = 9

	v := pivot.NewText("styled")
	v.SetFont(pivot.FontStyle{Size: 14, Typeface: "Serif"})
	c := g.Text(0, 0, pivot.AreaData, v)

	font, _ := g.AreaStyle(c)
	if font.Size != 14 || font.Typeface != "Serif" {
		t.Errorf("font override not applied: %+v", font)
	}

	font2, _ := g.AreaStyle(&Cell{Area: pivot.AreaData})
	if font2.Size != 9 {
		t.Errorf("area font = %+v, want size 9", font2)
	}
}
