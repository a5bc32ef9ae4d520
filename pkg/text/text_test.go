package text

import (
	"testing"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

func TestMetricNaturalLayout(t *testing.T) {
	m := NewMetric(1000)
	font := pivot.FontStyle{Size: 10}

	box := m.Layout("hello", font, -1)
	// 5 runes at half the 10pt font size, one line at 120% height.
	if got := box.Size(); got != [2]int{25000, 12000} {
		t.Errorf("Size() = %v, want [25000 12000]", got)
	}
	if lines := box.Lines(); len(lines) != 1 || lines[0].Text != "hello" {
		t.Errorf("Lines() = %+v", lines)
	}
}

func TestMetricWrapping(t *testing.T) {
	m := NewMetric(1000)
	font := pivot.FontStyle{Size: 10}
	cw := 5000

	tests := []struct {
		name      string
		s         string
		maxChars  int
		wantLines []string
	}{
		{"fits", "ab cd", 10, []string{"ab cd"}},
		{"wraps at space", "ab cd ef", 5, []string{"ab cd", "ef"}},
		{"long word hard split", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"explicit newline", "ab\ncd", 10, []string{"ab", "cd"}},
		{"empty", "", 10, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := m.Layout(tt.s, font, tt.maxChars*cw)
			lines := box.Lines()
			if len(lines) != len(tt.wantLines) {
				t.Fatalf("got %d lines %+v, want %d", len(lines), lines, len(tt.wantLines))
			}
			for i, want := range tt.wantLines {
				if lines[i].Text != want {
					t.Errorf("line %d = %q, want %q", i, lines[i].Text, want)
				}
			}
		})
	}
}

func TestMetricLineOffsets(t *testing.T) {
	m := NewMetric(1000)
	font := pivot.FontStyle{Size: 10}

	box := m.Layout("a\nb\nc", font, -1)
	lines := box.Lines()
	lh := 12000
	for i, line := range lines {
		if line.Top != i*lh || line.Bottom != (i+1)*lh {
			t.Errorf("line %d offsets = (%d,%d), want (%d,%d)",
				i, line.Top, line.Bottom, i*lh, (i+1)*lh)
		}
	}
	if box.Size()[pivot.Vert] != 3*lh {
		t.Errorf("height = %d, want %d", box.Size()[pivot.Vert], 3*lh)
	}
}
