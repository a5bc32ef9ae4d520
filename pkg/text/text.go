// Package text defines the text layout collaborator consumed by the
// renderer, plus a deterministic metric-based implementation.
//
// The renderer never shapes text itself: it hands strings, font styles, and
// a maximum width to a [Layouter] and works with the returned box's size and
// per-line extents. Production backends wrap a real shaping engine; the
// metric implementation here assigns every rune a fixed fraction of the font
// size, which keeps measurement fast, portable, and reproducible in tests.
package text

import (
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// Line describes one visual line of a laid-out box: its text and its top
// and bottom offsets from the top of the box, in layout units.
type Line struct {
	Text        string
	Top, Bottom int
}

// Box is one laid-out piece of text.
type Box interface {
	// Size returns the box extent per axis in layout units.
	Size() [2]int
	// Lines iterates the visual lines from top to bottom.
	Lines() []Line
}

// Layouter lays out a string within a maximum width. A negative width means
// "natural" no-wrap measurement.
type Layouter interface {
	Layout(s string, font pivot.FontStyle, maxWidth int) Box
}

// Metric is a Layouter with fixed per-rune metrics: every rune advances
// CharWidthPct percent of the font size and lines are LineHeightPct percent
// tall. It wraps greedily at spaces, falling back to mid-word wraps for
// words wider than the available width.
type Metric struct {
	// UnitsPerPoint converts the font size in points to layout units.
	UnitsPerPoint int
	CharWidthPct  int
	LineHeightPct int
}

// NewMetric returns a Metric layouter producing coordinates in the given
// units per point.
func NewMetric(unitsPerPoint int) *Metric {
	return &Metric{UnitsPerPoint: unitsPerPoint, CharWidthPct: 50, LineHeightPct: 120}
}

type metricBox struct {
	size  [2]int
	lines []Line
}

func (b *metricBox) Size() [2]int  { return b.size }
func (b *metricBox) Lines() []Line { return b.lines }

func (m *Metric) charWidth(font pivot.FontStyle) int {
	size := font.Size
	if size <= 0 {
		size = 9
	}
	w := size * m.UnitsPerPoint * m.CharWidthPct / 100
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Metric) lineHeight(font pivot.FontStyle) int {
	size := font.Size
	if size <= 0 {
		size = 9
	}
	h := size * m.UnitsPerPoint * m.LineHeightPct / 100
	if h < 1 {
		h = 1
	}
	return h
}

// Layout implements [Layouter].
func (m *Metric) Layout(s string, font pivot.FontStyle, maxWidth int) Box {
	cw := m.charWidth(font)
	lh := m.lineHeight(font)

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if maxWidth < 0 || utf8.RuneCountInString(para)*cw <= maxWidth {
			lines = append(lines, para)
			continue
		}
		lines = append(lines, wrap(para, maxInt(1, maxWidth/cw))...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	box := &metricBox{}
	for i, line := range lines {
		w := utf8.RuneCountInString(line) * cw
		if w > box.size[pivot.Horz] {
			box.size[pivot.Horz] = w
		}
		box.lines = append(box.lines, Line{Text: line, Top: i * lh, Bottom: (i + 1) * lh})
	}
	box.size[pivot.Vert] = len(lines) * lh
	return box
}

// wrap splits a paragraph into lines of at most maxChars runes, preferring
// space boundaries.
func wrap(s string, maxChars int) []string {
	var lines []string
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var line strings.Builder
	lineLen := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineLen = 0
	}
	for _, word := range words {
		wl := utf8.RuneCountInString(word)
		switch {
		case lineLen == 0 && wl <= maxChars:
			line.WriteString(word)
			lineLen = wl
		case lineLen > 0 && lineLen+1+wl <= maxChars:
			line.WriteByte(' ')
			line.WriteString(word)
			lineLen += 1 + wl
		default:
			if lineLen > 0 {
				flush()
			}
			// Hard-split words longer than a full line.
			for wl > maxChars {
				runes := []rune(word)
				lines = append(lines, string(runes[:maxChars]))
				word = string(runes[maxChars:])
				wl -= maxChars
			}
			line.WriteString(word)
			lineLen = wl
		}
	}
	if lineLen > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
