package pivot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLookFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "look.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadLookFileDefaults(t *testing.T) {
	l, err := LoadLookFile(writeLookFile(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l, NewLook()) {
		t.Error("empty file should yield the builtin defaults")
	}
}

func TestLoadLookFileOverrides(t *testing.T) {
	l, err := LoadLookFile(writeLookFile(t, `
name = "compact"
omit_empty = false
row_heading_width_range = [40, 120]

[area.title]
bold = true
size = 12
fg = "#336699"
halign = "center"
margin = [4, 4, 1, 1]

[border."inner.top"]
stroke = "double"
color = "red"
`))
	if err != nil {
		t.Fatal(err)
	}

	if l.Name != "compact" {
		t.Errorf("Name = %q", l.Name)
	}
	if l.OmitEmpty {
		t.Error("OmitEmpty should be overridden to false")
	}
	if l.RowHeadingWidthRange != [2]int{40, 120} {
		t.Errorf("RowHeadingWidthRange = %v", l.RowHeadingWidthRange)
	}

	title := l.Areas[AreaTitle]
	if !title.FontStyle.Bold || title.FontStyle.Size != 12 {
		t.Errorf("title font = %+v", title.FontStyle)
	}
	if title.FontStyle.Fg[0] != (Color{255, 0x33, 0x66, 0x99}) {
		t.Errorf("title fg = %+v", title.FontStyle.Fg[0])
	}
	if title.CellStyle.HAlign != HCenter {
		t.Errorf("title halign = %v", title.CellStyle.HAlign)
	}
	if title.CellStyle.Margin != [2][2]int{{4, 4}, {1, 1}} {
		t.Errorf("title margin = %v", title.CellStyle.Margin)
	}

	inner := l.Borders[BorderInnerTop]
	if inner.Stroke != StrokeDouble {
		t.Errorf("inner.top stroke = %v", inner.Stroke)
	}
	if inner.Color != (Color{255, 255, 0, 0}) {
		t.Errorf("inner.top color = %+v", inner.Color)
	}

	// Untouched keys keep the defaults.
	def := NewLook()
	if l.Areas[AreaData] != def.Areas[AreaData] {
		t.Error("data area changed without an override")
	}
}

func TestLookFileRoundTrip(t *testing.T) {
	src := NewLook()
	src.Name = "custom"
	src.OmitEmpty = false
	src.PrintAllLayers = true
	src.Areas[AreaCaption].FontStyle.Italic = true
	src.Borders[BorderOuterLeft] = BorderStyle{Stroke: StrokeThick, Color: ColorBlack}

	path := filepath.Join(t.TempDir(), "look.toml")
	if err := src.SaveFile(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadLookFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, src) {
		t.Errorf("round trip changed the look:\ngot  %+v\nwant %+v", got, src)
	}
}

func TestLoadLookFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad area", body: "[area.sidebar]\nbold = true\n", want: "unknown area"},
		{name: "bad stroke", body: "[border.title]\nstroke = \"wavy\"\n", want: "unknown stroke"},
		{name: "bad color", body: "[area.title]\nfg = \"#zzz\"\n", want: "unparseable color"},
		{name: "bad range", body: "row_heading_width_range = [1, 2, 3]\n", want: "needs 2 entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLookFile(writeLookFile(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"black", ColorBlack},
		{"#fff", ColorWhite},
		{"#336699", Color{255, 0x33, 0x66, 0x99}},
		{"Gray", Color{255, 128, 128, 128}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseColor("mauve-ish"); err == nil {
		t.Error("expected error for unknown color name")
	}
}
