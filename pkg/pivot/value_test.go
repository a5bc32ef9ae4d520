package pivot

import "testing"

func TestFormatApply(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		x      float64
		want   string
	}{
		{"fixed two decimals", F(40, 2), 1234.567, "1234.57"},
		{"fixed zero decimals", F(40, 0), 3.0, "3"},
		{"fixed negative", F(40, 1), -2.5, "-2.5"},
		{"scientific", E(40, 2), 12345.0, "1.23E+04"},
		{"percent", Pct(40, 1), 33.333, "33.3%"},
		{"missing", F(40, 2), nan(), "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Apply(tt.x); got != tt.want {
				t.Errorf("Apply(%v) = %q, want %q", tt.x, got, tt.want)
			}
		})
	}
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestValueFormatBody(t *testing.T) {
	pt := New("test")
	pt.Small = 0.001

	tests := []struct {
		name        string
		value       *Value
		want        string
		wantNumeric bool
	}{
		{"number", NewNumberFormat(42.5, F(40, 1)), "42.5", true},
		{"text", NewText("hello"), "hello", false},
		{"variable name", NewVariable("age", ""), "age", false},
		{"string", NewString("abc"), "abc", false},
		{
			"small switches to scientific",
			&Value{Kind: ValueNumber, Number: &NumberData{X: 0.0004, Format: F(40, 2), HonorSmall: true}},
			"4.00E-04",
			true,
		},
		{
			"zero ignores small",
			&Value{Kind: ValueNumber, Number: &NumberData{X: 0, Format: F(40, 2), HonorSmall: true}},
			"0.00",
			true,
		},
		{
			"hex string",
			&Value{Kind: ValueString, String: &StringData{S: "AB", Hex: true}},
			"4142",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, numeric := tt.value.FormatBody(pt)
			if got != tt.want {
				t.Errorf("FormatBody() = %q, want %q", got, tt.want)
			}
			if numeric != tt.wantNumeric {
				t.Errorf("FormatBody() numeric = %v, want %v", numeric, tt.wantNumeric)
			}
		})
	}
}

func TestValueShowOverrides(t *testing.T) {
	num := func(show Show) *Value {
		return &Value{Kind: ValueNumber, Number: &NumberData{
			X: 1, Format: F(40, 0), ValueLabel: "Male", Show: show,
		}}
	}

	tests := []struct {
		name      string
		tableShow Show
		value     *Value
		want      string
	}{
		{"default shows value", ShowDefault, num(ShowDefault), "1"},
		{"table label override", ShowLabel, num(ShowDefault), "Male"},
		{"value overrides table", ShowValue, num(ShowLabel), "Male"},
		{"both", ShowDefault, num(ShowBoth), "1 Male"},
		{"no label always value", ShowLabel, NewNumberFormat(7, F(40, 0)), "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := New("test")
			pt.ShowValues = tt.tableShow
			got, _ := tt.value.FormatBody(pt)
			if got != tt.want {
				t.Errorf("FormatBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueFormatDecorations(t *testing.T) {
	pt := New("test")
	f0 := pt.AddFootnote(NewText("first"))
	f1 := pt.AddFootnote(NewText("second"))

	v := NewText("cell")
	v.AddSubscript("a")
	v.AddSubscript("b")
	v.AddFootnote(f1)
	v.AddFootnote(f0)
	v.AddFootnote(f1) // Duplicate, must be suppressed.

	got, _ := v.Format(pt)
	want := "cell_a,b[a][b]"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if len(v.Footnotes) != 2 || v.Footnotes[0] != 0 || v.Footnotes[1] != 1 {
		t.Errorf("footnote refs = %v, want sorted unique [0 1]", v.Footnotes)
	}
}

func TestNumericFootnoteMarkers(t *testing.T) {
	pt := New("test")
	pt.Look = NewLook()
	pt.Look.ShowNumericMarkers = true
	f := pt.AddFootnote(NewText("note"))

	got, _ := f.MarkerValue(pt).FormatBody(pt)
	if got != "1" {
		t.Errorf("numeric marker = %q, want %q", got, "1")
	}
}

func TestFormat26Adic(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "a"}, {2, "b"}, {26, "z"}, {27, "aa"}, {28, "ab"}, {52, "az"}, {53, "ba"}, {703, "aaa"},
	}
	for _, tt := range tests {
		if got := format26Adic(tt.n); got != tt.want {
			t.Errorf("format26Adic(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	if got := stripMarkup("<b>bold</b> and plain"); got != "bold and plain" {
		t.Errorf("stripMarkup() = %q", got)
	}
}
