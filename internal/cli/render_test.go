package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !reflect.DeepEqual(got, []string{"svg"}) {
		t.Errorf("default formats = %v", got)
	}
	if got := parseFormats("png,txt"); !reflect.DeepEqual(got, []string{"png", "txt"}) {
		t.Errorf("parseFormats(png,txt) = %v", got)
	}
	if err := validateFormats([]string{"svg", "xlsx"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validateFormats([]string{"docx"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name       string
		outputFlag string
		input      string
		format     string
		multiple   bool
		want       string
	}{
		{name: "single explicit", outputFlag: "out.svg", input: "t.toml", format: "svg", want: "out.svg"},
		{name: "derived from input", input: "stats.toml", format: "pdf", want: "stats.pdf"},
		{name: "multiple ignores extension", outputFlag: "out.svg", input: "t.toml", format: "png", multiple: true, want: "out.png"},
		{name: "txt to stdout", input: "t.toml", format: "txt", want: ""},
		{name: "txt with output", outputFlag: "table.txt", input: "t.toml", format: "txt", want: "table.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := basePath(tt.outputFlag, tt.input)
			if got := outputPath(tt.outputFlag, base, tt.format, tt.multiple); got != tt.want {
				t.Errorf("outputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLayer(t *testing.T) {
	got, err := parseLayer("0, 2,1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{0, 2, 1}) {
		t.Errorf("parseLayer = %v", got)
	}
	if _, err := parseLayer("0,x"); err == nil {
		t.Error("expected error for non-numeric index")
	}
}
