package pivot

import "testing"

func TestFormatTemplate(t *testing.T) {
	arg := func(texts ...string) []*Value {
		vs := make([]*Value, len(texts))
		for i, s := range texts {
			vs[i] = NewText(s)
		}
		return vs
	}

	tests := []struct {
		name string
		tmpl string
		args [][]*Value
		want string
	}{
		{"literal", "plain text", nil, "plain text"},
		{"escape newline", `line\nbreak`, nil, "line\nbreak"},
		{"escape caret", `not\^1 a ref`, nil, "not^1 a ref"},
		{"substitution", "value: ^1", [][]*Value{arg("X")}, "value: X"},
		{"two substitutions", "^2 then ^1", [][]*Value{arg("A"), arg("B")}, "B then A"},
		{"out of range dropped", "before ^9 after", [][]*Value{arg("X")}, "before  after"},
		{"zero index dropped", "a^0b", [][]*Value{arg("X")}, "ab"},
		{
			"repeated group",
			"[%1:, ^1:]1",
			[][]*Value{arg("a", "b", "c")},
			"a, b, c",
		},
		{
			"repeated group single value",
			"[%1:, ^1:]1",
			[][]*Value{arg("only")},
			"only",
		},
		{
			"empty first template defers to second",
			"[:<^1>:]1",
			[][]*Value{arg("x", "y")},
			"<x><y>",
		},
		{
			"bracket with missing argument",
			"x[%1:, ^1:]5y",
			[][]*Value{arg("a")},
			"xy",
		},
		{"empty template", "", [][]*Value{arg("a")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewTemplate(tt.tmpl, tt.args)
			got, _ := v.FormatBody(nil)
			if got != tt.want {
				t.Errorf("template %q = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestExtractInnerTemplate(t *testing.T) {
	tests := []struct {
		in       string
		wantRest string
	}{
		{"a:b", "b"},
		{`a\:b:c`, "c"},
		{"no colon", ""},
	}
	for _, tt := range tests {
		inner, rest := extractInnerTemplate(tt.in)
		if inner != tt.in {
			t.Errorf("extractInnerTemplate(%q) inner = %q, want the input itself", tt.in, inner)
		}
		if rest != tt.wantRest {
			t.Errorf("extractInnerTemplate(%q) rest = %q, want %q", tt.in, rest, tt.wantRest)
		}
	}
}
