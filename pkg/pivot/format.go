package pivot

import (
	"math"
	"strconv"
	"strings"
)

// FormatType enumerates the numeric output formats the formatter understands.
type FormatType int

const (
	// FmtF is standard fixed-point notation, e.g. 1234.57.
	FmtF FormatType = iota
	// FmtE is scientific notation, e.g. 1.23E+003.
	FmtE
	// FmtPct is fixed-point notation followed by a percent sign.
	FmtPct
)

// Format is a numeric output format specification: a format type, a total
// field width, and a number of decimal places.
type Format struct {
	Type FormatType
	W    int // Field width in characters.
	D    int // Decimal places.
}

// F returns a fixed-point format with width w and d decimals.
func F(w, d int) Format { return Format{Type: FmtF, W: w, D: d} }

// E returns a scientific-notation format with width w and d decimals.
func E(w, d int) Format { return Format{Type: FmtE, W: w, D: d} }

// Pct returns a percent format with width w and d decimals.
func Pct(w, d int) Format { return Format{Type: FmtPct, W: w, D: d} }

// Apply renders x according to the format. The width acts as a capacity, not
// a padding requirement: output is never space-padded, but a fixed-point
// result too wide for the field falls back to scientific notation.
func (f Format) Apply(x float64) string {
	if math.IsNaN(x) {
		return "."
	}
	switch f.Type {
	case FmtE:
		return formatScientific(x, f.D)
	case FmtPct:
		return formatFixed(x, f.W-1, f.D) + "%"
	default:
		return formatFixed(x, f.W, f.D)
	}
}

func formatFixed(x float64, w, d int) string {
	s := strconv.FormatFloat(x, 'f', d, 64)
	if w > 0 && len(s) > w {
		return formatScientific(x, maxInt(d, 1))
	}
	return s
}

func formatScientific(x float64, d int) string {
	s := strconv.FormatFloat(x, 'E', maxInt(d, 1), 64)
	// Normalize the exponent to at least two digits, e.g. 1.0E+5 -> 1.0E+05.
	if i := strings.IndexByte(s, 'E'); i >= 0 && len(s)-i == 3 {
		s = s[:i+2] + "0" + s[i+2:]
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ResultClass names a default numeric format for a family of statistics.
// Categories may reference a class by name; cells under such a category
// inherit the class format when they carry no explicit format of their own.
type ResultClass string

const (
	ClassOther        ResultClass = "RC_OTHER"
	ClassInteger      ResultClass = "RC_INTEGER"
	ClassCount        ResultClass = "RC_COUNT"
	ClassPercent      ResultClass = "RC_PERCENT"
	ClassSignificance ResultClass = "RC_SIGNIFICANCE"
	ClassResidual     ResultClass = "RC_RESIDUAL"
	ClassCorrelation  ResultClass = "RC_CORRELATION"
)

var classFormats = map[ResultClass]Format{
	ClassInteger:      F(40, 0),
	ClassCount:        F(40, 0),
	ClassPercent:      Pct(40, 1),
	ClassSignificance: F(40, 3),
	ClassResidual:     F(40, 2),
	ClassCorrelation:  F(40, 3),
}

// ClassFormat looks up the format for a result class. The second return is
// false for ClassOther and for unknown class names: those defer to the
// table's default format. Unknown names are deliberately not an error.
func ClassFormat(class ResultClass) (Format, bool) {
	f, ok := classFormats[class]
	return f, ok
}

// ClassHonorsSmall reports whether values formatted under the class switch to
// scientific notation below the table's small-number threshold.
func ClassHonorsSmall(class ResultClass) bool {
	return class == ClassOther || class == ClassCorrelation
}

// Show is the three-way policy for displaying a value that has both a raw
// form and a label.
type Show int

const (
	// ShowDefault defers to the next level of the override chain.
	ShowDefault Show = iota
	ShowValue
	ShowLabel
	ShowBoth
)

// interpretShow resolves the value/label display policy through the
// three-level override chain: per-value, then per-table, then the global
// default. A value with no label always shows its raw form.
func interpretShow(global, table, value Show, hasLabel bool) Show {
	if !hasLabel {
		return ShowValue
	}
	if value != ShowDefault {
		return value
	}
	if table != ShowDefault {
		return table
	}
	if global != ShowDefault {
		return global
	}
	return ShowValue
}
