package render

// Layout coordinates are integers in abstract units. A point maps to Unit
// units, so sub-point line widths and text metrics stay exact in integer
// arithmetic.
const (
	// Unit is the number of layout units per typographic point.
	Unit = 1000

	// LineWidth is the thickness of a single solid rule.
	LineWidth = Unit / 2

	// LineSpace is the gap between the two halves of a double rule.
	LineSpace = Unit
)

// PxUnits converts a length in 96 DPI pixels to layout units.
func PxUnits(px int) int {
	return px * Unit * 72 / 96
}

// PtUnits converts a length in points to layout units.
func PtUnits(pt float64) int {
	return int(pt * Unit)
}
