package pivot

import "fmt"

// Color is a 24-bit RGB color with an alpha channel.
type Color struct {
	Alpha   uint8
	R, G, B uint8
}

// Predefined colors used throughout default styling.
var (
	ColorBlack = Color{255, 0, 0, 0}
	ColorWhite = Color{255, 255, 255, 255}
)

// Hex returns the color as a #rrggbb string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Equal reports whether two colors are identical including alpha.
func (c Color) Equal(o Color) bool {
	return c == o
}

// Stroke enumerates the line styles a border rule can take.
type Stroke int

const (
	StrokeNone Stroke = iota
	StrokeSolid
	StrokeDashed
	StrokeThick
	StrokeThin
	StrokeDouble

	StrokeCount = iota
)

// String returns the lowercase name of the stroke.
func (s Stroke) String() string {
	switch s {
	case StrokeNone:
		return "none"
	case StrokeSolid:
		return "solid"
	case StrokeDashed:
		return "dashed"
	case StrokeThick:
		return "thick"
	case StrokeThin:
		return "thin"
	case StrokeDouble:
		return "double"
	default:
		return "invalid"
	}
}

// CombineStrokes merges the stroke styles of two overlapping rules, as when a
// header region's edge coincides with a body rule. The heavier, more visible
// stroke wins.
func CombineStrokes(a, b Stroke) Stroke {
	if strokeRank(a) >= strokeRank(b) {
		return a
	}
	return b
}

func strokeRank(s Stroke) int {
	switch s {
	case StrokeNone:
		return 0
	case StrokeThin:
		return 1
	case StrokeDashed:
		return 2
	case StrokeSolid:
		return 3
	case StrokeThick:
		return 4
	case StrokeDouble:
		return 5
	default:
		return 0
	}
}

// HAlign is a horizontal cell alignment.
type HAlign int

const (
	HRight HAlign = iota
	HLeft
	HCenter
	// HMixed resolves at render time: numeric content aligns right, text left.
	HMixed
	HDecimal
)

// Interpret resolves HMixed against the content kind. The other alignments
// pass through unchanged.
func (a HAlign) Interpret(numeric bool) HAlign {
	if a == HMixed {
		if numeric {
			return HRight
		}
		return HLeft
	}
	return a
}

// VAlign is a vertical cell alignment.
type VAlign int

const (
	VCenter VAlign = iota
	VTop
	VBottom
)

// Axis2 identifies one of the two axes of a flattened grid.
// Horizontal is 0 and vertical is 1 so the constants can index arrays.
const (
	Horz = 0
	Vert = 1
)

// CellStyle holds the non-font presentation attributes of a cell.
type CellStyle struct {
	HAlign HAlign
	VAlign VAlign
	// DecimalOffset is the distance of the decimal point from the right edge
	// of the cell, in 1/96" units, for HDecimal alignment.
	DecimalOffset int
	DecimalChar   byte
	// Margin[axis][0] is the leading margin, Margin[axis][1] the trailing
	// one, in 1/96" units.
	Margin [2][2]int
}

// FontStyle holds the typographic attributes of a cell or area.
type FontStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	// Markup indicates the text carries inline markup to be interpreted by
	// the text layout collaborator rather than shown literally.
	Markup bool

	// Fg and Bg are indexed by the alternating data-row color index.
	Fg [2]Color
	Bg [2]Color

	Typeface string
	Size     int // Points.
}

// AreaStyle pairs the cell and font styles applied to one table area.
type AreaStyle struct {
	CellStyle CellStyle
	FontStyle FontStyle
}

// ValueStyle carries per-value style overrides applied on top of the area
// style when a value is rendered.
type ValueStyle struct {
	Font *FontStyle
	Cell *CellStyle
}

// BorderStyle is the stroke and color of a single border rule.
type BorderStyle struct {
	Stroke Stroke
	Color  Color
}

// Area identifies one of the styled regions of a composed table.
type Area int

const (
	AreaTitle Area = iota
	AreaCaption
	AreaFooter // Footnotes.
	AreaCorner // Top-left stub corner.
	AreaColumnLabels
	AreaRowLabels
	AreaData
	AreaLayers // Layer indication.

	AreaCount = iota
)

// String returns the lowercase name of the area.
func (a Area) String() string {
	switch a {
	case AreaTitle:
		return "title"
	case AreaCaption:
		return "caption"
	case AreaFooter:
		return "footer"
	case AreaCorner:
		return "corner"
	case AreaColumnLabels:
		return "column labels"
	case AreaRowLabels:
		return "row labels"
	case AreaData:
		return "data"
	case AreaLayers:
		return "layers"
	default:
		return "invalid"
	}
}

// Border identifies one of the distinct border positions a look can style.
type Border int

const (
	BorderTitle Border = iota

	// Outer frame.
	BorderOuterLeft
	BorderOuterTop
	BorderOuterRight
	BorderOuterBottom

	// Inner frame.
	BorderInnerLeft
	BorderInnerTop
	BorderInnerRight
	BorderInnerBottom

	// Data area.
	BorderDataLeft
	BorderDataTop

	// Rules between dimensions.
	BorderDimRowHorz
	BorderDimRowVert
	BorderDimColHorz
	BorderDimColVert

	// Rules between categories.
	BorderCatRowHorz
	BorderCatRowVert
	BorderCatColHorz
	BorderCatColVert

	BorderCount = iota
)

// String returns the canonical dotted name of the border position, as used in
// look files.
func (b Border) String() string {
	names := [...]string{
		"title",
		"outer.left", "outer.top", "outer.right", "outer.bottom",
		"inner.left", "inner.top", "inner.right", "inner.bottom",
		"data.left", "data.top",
		"dim-row.horz", "dim-row.vert", "dim-col.horz", "dim-col.vert",
		"cat-row.horz", "cat-row.vert", "cat-col.horz", "cat-col.vert",
	}
	if b < 0 || int(b) >= len(names) {
		return "invalid"
	}
	return names[b]
}

// Fallback returns the border whose style substitutes for b when b has no
// style of its own. Dimension rules fall back to the corresponding category
// rules; everything else stands alone.
func (b Border) Fallback() Border {
	switch b {
	case BorderDimRowHorz:
		return BorderCatRowHorz
	case BorderDimRowVert:
		return BorderCatRowVert
	case BorderDimColHorz:
		return BorderCatColHorz
	case BorderDimColVert:
		return BorderCatColVert
	default:
		return b
	}
}
