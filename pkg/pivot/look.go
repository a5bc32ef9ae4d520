package pivot

// Look bundles the style configuration applied to a pivot table: per-area
// cell and font styles, per-border strokes, heading width ranges, and
// display toggles.
//
// Looks are reference counted and copy-on-write like tables: mutating a
// shared look is a programming error. Use [Look.Unshare] before changing a
// look obtained from elsewhere.
type Look struct {
	refCnt int

	Name string

	OmitEmpty         bool
	RowLabelsInCorner bool
	// Heading width ranges constrain column widths derived from heading
	// labels, in 1/96" units: RowHeadingWidthRange applies to row label and
	// corner columns, ColHeadingWidthRange to columns under column labels.
	RowHeadingWidthRange [2]int
	ColHeadingWidthRange [2]int

	ShowNumericMarkers         bool
	FootnoteMarkerSuperscripts bool

	Areas   [AreaCount]AreaStyle
	Borders [BorderCount]BorderStyle

	// Print settings.
	PrintAllLayers     bool
	PaginateLayers     bool
	ShrinkToFit        [2]bool
	TopContinuation    bool
	BottomContinuation bool
	Continuation       string
	NOrphanLines       int
}

func defaultArea(bold bool, h HAlign, v VAlign, l, r, top, bottom int) AreaStyle {
	return AreaStyle{
		CellStyle: CellStyle{
			HAlign: h,
			VAlign: v,
			Margin: [2][2]int{{l, r}, {top, bottom}},
		},
		FontStyle: FontStyle{
			Bold:     bold,
			Fg:       [2]Color{ColorBlack, ColorBlack},
			Bg:       [2]Color{ColorWhite, ColorWhite},
			Typeface: "Sans Serif",
			Size:     9,
		},
	}
}

// DefaultLook returns the process-wide default look. The returned look is
// shared; Unshare it before modification.
func DefaultLook() *Look {
	return builtinDefaultLook
}

var builtinDefaultLook = newBuiltinDefaultLook()

// NewLook returns a freshly allocated look with the builtin defaults,
// privately owned by the caller.
func NewLook() *Look {
	l := newBuiltinDefaultLook()
	return l
}

func newBuiltinDefaultLook() *Look {
	l := &Look{
		refCnt: 1,

		OmitEmpty:            true,
		RowLabelsInCorner:    true,
		ColHeadingWidthRange: [2]int{36, 72},
		RowHeadingWidthRange: [2]int{36, 120},
	}

	l.Areas[AreaTitle] = defaultArea(true, HCenter, VCenter, 8, 11, 1, 8)
	l.Areas[AreaCaption] = defaultArea(false, HLeft, VTop, 8, 11, 1, 1)
	l.Areas[AreaFooter] = defaultArea(false, HLeft, VTop, 11, 8, 2, 3)
	l.Areas[AreaCorner] = defaultArea(false, HLeft, VBottom, 8, 11, 1, 1)
	l.Areas[AreaColumnLabels] = defaultArea(false, HCenter, VBottom, 8, 11, 1, 3)
	l.Areas[AreaRowLabels] = defaultArea(false, HLeft, VTop, 8, 11, 1, 3)
	l.Areas[AreaData] = defaultArea(false, HMixed, VTop, 8, 11, 1, 1)
	l.Areas[AreaLayers] = defaultArea(false, HLeft, VBottom, 8, 11, 1, 3)

	for b := Border(0); b < BorderCount; b++ {
		l.Borders[b] = BorderStyle{Stroke: StrokeNone, Color: ColorBlack}
	}
	for _, b := range []Border{
		BorderInnerLeft, BorderInnerTop, BorderInnerRight, BorderInnerBottom,
		BorderDataLeft, BorderDataTop,
	} {
		l.Borders[b].Stroke = StrokeThick
	}
	for _, b := range []Border{
		BorderDimRowHorz, BorderDimColHorz, BorderDimColVert, BorderCatColHorz, BorderCatColVert,
	} {
		l.Borders[b].Stroke = StrokeSolid
	}
	return l
}

// Ref acquires a new reference to the look.
func (l *Look) Ref() *Look {
	l.refCnt++
	return l
}

// Unref releases one reference.
func (l *Look) Unref() {
	if l == nil {
		return
	}
	l.refCnt--
	if l.refCnt < 0 {
		panic("pivot: look reference count underflow")
	}
}

// Shared reports whether the look has more than one owner.
func (l *Look) Shared() bool { return l.refCnt > 1 }

func (l *Look) assertMutable() {
	if l.Shared() {
		panic("pivot: mutation of a shared look; Unshare it first")
	}
}

// Unshare returns a look safe to mutate, copying it when shared.
func (l *Look) Unshare() *Look {
	if !l.Shared() {
		return l
	}
	l.Unref()
	n := *l
	n.refCnt = 1
	return &n
}

// ResolveBorder returns the effective style of a border position: the
// border's own style if set, the style of its fallback position otherwise.
// When printing with grid lines shown, borders that would otherwise vanish
// render as dashed black so the table structure stays visible.
func (l *Look) ResolveBorder(b Border, showGridLines bool) BorderStyle {
	s := l.Borders[b]
	if s.Stroke == StrokeNone {
		s = l.Borders[b.Fallback()]
	}
	if s.Stroke == StrokeNone && showGridLines {
		s = BorderStyle{Stroke: StrokeDashed, Color: ColorBlack}
	}
	return s
}
