package pivot

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// The on-disk look format is a TOML document. Only the keys present in the
// file override the builtin defaults, so a minimal look file can restyle a
// single border. Example:
//
//	omit_empty = true
//
//	[area.title]
//	bold = true
//	size = 11
//
//	[border."inner.top"]
//	stroke = "double"
//	color = "#336699"

type lookFile struct {
	Name                       *string `toml:"name"`
	OmitEmpty                  *bool   `toml:"omit_empty"`
	RowLabelsInCorner          *bool   `toml:"row_labels_in_corner"`
	RowHeadingWidthRange       []int   `toml:"row_heading_width_range"`
	ColHeadingWidthRange       []int   `toml:"col_heading_width_range"`
	ShowNumericMarkers         *bool   `toml:"show_numeric_markers"`
	FootnoteMarkerSuperscripts *bool   `toml:"footnote_marker_superscripts"`
	PrintAllLayers             *bool   `toml:"print_all_layers"`
	PaginateLayers             *bool   `toml:"paginate_layers"`
	ShrinkToFitHorz            *bool   `toml:"shrink_to_fit_horz"`
	ShrinkToFitVert            *bool   `toml:"shrink_to_fit_vert"`
	Continuation               *string `toml:"continuation"`

	Areas   map[string]areaFile   `toml:"area"`
	Borders map[string]borderFile `toml:"border"`
}

type areaFile struct {
	Bold      *bool   `toml:"bold"`
	Italic    *bool   `toml:"italic"`
	Underline *bool   `toml:"underline"`
	Typeface  *string `toml:"typeface"`
	Size      *int    `toml:"size"`
	Fg        *string `toml:"fg"`
	Bg        *string `toml:"bg"`
	HAlign    *string `toml:"halign"`
	VAlign    *string `toml:"valign"`
	// Margin is left, right, top, bottom in 1/96" units.
	Margin []int `toml:"margin"`
}

type borderFile struct {
	Stroke string  `toml:"stroke"`
	Color  *string `toml:"color"`
}

// LoadLookFile reads a look from a TOML file, applying the builtin defaults
// for absent keys.
func LoadLookFile(path string) (*Look, error) {
	var lf lookFile
	if _, err := toml.DecodeFile(path, &lf); err != nil {
		return nil, fmt.Errorf("reading look %s: %w", path, err)
	}
	l := NewLook()
	if err := lf.apply(l); err != nil {
		return nil, fmt.Errorf("reading look %s: %w", path, err)
	}
	return l, nil
}

func (lf *lookFile) apply(l *Look) error {
	setString(&l.Name, lf.Name)
	setBool(&l.OmitEmpty, lf.OmitEmpty)
	setBool(&l.RowLabelsInCorner, lf.RowLabelsInCorner)
	setBool(&l.ShowNumericMarkers, lf.ShowNumericMarkers)
	setBool(&l.FootnoteMarkerSuperscripts, lf.FootnoteMarkerSuperscripts)
	setBool(&l.PrintAllLayers, lf.PrintAllLayers)
	setBool(&l.PaginateLayers, lf.PaginateLayers)
	setBool(&l.ShrinkToFit[Horz], lf.ShrinkToFitHorz)
	setBool(&l.ShrinkToFit[Vert], lf.ShrinkToFitVert)
	setString(&l.Continuation, lf.Continuation)

	if err := setRange(&l.RowHeadingWidthRange, lf.RowHeadingWidthRange, "row_heading_width_range"); err != nil {
		return err
	}
	if err := setRange(&l.ColHeadingWidthRange, lf.ColHeadingWidthRange, "col_heading_width_range"); err != nil {
		return err
	}

	for name, af := range lf.Areas {
		area, err := parseAreaName(name)
		if err != nil {
			return err
		}
		if err := af.apply(&l.Areas[area]); err != nil {
			return fmt.Errorf("area %q: %w", name, err)
		}
	}
	for name, bf := range lf.Borders {
		border, err := parseBorderName(name)
		if err != nil {
			return err
		}
		stroke, err := parseStroke(bf.Stroke)
		if err != nil {
			return fmt.Errorf("border %q: %w", name, err)
		}
		l.Borders[border].Stroke = stroke
		if bf.Color != nil {
			c, err := ParseColor(*bf.Color)
			if err != nil {
				return fmt.Errorf("border %q: %w", name, err)
			}
			l.Borders[border].Color = c
		}
	}
	return nil
}

func (af *areaFile) apply(s *AreaStyle) error {
	setBool(&s.FontStyle.Bold, af.Bold)
	setBool(&s.FontStyle.Italic, af.Italic)
	setBool(&s.FontStyle.Underline, af.Underline)
	setString(&s.FontStyle.Typeface, af.Typeface)
	if af.Size != nil {
		s.FontStyle.Size = *af.Size
	}
	if af.Fg != nil {
		c, err := ParseColor(*af.Fg)
		if err != nil {
			return err
		}
		s.FontStyle.Fg = [2]Color{c, c}
	}
	if af.Bg != nil {
		c, err := ParseColor(*af.Bg)
		if err != nil {
			return err
		}
		s.FontStyle.Bg = [2]Color{c, c}
	}
	if af.HAlign != nil {
		h, err := ParseHAlign(*af.HAlign)
		if err != nil {
			return err
		}
		s.CellStyle.HAlign = h
	}
	if af.VAlign != nil {
		v, err := parseVAlign(*af.VAlign)
		if err != nil {
			return err
		}
		s.CellStyle.VAlign = v
	}
	if af.Margin != nil {
		if len(af.Margin) != 4 {
			return fmt.Errorf("margin needs 4 entries, got %d", len(af.Margin))
		}
		s.CellStyle.Margin = [2][2]int{
			{af.Margin[0], af.Margin[1]},
			{af.Margin[2], af.Margin[3]},
		}
	}
	return nil
}

// SaveFile writes the look as a TOML document.
func (l *Look) SaveFile(path string) error {
	lf := lookFile{
		Name:                       &l.Name,
		OmitEmpty:                  &l.OmitEmpty,
		RowLabelsInCorner:          &l.RowLabelsInCorner,
		RowHeadingWidthRange:       l.RowHeadingWidthRange[:],
		ColHeadingWidthRange:       l.ColHeadingWidthRange[:],
		ShowNumericMarkers:         &l.ShowNumericMarkers,
		FootnoteMarkerSuperscripts: &l.FootnoteMarkerSuperscripts,
		PrintAllLayers:             &l.PrintAllLayers,
		PaginateLayers:             &l.PaginateLayers,
		ShrinkToFitHorz:            &l.ShrinkToFit[Horz],
		ShrinkToFitVert:            &l.ShrinkToFit[Vert],
		Continuation:               &l.Continuation,
		Areas:                      make(map[string]areaFile, AreaCount),
		Borders:                    make(map[string]borderFile, BorderCount),
	}
	for a := Area(0); a < AreaCount; a++ {
		s := l.Areas[a]
		fg, bg := s.FontStyle.Fg[0].Hex(), s.FontStyle.Bg[0].Hex()
		halign, valign := halignName(s.CellStyle.HAlign), valignName(s.CellStyle.VAlign)
		size, typeface := s.FontStyle.Size, s.FontStyle.Typeface
		bold, italic, underline := s.FontStyle.Bold, s.FontStyle.Italic, s.FontStyle.Underline
		lf.Areas[a.String()] = areaFile{
			Bold: &bold, Italic: &italic, Underline: &underline,
			Typeface: &typeface, Size: &size, Fg: &fg, Bg: &bg,
			HAlign: &halign, VAlign: &valign,
			Margin: []int{
				s.CellStyle.Margin[Horz][0], s.CellStyle.Margin[Horz][1],
				s.CellStyle.Margin[Vert][0], s.CellStyle.Margin[Vert][1],
			},
		}
	}
	for b := Border(0); b < BorderCount; b++ {
		color := l.Borders[b].Color.Hex()
		lf.Borders[b.String()] = borderFile{Stroke: l.Borders[b].Stroke.String(), Color: &color}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing look: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(&lf); err != nil {
		return fmt.Errorf("writing look %s: %w", path, err)
	}
	return nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setRange(dst *[2]int, src []int, key string) error {
	if src == nil {
		return nil
	}
	if len(src) != 2 {
		return fmt.Errorf("%s needs 2 entries, got %d", key, len(src))
	}
	dst[0], dst[1] = src[0], src[1]
	return nil
}

func parseAreaName(name string) (Area, error) {
	for a := Area(0); a < AreaCount; a++ {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown area %q", name)
}

func parseBorderName(name string) (Border, error) {
	for b := Border(0); b < BorderCount; b++ {
		if b.String() == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown border %q", name)
}

func parseStroke(name string) (Stroke, error) {
	for s := Stroke(0); s < StrokeCount; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown stroke %q", name)
}

// ParseHAlign parses a horizontal alignment name as used in look and page
// setup files.
func ParseHAlign(name string) (HAlign, error) {
	switch name {
	case "right":
		return HRight, nil
	case "left":
		return HLeft, nil
	case "center":
		return HCenter, nil
	case "mixed":
		return HMixed, nil
	case "decimal":
		return HDecimal, nil
	}
	return 0, fmt.Errorf("unknown halign %q", name)
}

func halignName(h HAlign) string {
	switch h {
	case HRight:
		return "right"
	case HLeft:
		return "left"
	case HCenter:
		return "center"
	case HMixed:
		return "mixed"
	case HDecimal:
		return "decimal"
	default:
		return "invalid"
	}
}

func parseVAlign(name string) (VAlign, error) {
	switch name {
	case "center":
		return VCenter, nil
	case "top":
		return VTop, nil
	case "bottom":
		return VBottom, nil
	}
	return 0, fmt.Errorf("unknown valign %q", name)
}

func valignName(v VAlign) string {
	switch v {
	case VCenter:
		return "center"
	case VTop:
		return "top"
	case VBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// ParseColor parses a #rgb or #rrggbb hex color, or one of a few well-known
// color names. Unparseable colors are an error; callers that prefer the
// forgiving fallback policy substitute black and warn.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "black":
		return ColorBlack, nil
	case "white":
		return ColorWhite, nil
	case "red":
		return Color{255, 255, 0, 0}, nil
	case "green":
		return Color{255, 0, 128, 0}, nil
	case "blue":
		return Color{255, 0, 0, 255}, nil
	case "gray", "grey":
		return Color{255, 128, 128, 128}, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 3:
			var r, g, b uint8
			if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err == nil {
				return Color{255, r * 17, g * 17, b * 17}, nil
			}
		case 6:
			var r, g, b uint8
			if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err == nil {
				return Color{255, r, g, b}, nil
			}
		}
	}
	return Color{}, fmt.Errorf("unparseable color %q", s)
}
