package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// ChartSize selects how much of a page a chart may occupy when printing.
type ChartSize int

const (
	ChartAsIs ChartSize = iota
	ChartFullHeight
	ChartHalfHeight
	ChartQuarterHeight
)

// Paragraph is one line of a page heading. Its text may contain variable
// references in the form "&[Name]"; see SubstituteHeadingVars.
type Paragraph struct {
	Text   string
	HAlign pivot.HAlign
}

// Heading is a page header or footer: a stack of paragraphs.
type Heading struct {
	Paragraphs []Paragraph
}

// PageSetup describes the paper that paginated output is printed on.
// Lengths are in points.
type PageSetup struct {
	InitialPageNumber int

	// Paper is the paper size per axis and Margins the blank border
	// around the printable region, low edge then high edge per axis.
	Paper   [2]float64
	Margins [2][2]float64

	// ObjectSpacing is the vertical gap between output items.
	ObjectSpacing float64

	ChartSize ChartSize

	// Headings[0] is the page header, Headings[1] the footer.
	Headings [2]Heading
}

// DefaultPageSetup returns US letter paper with half-inch margins.
func DefaultPageSetup() *PageSetup {
	return &PageSetup{
		InitialPageNumber: 1,
		Paper:             [2]float64{8.5 * 72, 11 * 72},
		Margins:           [2][2]float64{{36, 36}, {36, 36}},
		ObjectSpacing:     12,
	}
}

// PrintableSize returns the usable page size per axis, in layout units.
func (ps *PageSetup) PrintableSize() [2]int {
	var size [2]int
	for a := 0; a < 2; a++ {
		size[a] = PtUnits(ps.Paper[a] - ps.Margins[a][0] - ps.Margins[a][1])
	}
	return size
}

// SubstituteHeadingVars expands "&[Name]" references in a heading paragraph.
// Values come from vars, except that "&[Page]" falls back to the page
// number and "&[Date]" to the current date when not overridden. Unknown
// names expand to nothing; an unterminated reference is kept verbatim.
func SubstituteHeadingVars(src string, vars map[string]string, pageNumber int) string {
	var dst strings.Builder
	dst.Grow(len(src))
	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], "&[") {
			if end := strings.IndexByte(src[i+2:], ']'); end >= 0 {
				name := src[i+2 : i+2+end]
				if value, ok := vars[name]; ok {
					dst.WriteString(value)
				} else if name == "Page" {
					dst.WriteString(strconv.Itoa(pageNumber))
				} else if name == "Date" {
					dst.WriteString(time.Now().Format("2006-01-02"))
				}
				i += end + 3
				continue
			}
		}
		dst.WriteByte(src[i])
		i++
	}
	return dst.String()
}

// pageSetupFile mirrors the TOML representation of a page setup. Optional
// keys are pointers so absent keys keep their defaults.
type pageSetupFile struct {
	InitialPageNumber *int       `toml:"initial_page_number"`
	Paper             *[2]string `toml:"paper"`
	Margins           *[4]string `toml:"margins"`
	ObjectSpacing     *string    `toml:"object_spacing"`
	ChartSize         *string    `toml:"chart_size"`
	Header            []headingFile
	Footer            []headingFile
}

type headingFile struct {
	Text   string `toml:"text"`
	HAlign string `toml:"halign"`
}

// LoadPageSetupFile reads a page setup from a TOML file, starting from the
// defaults for any absent key.
func LoadPageSetupFile(path string) (*PageSetup, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page setup %s: %w", path, err)
	}

	var f pageSetupFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("reading page setup %s: %w", path, err)
	}

	ps := DefaultPageSetup()
	if err := f.apply(ps); err != nil {
		return nil, fmt.Errorf("reading page setup %s: %w", path, err)
	}
	return ps, nil
}

func (f *pageSetupFile) apply(ps *PageSetup) error {
	if f.InitialPageNumber != nil {
		ps.InitialPageNumber = *f.InitialPageNumber
	}
	if f.Paper != nil {
		for a := 0; a < 2; a++ {
			length, err := ParseLength(f.Paper[a])
			if err != nil {
				return err
			}
			ps.Paper[a] = length
		}
	}
	if f.Margins != nil {
		// Order: left, right, top, bottom.
		for i, s := range f.Margins {
			length, err := ParseLength(s)
			if err != nil {
				return err
			}
			ps.Margins[i/2][i%2] = length
		}
	}
	if f.ObjectSpacing != nil {
		length, err := ParseLength(*f.ObjectSpacing)
		if err != nil {
			return err
		}
		ps.ObjectSpacing = length
	}
	if f.ChartSize != nil {
		switch *f.ChartSize {
		case "as-is":
			ps.ChartSize = ChartAsIs
		case "full-height":
			ps.ChartSize = ChartFullHeight
		case "half-height":
			ps.ChartSize = ChartHalfHeight
		case "quarter-height":
			ps.ChartSize = ChartQuarterHeight
		default:
			return fmt.Errorf("unknown chart size %q", *f.ChartSize)
		}
	}
	for i, src := range [2][]headingFile{f.Header, f.Footer} {
		for _, h := range src {
			halign := pivot.HCenter
			if h.HAlign != "" {
				var err error
				halign, err = pivot.ParseHAlign(h.HAlign)
				if err != nil {
					return err
				}
			}
			ps.Headings[i].Paragraphs = append(ps.Headings[i].Paragraphs,
				Paragraph{Text: h.Text, HAlign: halign})
		}
	}
	return nil
}

// ParseLength parses a length with an optional unit suffix: "pt" (the
// default), "in", "cm", or "mm". The result is in points.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	factor := 1.0
	for _, u := range []struct {
		suffix string
		factor float64
	}{
		{"pt", 1},
		{"in", 72},
		{"cm", 72 / 2.54},
		{"mm", 72 / 25.4},
	} {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			factor = u.factor
			break
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad length %q", s)
	}
	return n * factor, nil
}
