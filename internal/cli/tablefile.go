package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// A table definition is a TOML document describing a pivot table: metadata,
// dimensions with (optionally nested) categories, cell values, and
// footnotes. Example:
//
//	title = "Sample Statistics"
//
//	[[dimension]]
//	axis = "row"
//	name = "Variable"
//	leaves = ["Age", "Height"]
//
//	[[dimension]]
//	axis = "column"
//	name = "Statistic"
//	leaves = ["Mean", "Std. Deviation"]
//
//	[[cell]]
//	indexes = [0, 0]
//	number = 28.5
//	format = "F8.2"

type tableFile struct {
	Title     string `toml:"title"`
	Subtype   string `toml:"subtype"`
	Caption   string `toml:"caption"`
	Corner    string `toml:"corner"`
	Notes     string `toml:"notes"`
	ShowTitle *bool  `toml:"show_title"`

	Dimensions []dimensionFile `toml:"dimension"`
	Cells      []cellFile      `toml:"cell"`
	Footnotes  []footnoteFile  `toml:"footnote"`
}

type dimensionFile struct {
	Axis          string      `toml:"axis"`
	Name          string      `toml:"name"`
	HideAllLabels bool        `toml:"hide_all_labels"`
	Leaves        []string    `toml:"leaves"`
	Groups        []groupFile `toml:"group"`
}

// groupFile is a nested category group. Leaves come before subgroups within
// one group.
type groupFile struct {
	Name   string      `toml:"name"`
	Leaves []string    `toml:"leaves"`
	Groups []groupFile `toml:"group"`
}

type cellFile struct {
	Indexes   []int    `toml:"indexes"`
	Number    *float64 `toml:"number"`
	Text      *string  `toml:"text"`
	Format    string   `toml:"format"`
	Footnotes []int    `toml:"footnotes"`
}

type footnoteFile struct {
	Content string `toml:"content"`
	Marker  string `toml:"marker"`
}

// loadTableFile reads a table definition from a TOML file.
func loadTableFile(path string) (*pivot.Table, error) {
	var tf tableFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	pt, err := tf.build()
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", path, err)
	}
	return pt, nil
}

func (tf *tableFile) build() (*pivot.Table, error) {
	if len(tf.Dimensions) == 0 {
		return nil, fmt.Errorf("table needs at least one dimension")
	}

	pt := pivot.New(tf.Title)
	if tf.ShowTitle != nil {
		pt.ShowTitle = *tf.ShowTitle
	}
	if tf.Subtype != "" {
		pt.Subtype = pivot.NewText(tf.Subtype)
	}
	if tf.Caption != "" {
		pt.Caption = pivot.NewText(tf.Caption)
	}
	if tf.Corner != "" {
		pt.CornerText = pivot.NewText(tf.Corner)
	}
	pt.Notes = tf.Notes

	for _, df := range tf.Dimensions {
		axis, err := parseAxis(df.Axis)
		if err != nil {
			return nil, fmt.Errorf("dimension %q: %w", df.Name, err)
		}
		root := pivot.NewGroup(pivot.NewText(df.Name))
		addCategories(root, df.Leaves, df.Groups)
		d := pivot.NewDimension(pt, axis, root)
		d.HideAllLabels = df.HideAllLabels
		if d.NLeaves() == 0 {
			return nil, fmt.Errorf("dimension %q has no leaves", df.Name)
		}
	}

	for _, ff := range tf.Footnotes {
		f := pt.AddFootnote(pivot.NewText(ff.Content))
		if ff.Marker != "" {
			f.Marker = pivot.NewText(ff.Marker)
		}
	}

	for i, cf := range tf.Cells {
		v, err := cf.value()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		for _, fi := range cf.Footnotes {
			if fi < 0 || fi >= len(pt.Footnotes) {
				return nil, fmt.Errorf("cell %d: footnote %d does not exist", i, fi)
			}
			v.AddFootnote(pt.Footnotes[fi])
		}
		if len(cf.Indexes) != len(pt.Dimensions) {
			return nil, fmt.Errorf("cell %d: got %d indexes, table has %d dimensions",
				i, len(cf.Indexes), len(pt.Dimensions))
		}
		pt.Put(cf.Indexes, v)
	}

	pt.AssignLabelDepths()
	return pt, nil
}

func addCategories(parent *pivot.Category, leaves []string, groups []groupFile) {
	for _, name := range leaves {
		parent.Add(pivot.NewLeaf(pivot.NewText(name)))
	}
	for _, gf := range groups {
		sub := pivot.NewGroup(pivot.NewText(gf.Name))
		addCategories(sub, gf.Leaves, gf.Groups)
		parent.Add(sub)
	}
}

func (cf *cellFile) value() (*pivot.Value, error) {
	switch {
	case cf.Number != nil && cf.Text != nil:
		return nil, fmt.Errorf("both number and text set")
	case cf.Number != nil:
		if cf.Format == "" {
			return pivot.NewNumber(*cf.Number), nil
		}
		f, err := parseFormat(cf.Format)
		if err != nil {
			return nil, err
		}
		return pivot.NewNumberFormat(*cf.Number, f), nil
	case cf.Text != nil:
		return pivot.NewText(*cf.Text), nil
	default:
		return nil, fmt.Errorf("neither number nor text set")
	}
}

func parseAxis(name string) (pivot.AxisType, error) {
	switch name {
	case "row":
		return pivot.AxisRow, nil
	case "column":
		return pivot.AxisColumn, nil
	case "layer":
		return pivot.AxisLayer, nil
	}
	return 0, fmt.Errorf("unknown axis %q", name)
}

// parseFormat parses a format spec like "F8.2", "E10.3", or "PCT5.1". The
// fraction digits default to 0.
func parseFormat(s string) (pivot.Format, error) {
	body := strings.ToUpper(s)
	ctor := pivot.F
	switch {
	case strings.HasPrefix(body, "PCT"):
		ctor, body = pivot.Pct, body[3:]
	case strings.HasPrefix(body, "E"):
		ctor, body = pivot.E, body[1:]
	case strings.HasPrefix(body, "F"):
		body = body[1:]
	default:
		return pivot.Format{}, fmt.Errorf("unknown format %q", s)
	}

	ws, ds, hasD := strings.Cut(body, ".")
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return pivot.Format{}, fmt.Errorf("bad format width in %q", s)
	}
	d := 0
	if hasD {
		if d, err = strconv.Atoi(ds); err != nil || d < 0 {
			return pivot.Format{}, fmt.Errorf("bad format decimals in %q", s)
		}
	}
	return ctor(w, d), nil
}
