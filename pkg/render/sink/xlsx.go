package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/pivotpress/pkg/compose"
	"github.com/matzehuels/pivotpress/pkg/grid"
	"github.com/matzehuels/pivotpress/pkg/pivot"
)

// XLSXOption configures workbook rendering.
type XLSXOption func(*xlsxRenderer)

// WithSheetName sets the sheet the table is written to.
func WithSheetName(name string) XLSXOption {
	return func(r *xlsxRenderer) { r.sheet = name }
}

// WithXLSXLayer selects the layer to render, one presentation index per
// layer dimension.
func WithXLSXLayer(indexes []int) XLSXOption {
	return func(r *xlsxRenderer) { r.layerIndexes = indexes }
}

type xlsxRenderer struct {
	sheet        string
	layerIndexes []int
}

// RenderXLSX writes one layer of the table into a workbook: title, layer
// labels, the body with merged cells and borders, caption, and footnotes.
// It walks the composed grids directly rather than going through the
// measurement pipeline, since spreadsheets lay out their own cells.
func RenderXLSX(pt *pivot.Table, opts ...XLSXOption) (*excelize.File, error) {
	r := &xlsxRenderer{sheet: "Sheet1"}
	for _, opt := range opts {
		opt(r)
	}

	pt.AssignLabelDepths()
	out := compose.Build(pt, r.layerIndexes, false)
	defer out.Unref()

	f := excelize.NewFile()
	if r.sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", r.sheet); err != nil {
			return nil, fmt.Errorf("naming sheet: %w", err)
		}
	}

	row := 1
	for _, g := range []*grid.Grid{out.Title, out.Layers, out.Body, out.Caption, out.Footnotes} {
		if g == nil || g.N[pivot.Horz] == 0 || g.N[pivot.Vert] == 0 {
			continue
		}
		var err error
		row, err = r.writeGrid(f, pt, g, row)
		if err != nil {
			return nil, err
		}
		row++ // blank row between sections
	}
	return f, nil
}

func (r *xlsxRenderer) writeGrid(f *excelize.File, pt *pivot.Table, g *grid.Grid, startRow int) (int, error) {
	nx, ny := g.N[pivot.Horz], g.N[pivot.Vert]
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			c := g.GetCell(x, y)
			if c == nil || c.Rect[pivot.Horz][0] != x || c.Rect[pivot.Vert][0] != y {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(x+1, startRow+y)
			if err != nil {
				return 0, fmt.Errorf("cell %d,%d: %w", x, y, err)
			}

			if c.Joined() {
				end, err := excelize.CoordinatesToCellName(
					c.Rect[pivot.Horz][1], startRow+c.Rect[pivot.Vert][1]-1)
				if err != nil {
					return 0, fmt.Errorf("cell %d,%d: %w", x, y, err)
				}
				if err := f.MergeCell(r.sheet, cell, end); err != nil {
					return 0, fmt.Errorf("merging %s:%s: %w", cell, end, err)
				}
			}

			if err := r.writeValue(f, pt, c, cell); err != nil {
				return 0, err
			}

			styleID, err := f.NewStyle(r.cellStyle(g, c, x, y))
			if err != nil {
				return 0, fmt.Errorf("style for %s: %w", cell, err)
			}
			if err := f.SetCellStyle(r.sheet, cell, cell, styleID); err != nil {
				return 0, fmt.Errorf("styling %s: %w", cell, err)
			}
		}
	}
	return startRow + ny, nil
}

// writeValue stores plain numbers as numbers so spreadsheet arithmetic
// works on them, and everything else as formatted text.
func (r *xlsxRenderer) writeValue(f *excelize.File, pt *pivot.Table, c *grid.Cell, cell string) error {
	if c.Value == nil {
		return nil
	}
	s, numeric := c.Value.Format(pt)
	var v any = s
	if numeric && c.Value.Kind == pivot.ValueNumber {
		v = c.Value.Number.X
	}
	if err := f.SetCellValue(r.sheet, cell, v); err != nil {
		return fmt.Errorf("writing %s: %w", cell, err)
	}
	return nil
}

func (r *xlsxRenderer) cellStyle(g *grid.Grid, c *grid.Cell, x, y int) *excelize.Style {
	font, cell := g.AreaStyle(c)

	st := &excelize.Style{
		Font: &excelize.Font{
			Bold:      font.Bold,
			Italic:    font.Italic,
			Underline: underlineName(font.Underline),
			Family:    font.Typeface,
			Size:      float64(font.Size),
		},
		Alignment: &excelize.Alignment{
			Horizontal: xlsxHAlign(cell.HAlign),
			Vertical:   xlsxVAlign(cell.VAlign),
			WrapText:   true,
		},
	}
	if fg := font.Fg[0]; fg != pivot.ColorBlack && fg.Alpha > 0 {
		st.Font.Color = fg.Hex()
	}
	if bg := font.Bg[0]; bg != pivot.ColorWhite && bg.Alpha > 0 {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{bg.Hex()}}
	}

	// Border styles come from the rules around the cell's full rectangle.
	var borders []excelize.Border
	add := func(typ string, bs pivot.BorderStyle) {
		if style := xlsxBorder(bs.Stroke); style != 0 {
			borders = append(borders, excelize.Border{
				Type: typ, Style: style, Color: bs.Color.Hex(),
			})
		}
	}
	add("left", g.GetRule(pivot.Horz, c.Rect[pivot.Horz][0], y))
	add("right", g.GetRule(pivot.Horz, c.Rect[pivot.Horz][1], y))
	add("top", g.GetRule(pivot.Vert, x, c.Rect[pivot.Vert][0]))
	add("bottom", g.GetRule(pivot.Vert, x, c.Rect[pivot.Vert][1]))
	st.Border = borders
	return st
}

func underlineName(u bool) string {
	if u {
		return "single"
	}
	return ""
}

func xlsxHAlign(h pivot.HAlign) string {
	switch h {
	case pivot.HLeft:
		return "left"
	case pivot.HCenter:
		return "center"
	case pivot.HRight, pivot.HDecimal:
		return "right"
	default:
		return ""
	}
}

func xlsxVAlign(v pivot.VAlign) string {
	switch v {
	case pivot.VTop:
		return "top"
	case pivot.VBottom:
		return "bottom"
	default:
		return "center"
	}
}

// xlsxBorder maps a stroke to the spreadsheet border style index, 0 for
// none.
func xlsxBorder(s pivot.Stroke) int {
	switch s {
	case pivot.StrokeNone:
		return 0
	case pivot.StrokeSolid:
		return 1
	case pivot.StrokeDashed:
		return 3
	case pivot.StrokeThick:
		return 5
	case pivot.StrokeThin:
		return 7
	case pivot.StrokeDouble:
		return 6
	default:
		return 1
	}
}
