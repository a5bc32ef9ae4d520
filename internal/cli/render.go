package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pivotpress/pkg/output"
	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render"
	"github.com/matzehuels/pivotpress/pkg/render/sink"
)

const defaultPNGScale = 2.0 // 2x resolution for crisp raster output

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple outputs)
	formats   []string // output formats: "svg", "pdf", "png", "xlsx", "txt"
	look      string   // look file overriding the table's default look
	pageSetup string   // page setup file; triggers paginated rendering
	layer     string   // comma-separated layer indexes
	scale     float64  // raster scale factor for PNG output
	plain     bool     // disable styling in terminal output
}

// newRenderCmd creates the render command for generating output documents
// from a TOML table definition.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a table definition to SVG, PDF, PNG, XLSX, or text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, xlsx, txt (comma-separated)")
	cmd.Flags().StringVar(&opts.look, "look", "", "look file overriding the table's look")
	cmd.Flags().StringVar(&opts.pageSetup, "page-setup", "", "page setup file; renders one SVG per page")
	cmd.Flags().StringVar(&opts.layer, "layer", "", "layer to render, comma-separated presentation indexes")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable styling in terminal output")

	return cmd
}

var knownFormats = []string{"svg", "pdf", "png", "xlsx", "txt"}

func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		ok := false
		for _, k := range knownFormats {
			if f == k {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("unknown format %q (known: %s)", f, strings.Join(knownFormats, ", "))
		}
	}
	return nil
}

func runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	pt, err := loadTableFile(input)
	if err != nil {
		return err
	}
	if opts.look != "" {
		look, err := pivot.LoadLookFile(opts.look)
		if err != nil {
			return err
		}
		pt.SetLook(look)
	}
	if opts.layer != "" {
		indexes, err := parseLayer(opts.layer)
		if err != nil {
			return err
		}
		pt.SetCurrentLayer(indexes)
	}
	logger.Debug("loaded table", "dimensions", len(pt.Dimensions), "cells", pt.NCells())

	if opts.pageSetup != "" {
		if err := renderPaged(pt, input, opts); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Rendered %s paginated", input))
		return nil
	}

	base := basePath(opts.output, input)
	for _, format := range opts.formats {
		path := outputPath(opts.output, base, format, len(opts.formats) > 1)
		if err := renderSingle(pt, format, path, opts); err != nil {
			return err
		}
		if path != "" {
			logger.Info("wrote output", "path", path, "format", format)
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", input))
	return nil
}

// renderSingle renders one format. A terminal render with no explicit
// output path goes to stdout.
func renderSingle(pt *pivot.Table, format, path string, opts *renderOpts) error {
	switch format {
	case "txt":
		termOpts := []sink.TermOption{}
		if opts.plain {
			termOpts = append(termOpts, sink.WithPlain())
		}
		text := sink.RenderTerm(pt, termOpts...)
		if opts.output == "" {
			fmt.Println(text)
			return nil
		}
		return os.WriteFile(path, []byte(text+"\n"), 0o644)

	case "xlsx":
		f, err := sink.RenderXLSX(pt)
		if err != nil {
			return err
		}
		defer f.Close()
		return f.SaveAs(path)

	default:
		item := output.NewTable(pt)
		svgOpts := []sink.SVGOption{sink.WithTable(pt)}
		var data []byte
		var err error
		switch format {
		case "svg":
			data, err = sink.RenderSVG(item, svgOpts...)
		case "pdf":
			data, err = sink.RenderPDF(item, svgOpts...)
		case "png":
			data, err = sink.RenderPNG(item, opts.scale, svgOpts...)
		}
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
}

// renderPaged renders the table against a page setup, one SVG per page.
func renderPaged(pt *pivot.Table, input string, opts *renderOpts) error {
	ps, err := render.LoadPageSetupFile(opts.pageSetup)
	if err != nil {
		return err
	}

	vars := map[string]string{}
	if pt.Title != nil {
		vars["Title"], _ = pt.Title.Format(pt)
	}

	pages, err := sink.RenderPagedSVG([]*output.Item{output.NewTable(pt)}, ps, vars,
		sink.WithTable(pt))
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	for i, page := range pages {
		path := fmt.Sprintf("%s-page%d.svg", base, i+1)
		if err := os.WriteFile(path, page, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// basePath determines the output base path: the explicit output with its
// extension stripped, or the input filename.
func basePath(outputFlag, input string) string {
	if outputFlag != "" {
		return strings.TrimSuffix(outputFlag, filepath.Ext(outputFlag))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath picks the file for one format. With a single format an
// explicit --output wins verbatim; multiple formats always derive
// per-format names from the base.
func outputPath(outputFlag, base, format string, multiple bool) string {
	if format == "txt" && outputFlag == "" {
		return "" // stdout
	}
	if outputFlag != "" && !multiple {
		return outputFlag
	}
	return base + "." + format
}

func parseLayer(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	indexes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad layer index %q", p)
		}
		indexes = append(indexes, n)
	}
	return indexes, nil
}
