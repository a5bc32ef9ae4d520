// Package render lays out flattened table grids onto devices and pages.
//
// # Overview
//
// This package contains the device-independent half of the output pipeline.
// Given a flattened grid, it decides where everything goes:
//
//   - Measurement and layout in abstract units (see [Unit])
//   - Column sizing between per-cell minimum and maximum widths
//   - Pagination along both axes (in [Pager])
//   - Driving whole output items through a device (in [FSM])
//
// Devices plug in through the [Ops] interface: they measure cell extents and
// draw cells and rule segments at coordinates this package computes. The
// [sink] subpackage provides the concrete devices (SVG, terminal, XLSX) and
// the drivers that feed them.
//
// # Pagination
//
// A [Pager] slices one table into page-sized chunks. It breaks at column and
// row boundaries where possible, splits oversized cells across pages, and
// repeats heading rows and columns on every page. [PageSetup] describes the
// physical page: paper size, margins, orientation, and running headings.
//
// # Sizing
//
// Cell measurement yields a minimum width (longest unbreakable word) and a
// maximum width (no wrapping at all). Column widths interpolate between the
// two to fit the device, then row heights follow from the chosen widths.
//
// [sink]: github.com/matzehuels/pivotpress/pkg/render/sink
package render
