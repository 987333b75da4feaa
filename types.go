package pagediff

import (
	"github.com/tsawler/pagediff/compare"
	"github.com/tsawler/pagediff/model"
	"github.com/tsawler/pagediff/raster"
)

// Re-exports so typical callers only import the root package.
type (
	// Summary is the outcome of a whole comparison run.
	Summary = model.Summary
	// PageResult is the outcome for one aligned page pair.
	PageResult = model.PageResult
	// Region is one highlighted difference region.
	Region = model.Region
	// Rect is a half-open pixel rectangle.
	Rect = model.Rect
	// Zone is a validated exclusion rectangle.
	Zone = model.Zone
	// Warning reports a non-fatal problem from a comparison run.
	Warning = compare.Warning
	// Document is an open, renderable document.
	Document = raster.Document
	// Rasterizer opens raw document bytes as a Document.
	Rasterizer = raster.Rasterizer
)

// IdenticalCutoff is the deviation percentage at or below which a page
// pair is reported as identical.
const IdenticalCutoff = model.IdenticalCutoff

// NewZone validates and builds an exclusion zone from pixel
// coordinates.
func NewZone(x1, y1, x2, y2 int) (Zone, error) {
	return model.NewZone(x1, y1, x2, y2)
}

// FormatWarnings renders warnings one per line for display.
func FormatWarnings(warnings []Warning) string {
	return compare.FormatWarnings(warnings)
}
