package pagediff

import (
	"context"
	"fmt"
	"os"

	"github.com/tsawler/pagediff/compare"
	"github.com/tsawler/pagediff/diff"
	"github.com/tsawler/pagediff/raster"
)

// Comparison is a fluent builder for one comparison run. Configuration
// methods return a new Comparison with the option applied, so a
// partially configured value can be reused as a template.
type Comparison struct {
	refPath, candPath string
	refData, candData []byte
	refDoc, candDoc   Document

	rasterizer Rasterizer
	options    compareOptions
}

// with returns a copy of c with cloned options, ready to mutate.
func (c *Comparison) with() *Comparison {
	clone := *c
	clone.options = c.options.clone()
	return &clone
}

// Zoom sets the rendering resolution in pixels per document unit.
// Default is 2.0.
func (c *Comparison) Zoom(zoom float64) *Comparison {
	n := c.with()
	n.options.zoom = zoom
	return n
}

// Sensitivity sets the difference threshold on the 0-255 perceptual
// scale. Lower values flag subtler changes. Default is 30.
func (c *Comparison) Sensitivity(threshold float64) *Comparison {
	n := c.with()
	n.options.sensitivity = threshold
	return n
}

// MinArea sets the minimum pixel area a difference region must reach to
// be reported. Default is 10.
func (c *Comparison) MinArea(pixels int) *Comparison {
	n := c.with()
	n.options.minArea = pixels
	return n
}

// Zones adds exclusion zones. Differences inside a zone are suppressed
// from deviation, regions, and the overlay. Zone coordinates are in
// rendered-image pixels.
func (c *Comparison) Zones(zones ...Zone) *Comparison {
	n := c.with()
	n.options.zones = append(n.options.zones, zones...)
	return n
}

// CoarseRegions reports a single bounding region per page instead of
// one region per connected difference area.
func (c *Comparison) CoarseRegions() *Comparison {
	n := c.with()
	n.options.coarse = true
	return n
}

// Parallel bounds how many page pairs are compared concurrently.
// Default is GOMAXPROCS.
func (c *Comparison) Parallel(workers int) *Comparison {
	n := c.with()
	n.options.parallel = workers
	return n
}

// SkipPages excludes the given 1-based pages from both documents.
func (c *Comparison) SkipPages(pages ...int) *Comparison {
	n := c.with()
	n.options.skipRefPages = append(n.options.skipRefPages, pages...)
	n.options.skipCandPages = append(n.options.skipCandPages, pages...)
	return n
}

// SkipReferencePages excludes 1-based pages from the reference only.
func (c *Comparison) SkipReferencePages(pages ...int) *Comparison {
	n := c.with()
	n.options.skipRefPages = append(n.options.skipRefPages, pages...)
	return n
}

// SkipCandidatePages excludes 1-based pages from the candidate only.
func (c *Comparison) SkipCandidatePages(pages ...int) *Comparison {
	n := c.with()
	n.options.skipCandPages = append(n.options.skipCandPages, pages...)
	return n
}

// SkipText excludes, from both documents, every page whose text
// contains one of the given substrings. Matching folds case unless
// CaseSensitiveSearch is set.
func (c *Comparison) SkipText(terms ...string) *Comparison {
	n := c.with()
	n.options.skipRefText = append(n.options.skipRefText, terms...)
	n.options.skipCandText = append(n.options.skipCandText, terms...)
	return n
}

// SkipReferenceText excludes matching pages from the reference only.
func (c *Comparison) SkipReferenceText(terms ...string) *Comparison {
	n := c.with()
	n.options.skipRefText = append(n.options.skipRefText, terms...)
	return n
}

// SkipCandidateText excludes matching pages from the candidate only.
func (c *Comparison) SkipCandidateText(terms ...string) *Comparison {
	n := c.with()
	n.options.skipCandText = append(n.options.skipCandText, terms...)
	return n
}

// CaseSensitiveSearch makes SkipText matching exact instead of
// case-folded.
func (c *Comparison) CaseSensitiveSearch() *Comparison {
	n := c.with()
	n.options.caseSensitive = true
	return n
}

// WithRasterizer substitutes the rendering backend used to open
// documents. Default is the built-in PDF rasterizer.
func (c *Comparison) WithRasterizer(r Rasterizer) *Comparison {
	n := c.with()
	n.rasterizer = r
	return n
}

// Run executes the comparison and returns a summary with one result per
// aligned page pair.
func (c *Comparison) Run(ctx context.Context) (*Summary, []Warning, error) {
	refDoc, candDoc, err := c.openDocuments()
	if err != nil {
		return nil, nil, err
	}

	cfg := compare.Config{
		Zoom: c.options.zoom,
		Diff: diff.Config{
			Sensitivity:   c.options.sensitivity,
			MinArea:       c.options.minArea,
			Zones:         c.options.zones,
			CoarseRegions: c.options.coarse,
		},
		SkipA: compare.SkipSpec{
			Pages:         c.options.skipRefPages,
			Search:        c.options.skipRefText,
			CaseSensitive: c.options.caseSensitive,
		},
		SkipB: compare.SkipSpec{
			Pages:         c.options.skipCandPages,
			Search:        c.options.skipCandText,
			CaseSensitive: c.options.caseSensitive,
		},
		Parallel: c.options.parallel,
	}
	return compare.New(cfg).Run(ctx, refDoc, candDoc)
}

func (c *Comparison) openDocuments() (Document, Document, error) {
	if c.refDoc != nil && c.candDoc != nil {
		return c.refDoc, c.candDoc, nil
	}

	rast := c.rasterizer
	if rast == nil {
		rast = raster.NewPDF()
	}

	refData, err := c.documentBytes(c.refPath, c.refData)
	if err != nil {
		return nil, nil, fmt.Errorf("reference document: %w", err)
	}
	candData, err := c.documentBytes(c.candPath, c.candData)
	if err != nil {
		return nil, nil, fmt.Errorf("candidate document: %w", err)
	}

	refDoc, err := rast.Open(refData)
	if err != nil {
		return nil, nil, fmt.Errorf("opening reference document: %w", err)
	}
	candDoc, err := rast.Open(candData)
	if err != nil {
		return nil, nil, fmt.Errorf("opening candidate document: %w", err)
	}
	return refDoc, candDoc, nil
}

func (c *Comparison) documentBytes(path string, data []byte) ([]byte, error) {
	if data != nil {
		return data, nil
	}
	if path == "" {
		return nil, fmt.Errorf("no document given")
	}
	return os.ReadFile(path)
}
