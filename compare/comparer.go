package compare

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/pagediff/diff"
	"github.com/tsawler/pagediff/model"
	"github.com/tsawler/pagediff/raster"
)

// DefaultZoom is the rendering resolution used when Config.Zoom is
// unset. Two pixels per document unit keeps small text differences
// above the noise floor without making full-page diffs expensive.
const DefaultZoom = 2.0

// Config controls a comparison run.
type Config struct {
	// Zoom is the rendering resolution passed to the rasterizer.
	// Values <= 0 mean DefaultZoom.
	Zoom float64

	// Diff configures the per-page difference engine.
	Diff diff.Config

	// SkipA and SkipB select pages to leave out of the reference and
	// candidate documents respectively.
	SkipA, SkipB SkipSpec

	// Parallel bounds how many page pairs are compared concurrently.
	// Values <= 0 mean GOMAXPROCS.
	Parallel int
}

// DefaultConfig returns the configuration used when callers tweak
// nothing: default zoom and the diff engine's defaults.
func DefaultConfig() Config {
	return Config{Zoom: DefaultZoom, Diff: diff.DefaultConfig()}
}

// Comparer runs page-level visual comparisons.
type Comparer struct {
	cfg    Config
	engine *diff.Engine
}

// New creates a Comparer from cfg, normalizing unset fields to their
// defaults.
func New(cfg Config) *Comparer {
	if cfg.Zoom <= 0 {
		cfg.Zoom = DefaultZoom
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = runtime.GOMAXPROCS(0)
	}
	return &Comparer{cfg: cfg, engine: diff.NewEngine(cfg.Diff)}
}

// Run compares the reference document against the candidate and
// returns one result per aligned page pair, in page order. Warnings
// carry non-fatal issues such as skip pages that do not exist; the
// comparison itself still runs.
func (c *Comparer) Run(ctx context.Context, reference, candidate raster.Document) (*model.Summary, []Warning, error) {
	skipsA, warnA, err := resolveSkips(reference, c.cfg.SkipA)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting reference pages: %w", err)
	}
	skipsB, warnB, err := resolveSkips(candidate, c.cfg.SkipB)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting candidate pages: %w", err)
	}

	var warnings []Warning
	for _, w := range warnA {
		w.Doc = "reference"
		warnings = append(warnings, w)
	}
	for _, w := range warnB {
		w.Doc = "candidate"
		warnings = append(warnings, w)
	}

	pairs := alignPages(
		keptPages(reference.PageCount(), skipsA),
		keptPages(candidate.PageCount(), skipsB),
	)

	results := make([]model.PageResult, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Parallel)

	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			imgA, imgB, err := c.renderPair(reference, candidate, pair)
			if err != nil {
				return err
			}
			out := c.engine.Compare(imgA, imgB)
			results[i] = model.PageResult{
				PageA:     pair.a,
				PageB:     pair.b,
				Overlay:   out.Overlay,
				Deviation: out.Deviation,
				Regions:   out.Regions,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	summary := &model.Summary{
		Results:    results,
		PageCountA: reference.PageCount(),
		PageCountB: candidate.PageCount(),
	}
	if len(results) > 0 {
		var total float64
		for _, r := range results {
			total += r.Deviation
		}
		summary.AverageDeviation = total / float64(len(results))
	}
	return summary, warnings, nil
}

// renderPair rasterizes both sides of a pair, substituting a white
// placeholder sized like the counterpart when one side is absent.
func (c *Comparer) renderPair(reference, candidate raster.Document, pair pagePair) (*image.RGBA, *image.RGBA, error) {
	var imgA, imgB *image.RGBA
	var err error

	if pair.a > 0 {
		imgA, err = reference.RenderPage(pair.a-1, c.cfg.Zoom)
		if err != nil {
			return nil, nil, fmt.Errorf("rendering reference page %d: %w", pair.a, err)
		}
	}
	if pair.b > 0 {
		imgB, err = candidate.RenderPage(pair.b-1, c.cfg.Zoom)
		if err != nil {
			return nil, nil, fmt.Errorf("rendering candidate page %d: %w", pair.b, err)
		}
	}

	switch {
	case imgA == nil && imgB == nil:
		return nil, nil, fmt.Errorf("page pair with both sides absent")
	case imgA == nil:
		imgA = model.NewBlankPage(imgB.Bounds().Dx(), imgB.Bounds().Dy()).Image
	case imgB == nil:
		imgB = model.NewBlankPage(imgA.Bounds().Dx(), imgA.Bounds().Dy()).Image
	}
	return imgA, imgB, nil
}
