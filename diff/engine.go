package diff

import (
	"image"
	"image/draw"

	"github.com/tsawler/pagediff/model"
)

// blurSigma is the Gaussian smoothing strength applied to the difference
// field before thresholding. It merges sub-pixel antialiasing noise into
// its surroundings so that isolated rendering jitter stays below the
// sensitivity threshold.
const blurSigma = 1.5

// Morphological structuring-element radii. Opening with a 3x3 neighborhood
// removes isolated single-pixel noise; closing with a 5x5 neighborhood fills
// small gaps inside a blob. Opening must run before closing.
const (
	openRadius  = 1 // 3x3
	closeRadius = 2 // 5x5
)

// Config holds difference-engine parameters.
type Config struct {
	// Sensitivity is the minimum perceptual difference magnitude, in the
	// same units as the weighted channel difference (0-255 scale), for a
	// pixel to be flagged. Practical range is 10-100.
	Sensitivity float64

	// MinArea is the smallest connected-component pixel count retained as
	// a reportable difference region.
	MinArea int

	// Zones are rectangles exempted from the difference mask. Zone pixels
	// are vetoed after morphological cleanup, never before.
	Zones []model.Zone

	// CoarseRegions collapses all differing pixels into a single extent
	// box instead of per-component regions. This is the coarse fallback
	// path; MinArea is not applied to the extent box.
	CoarseRegions bool
}

// DefaultConfig returns the default engine parameters. The values match the
// reference comparison behavior: sensitivity 30 on the 0-255 difference
// scale and a 10-pixel minimum region area.
func DefaultConfig() Config {
	return Config{
		Sensitivity: 30,
		MinArea:     10,
	}
}

// Engine computes visual differences between page rasters. An Engine is
// immutable after creation and safe for concurrent use; Compare is a pure
// function of its inputs.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Outcome is the result of comparing one image pair.
type Outcome struct {
	// Overlay is imgB with difference regions highlighted. Its dimensions
	// are the per-axis maximum of the two input images.
	Overlay *image.RGBA

	// Deviation is the percentage of pixels flagged as significantly
	// different after all suppression, in [0, 100].
	Deviation float64

	// Regions are the surviving difference regions in labeling order.
	Regions []model.Region
}

// Compare runs the full difference pipeline over one image pair. The inputs
// are not modified; the returned overlay is freshly allocated. Compare has
// no failure mode: invalid configurations are expected to be rejected at the
// boundary, and the two working images always share dimensions after
// normalization.
func (e *Engine) Compare(imgA, imgB image.Image) Outcome {
	a, b := normalize(imgA, imgB)

	f := weightedDiff(a, b)
	f.gaussianBlur(blurSigma)

	mask := f.threshold(e.cfg.Sensitivity)
	mask = mask.Open(openRadius)
	mask = mask.Close(closeRadius)

	// Exclusion is an absolute veto over the cleaned mask, not a
	// pre-filter weight.
	for _, zone := range e.cfg.Zones {
		mask.ClearRect(zone.Rect)
	}

	total := mask.W * mask.H
	deviation := 0.0
	if total > 0 {
		deviation = float64(mask.Count()) / float64(total) * 100
	}

	var regions []model.Region
	if e.cfg.CoarseRegions {
		if r, ok := ExtentBox(mask); ok {
			regions = []model.Region{r}
		}
	} else {
		regions = ExtractRegions(mask, e.cfg.MinArea)
	}

	return Outcome{
		Overlay:   renderOverlay(b, regions),
		Deviation: deviation,
		Regions:   regions,
	}
}

// normalize converts both images to RGB rasters of identical dimensions.
// When the dimensions differ, each image is pasted at the origin of a white
// canvas sized to the per-axis maximum. Differences appearing only in the
// padding area are real differences unless covered by an exclusion zone.
func normalize(imgA, imgB image.Image) (*image.RGBA, *image.RGBA) {
	aw, ah := imgA.Bounds().Dx(), imgA.Bounds().Dy()
	bw, bh := imgB.Bounds().Dx(), imgB.Bounds().Dy()

	w, h := aw, ah
	if bw > w {
		w = bw
	}
	if bh > h {
		h = bh
	}

	return pasteOnWhite(imgA, w, h), pasteOnWhite(imgB, w, h)
}

// pasteOnWhite draws img at the origin of a white w-by-h RGBA canvas.
func pasteOnWhite(img image.Image, w, h int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xff
	}
	target := image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy())
	draw.Draw(canvas, target, img, img.Bounds().Min, draw.Src)
	return canvas
}
