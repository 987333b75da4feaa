package diff

import (
	"image"
	"math"
)

// Perceptual channel weights, matching the standard luminance approximation.
// Green dominates because human vision is most sensitive to it.
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// field is a scalar value per pixel, row-major.
type field struct {
	w, h int
	v    []float64
}

// weightedDiff computes the perceptual difference field between two
// same-sized RGB images: weightR·|ΔR| + weightG·|ΔG| + weightB·|ΔB| per
// pixel. Both images must share identical bounds; size normalization happens
// before this step, so a mismatch is a programming error.
func weightedDiff(a, b *image.RGBA) *field {
	if a.Bounds() != b.Bounds() {
		panic("diff: weightedDiff called with mismatched image bounds")
	}

	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	f := &field{w: w, h: h, v: make([]float64, w*h)}

	for y := 0; y < h; y++ {
		aRow := a.PixOffset(a.Bounds().Min.X, a.Bounds().Min.Y+y)
		bRow := b.PixOffset(b.Bounds().Min.X, b.Bounds().Min.Y+y)
		for x := 0; x < w; x++ {
			ai := aRow + x*4
			bi := bRow + x*4
			dr := absDiff(a.Pix[ai], b.Pix[bi])
			dg := absDiff(a.Pix[ai+1], b.Pix[bi+1])
			db := absDiff(a.Pix[ai+2], b.Pix[bi+2])
			f.v[y*w+x] = weightR*float64(dr) + weightG*float64(dg) + weightB*float64(db)
		}
	}

	return f
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// gaussianBlur smooths the field in place with a separable Gaussian kernel.
// Near the edges the kernel is renormalized over the in-bounds samples.
func (f *field) gaussianBlur(sigma float64) {
	if sigma <= 0 {
		return
	}

	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	for i := -radius; i <= radius; i++ {
		kernel[i+radius] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
	}

	tmp := make([]float64, len(f.v))

	// Horizontal pass.
	for y := 0; y < f.h; y++ {
		row := y * f.w
		for x := 0; x < f.w; x++ {
			sum, weight := 0.0, 0.0
			for i := -radius; i <= radius; i++ {
				xi := x + i
				if xi < 0 || xi >= f.w {
					continue
				}
				k := kernel[i+radius]
				sum += k * f.v[row+xi]
				weight += k
			}
			tmp[row+x] = sum / weight
		}
	}

	// Vertical pass.
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			sum, weight := 0.0, 0.0
			for i := -radius; i <= radius; i++ {
				yi := y + i
				if yi < 0 || yi >= f.h {
					continue
				}
				k := kernel[i+radius]
				sum += k * tmp[yi*f.w+x]
				weight += k
			}
			f.v[y*f.w+x] = sum / weight
		}
	}
}

// threshold returns the binary mask of pixels strictly above the sensitivity
// value.
func (f *field) threshold(sensitivity float64) *Mask {
	m := NewMask(f.w, f.h)
	for i, v := range f.v {
		if v > sensitivity {
			m.bits[i] = true
		}
	}
	return m
}
