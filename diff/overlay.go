package diff

import (
	"image"

	"github.com/tsawler/pagediff/model"
)

// Overlay appearance. Fill matches the reference rendering: translucent red
// over the region interior, with an opaque red outline.
const (
	fillAlpha    = 80 // out of 255
	outlineWidth = 2
)

// renderOverlay composites the difference regions onto a copy of img.
// Each region gets a semi-transparent red fill and an opaque red outline of
// outlineWidth pixels drawn inside the region's bounding box. With no
// regions the result is a pixel-identical copy of img.
func renderOverlay(img *image.RGBA, regions []model.Region) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)

	for _, region := range regions {
		fillRegion(out, region.Bounds)
	}
	// Outlines go on top so adjacent fills never wash them out.
	for _, region := range regions {
		outlineRegion(out, region.Bounds)
	}

	return out
}

// fillRegion alpha-blends translucent red over the rectangle.
func fillRegion(img *image.RGBA, r model.Rect) {
	b := img.Bounds()
	c := r.Clamp(b.Dx(), b.Dy())
	for y := c.Y1; y < c.Y2; y++ {
		for x := c.X1; x < c.X2; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			img.Pix[i] = blend(img.Pix[i], 255, fillAlpha)
			img.Pix[i+1] = blend(img.Pix[i+1], 0, fillAlpha)
			img.Pix[i+2] = blend(img.Pix[i+2], 0, fillAlpha)
			img.Pix[i+3] = 255
		}
	}
}

// outlineRegion draws an opaque red border just inside the rectangle edges.
func outlineRegion(img *image.RGBA, r model.Rect) {
	b := img.Bounds()
	c := r.Clamp(b.Dx(), b.Dy())
	for y := c.Y1; y < c.Y2; y++ {
		for x := c.X1; x < c.X2; x++ {
			onBorder := x-c.X1 < outlineWidth || c.X2-1-x < outlineWidth ||
				y-c.Y1 < outlineWidth || c.Y2-1-y < outlineWidth
			if !onBorder {
				continue
			}
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			img.Pix[i] = 255
			img.Pix[i+1] = 0
			img.Pix[i+2] = 0
			img.Pix[i+3] = 255
		}
	}
}

// blend composites src over dst with the given alpha (0-255).
func blend(dst, src uint8, alpha int) uint8 {
	return uint8((alpha*int(src) + (255-alpha)*int(dst)) / 255)
}
