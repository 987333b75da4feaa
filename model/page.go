package model

import "image"

// Page is one rendered document page.
//
// Number is the page's original 1-based number in its source document. It is
// preserved through skip-filtering and alignment so that results can always
// be traced back to the source. Number 0 marks a blank placeholder page
// inserted when one document runs out of pages during alignment.
type Page struct {
	Number int
	Image  *image.RGBA
}

// Placeholder reports whether the page is a blank padding page rather than a
// real page of the source document.
func (p *Page) Placeholder() bool {
	return p.Number == 0
}

// NewBlankPage creates a solid white placeholder page sized w by h.
func NewBlankPage(w, h int) *Page {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &Page{Number: 0, Image: img}
}
