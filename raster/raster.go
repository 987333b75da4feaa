package raster

import "image"

// Document is an open document whose pages can be rendered and whose
// text can be read. Page indexes are zero-based; implementations must
// be safe for concurrent reads so pages can be rendered in parallel.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// RenderPage rasterizes one page at the given zoom factor. Zoom 1.0
	// maps one document unit to one pixel; 2.0 doubles the resolution.
	RenderPage(index int, zoom float64) (*image.RGBA, error)

	// PageText returns the plain text of one page, or "" when the page
	// carries no recoverable text.
	PageText(index int) (string, error)
}

// Rasterizer opens raw document bytes as a renderable Document.
type Rasterizer interface {
	Open(data []byte) (Document, error)
}

// TextRecognizer recovers text from a rendered page image. It is the
// hook for OCR fallback on pages without an extractable text layer.
type TextRecognizer interface {
	Recognize(img image.Image) (string, error)
}
