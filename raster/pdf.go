package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/pagediff/pdfdoc"
)

// PDF rasterizes PDF documents using the built-in parser. Pages are
// painted as black text on a white canvas sized from the page's
// MediaBox. The rendering is a text-layer approximation, not a full
// imaging model: vector graphics and embedded images are not drawn.
// For revision comparison of text documents this preserves exactly what
// matters, where content sits on the page.
type PDF struct {
	// Recognizer, when set, is consulted by PageText for pages whose
	// text layer is empty (scanned documents).
	Recognizer TextRecognizer
}

// NewPDF returns a PDF rasterizer with no OCR fallback.
func NewPDF() *PDF {
	return &PDF{}
}

// Open parses the document and returns it ready for rendering.
func (r *PDF) Open(data []byte) (Document, error) {
	doc, err := pdfdoc.Open(data)
	if err != nil {
		return nil, err
	}
	return &pdfDocument{doc: doc, recognizer: r.Recognizer}, nil
}

type pdfDocument struct {
	doc        *pdfdoc.Document
	recognizer TextRecognizer
}

func (d *pdfDocument) PageCount() int {
	return d.doc.PageCount()
}

// ocrZoom is the resolution used when rendering a page for recognition.
const ocrZoom = 2.0

func (d *pdfDocument) RenderPage(index int, zoom float64) (*image.RGBA, error) {
	if zoom <= 0 {
		return nil, fmt.Errorf("zoom must be positive, got %v", zoom)
	}
	page, err := d.doc.Page(index)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(page.Width() * zoom))
	h := int(math.Ceil(page.Height() * zoom))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	fragments, err := page.TextFragments()
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", index+1, err)
	}

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	pageH := page.Height()
	for _, f := range fragments {
		// PDF user space has its origin at the bottom-left; image space
		// at the top-left.
		x := int(math.Round(f.X * zoom))
		y := int(math.Round((pageH - f.Y) * zoom))
		drawer.Dot = fixed.P(x, y)
		drawer.DrawString(f.Text)
	}
	return img, nil
}

func (d *pdfDocument) PageText(index int) (string, error) {
	page, err := d.doc.Page(index)
	if err != nil {
		return "", err
	}
	text, err := page.Text()
	if err != nil {
		return "", err
	}
	if text != "" || d.recognizer == nil {
		return text, nil
	}

	// No text layer; fall back to recognition over a rendered page.
	img, err := d.RenderPage(index, ocrZoom)
	if err != nil {
		return "", err
	}
	return d.recognizer.Recognize(img)
}
