package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
)

// minimalPDF builds a one-page-per-entry PDF with a classic xref table.
func minimalPDF(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make(map[int]int)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	var kids []string
	for i := range pageTexts {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf(
		"<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pageTexts)))

	maxNum := 2
	for i, text := range pageTexts {
		pageNum := 3 + 2*i
		if text == "" {
			writeObj(pageNum, "<< /Type /Page /Parent 2 0 R >>")
			if pageNum > maxNum {
				maxNum = pageNum
			}
			continue
		}
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", pageNum+1))
		writeObj(pageNum+1, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		maxNum = pageNum + 1
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", maxNum+1)
	for num := 1; num <= maxNum; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		maxNum+1, xrefPos)
	return buf.Bytes()
}

func TestPDFOpenRejectsGarbage(t *testing.T) {
	if _, err := NewPDF().Open([]byte("not a document")); err == nil {
		t.Error("Expected an error for non-PDF input")
	}
}

func TestPDFRenderCanvasSize(t *testing.T) {
	doc, err := NewPDF().Open(minimalPDF(t, []string{"sized"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	tests := []struct {
		zoom float64
		w, h int
	}{
		{1.0, 612, 792},
		{2.0, 1224, 1584},
		{0.5, 306, 396},
	}
	for _, tt := range tests {
		img, err := doc.RenderPage(0, tt.zoom)
		if err != nil {
			t.Fatalf("RenderPage at zoom %v failed: %v", tt.zoom, err)
		}
		if img.Bounds().Dx() != tt.w || img.Bounds().Dy() != tt.h {
			t.Errorf("Zoom %v: canvas %dx%d, want %dx%d",
				tt.zoom, img.Bounds().Dx(), img.Bounds().Dy(), tt.w, tt.h)
		}
	}

	if _, err := doc.RenderPage(0, 0); err == nil {
		t.Error("Expected an error for zoom 0")
	}
}

func TestPDFRenderPaintsText(t *testing.T) {
	doc, err := NewPDF().Open(minimalPDF(t, []string{"Hello World"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	img, err := doc.RenderPage(0, 1.0)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}

	// Text is placed at (72, 720) in PDF space, so ink lands near
	// y = 792-720 = 72 in image space, just above the baseline.
	inked := 0
	for y := 50; y < 80; y++ {
		for x := 65; x < 200; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				inked++
			}
		}
	}
	if inked == 0 {
		t.Error("Expected ink near the text position, canvas is blank there")
	}

	// Everything far from the text stays white.
	for y := 300; y < 320; y++ {
		for x := 100; x < 120; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("Unexpected ink at (%d,%d)", x, y)
			}
		}
	}
}

func TestPDFRenderDeterministic(t *testing.T) {
	doc, err := NewPDF().Open(minimalPDF(t, []string{"repeatable output"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	a, err := doc.RenderPage(0, 1.5)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	b, err := doc.RenderPage(0, 1.5)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Two renders of the same page differ")
	}
}

func TestPDFPageText(t *testing.T) {
	doc, err := NewPDF().Open(minimalPDF(t, []string{"Quarterly Report", "Appendix"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	text, err := doc.PageText(0)
	if err != nil {
		t.Fatalf("PageText failed: %v", err)
	}
	if text != "Quarterly Report" {
		t.Errorf("PageText = %q, want %q", text, "Quarterly Report")
	}
}

type fakeRecognizer struct {
	text   string
	called int
}

func (f *fakeRecognizer) Recognize(img image.Image) (string, error) {
	f.called++
	return f.text, nil
}

func TestPDFTextRecognizerFallback(t *testing.T) {
	rec := &fakeRecognizer{text: "SCANNED CONTENT"}
	r := &PDF{Recognizer: rec}

	doc, err := r.Open(minimalPDF(t, []string{"", "typed"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Page without a text layer goes through the recognizer.
	text, err := doc.PageText(0)
	if err != nil {
		t.Fatalf("PageText failed: %v", err)
	}
	if text != "SCANNED CONTENT" {
		t.Errorf("PageText = %q, want recognizer output", text)
	}
	if rec.called != 1 {
		t.Errorf("Recognizer called %d times, want 1", rec.called)
	}

	// Page with real text never touches the recognizer.
	text, err = doc.PageText(1)
	if err != nil {
		t.Fatalf("PageText failed: %v", err)
	}
	if text != "typed" {
		t.Errorf("PageText = %q, want %q", text, "typed")
	}
	if rec.called != 1 {
		t.Errorf("Recognizer called %d times after typed page, want 1", rec.called)
	}
}

func TestStaticDocument(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s := &Static{
		Images: []*image.RGBA{img, img},
		Text:   []string{"first"},
	}

	if s.PageCount() != 2 {
		t.Errorf("PageCount = %d, want 2", s.PageCount())
	}

	got, err := s.RenderPage(0, 3.0)
	if err != nil {
		t.Fatalf("RenderPage failed: %v", err)
	}
	if got != img {
		t.Error("RenderPage should return the stored image regardless of zoom")
	}

	if text, _ := s.PageText(0); text != "first" {
		t.Errorf("PageText(0) = %q, want %q", text, "first")
	}
	if text, _ := s.PageText(1); text != "" {
		t.Errorf("PageText(1) = %q, want empty", text)
	}

	if _, err := s.RenderPage(5, 1.0); err == nil {
		t.Error("Expected an error for an out-of-range page")
	}
	if _, err := s.PageText(-1); err == nil {
		t.Error("Expected an error for a negative page index")
	}
}
