package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// pdfBuilder assembles a syntactically valid PDF with correct xref offsets.
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets map[int]int
	maxNum  int
}

func newPDFBuilder() *pdfBuilder {
	b := &pdfBuilder{offsets: make(map[int]int)}
	b.buf.WriteString("%PDF-1.4\n")
	return b
}

func (b *pdfBuilder) writeObj(num int, body string) {
	b.offsets[num] = b.buf.Len()
	fmt.Fprintf(&b.buf, "%d 0 obj\n%s\nendobj\n", num, body)
	if num > b.maxNum {
		b.maxNum = num
	}
}

func (b *pdfBuilder) finishClassic(rootRef string) []byte {
	xrefPos := b.buf.Len()
	fmt.Fprintf(&b.buf, "xref\n0 %d\n", b.maxNum+1)
	b.buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= b.maxNum; num++ {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", b.offsets[num])
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n",
		b.maxNum+1, rootRef, xrefPos)
	return b.buf.Bytes()
}

// buildTextPDF creates a document with one page per entry of pageTexts,
// using a classic cross-reference table.
func buildTextPDF(pageTexts []string) []byte {
	b := newPDFBuilder()

	var kids []string
	for i := range pageTexts {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}

	b.writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.writeObj(2, fmt.Sprintf(
		"<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pageTexts)))

	for i, text := range pageTexts {
		pageNum := 3 + 2*i
		contNum := pageNum + 1
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		b.writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", contNum))
		b.writeObj(contNum, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	return b.finishClassic("1 0 R")
}

func TestOpenRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("GIF89a....")},
		{"header only", []byte("%PDF-1.7\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			if !errors.Is(err, ErrParse) {
				t.Errorf("Expected ErrParse, got %v", err)
			}
		})
	}
}

func TestOpenPageCount(t *testing.T) {
	doc, err := Open(buildTextPDF([]string{"one", "two", "three"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.PageCount() != 3 {
		t.Errorf("PageCount = %d, want 3", doc.PageCount())
	}
}

func TestPageGeometry(t *testing.T) {
	doc, err := Open(buildTextPDF([]string{"x"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if page.Width() != 612 || page.Height() != 792 {
		t.Errorf("Page is %.0fx%.0f pts, want 612x792 (inherited MediaBox)",
			page.Width(), page.Height())
	}

	if _, err := doc.Page(5); err == nil {
		t.Error("Expected an error for an out-of-range page index")
	}
}

func TestPageText(t *testing.T) {
	doc, err := Open(buildTextPDF([]string{"Hello World", "CONFIDENTIAL Report"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	page0, _ := doc.Page(0)
	text, err := page0.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "Hello World" {
		t.Errorf("Page 0 text = %q, want %q", text, "Hello World")
	}

	page1, _ := doc.Page(1)
	text, err = page1.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if !strings.Contains(text, "CONFIDENTIAL") {
		t.Errorf("Page 1 text = %q, should contain CONFIDENTIAL", text)
	}
}

func TestTextFragmentPositions(t *testing.T) {
	doc, err := Open(buildTextPDF([]string{"Positioned"}))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	page, _ := doc.Page(0)

	fragments, err := page.TextFragments()
	if err != nil {
		t.Fatalf("TextFragments failed: %v", err)
	}
	if len(fragments) != 1 {
		t.Fatalf("Expected 1 fragment, got %d", len(fragments))
	}
	f := fragments[0]
	if f.Text != "Positioned" {
		t.Errorf("Text = %q, want %q", f.Text, "Positioned")
	}
	if f.X != 72 || f.Y != 720 {
		t.Errorf("Position = (%v,%v), want (72,720)", f.X, f.Y)
	}
	if f.Size != 12 {
		t.Errorf("Size = %v, want 12", f.Size)
	}
}

func TestMultilineText(t *testing.T) {
	b := newPDFBuilder()
	content := "BT /F1 12 Tf 20 TL 72 720 Td (first line) Tj T* (second line) Tj ET"
	b.writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>")
	b.writeObj(3, "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	b.writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	doc, err := Open(b.finishClassic("1 0 R"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	page, _ := doc.Page(0)
	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	want := "first line\nsecond line"
	if text != want {
		t.Errorf("Text = %q, want %q", text, want)
	}
}

func TestFlateCompressedContent(t *testing.T) {
	b := newPDFBuilder()
	content := "BT /F1 12 Tf 72 720 Td (compressed text) Tj ET"

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write([]byte(content))
	zw.Close()

	b.writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>")
	b.writeObj(3, "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	b.writeObj(4, fmt.Sprintf("<< /Length %d /Filter /FlateDecode >>\nstream\n%s\nendstream",
		compressed.Len(), compressed.String()))

	doc, err := Open(b.finishClassic("1 0 R"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	page, _ := doc.Page(0)
	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "compressed text" {
		t.Errorf("Text = %q, want %q", text, "compressed text")
	}
}

func TestXRefStreamDocument(t *testing.T) {
	// Hand-assemble a PDF indexed by a cross-reference stream with
	// W [1 4 1] entries.
	var buf bytes.Buffer
	offsets := make(map[int]int)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.5\n")
	content := "BT /F1 12 Tf 72 720 Td (xref stream page) Tj ET"
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))

	xrefPos := buf.Len()
	offsets[5] = xrefPos

	var entries []byte
	appendEntry := func(typ byte, field2 int, field3 byte) {
		entries = append(entries, typ,
			byte(field2>>24), byte(field2>>16), byte(field2>>8), byte(field2),
			field3)
	}
	appendEntry(0, 0, 255) // object 0: free
	for num := 1; num <= 4; num++ {
		appendEntry(1, offsets[num], 0)
	}
	appendEntry(1, xrefPos, 0) // the xref stream itself

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	zw.Write(entries)
	zw.Close()

	fmt.Fprintf(&buf,
		"5 0 obj\n<< /Type /XRef /Size 6 /W [1 4 1] /Root 1 0 R /Filter /FlateDecode /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		compressed.Len(), compressed.String())
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefPos)

	doc, err := Open(buf.Bytes())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount = %d, want 1", doc.PageCount())
	}
	page, _ := doc.Page(0)
	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "xref stream page" {
		t.Errorf("Text = %q, want %q", text, "xref stream page")
	}
}

func TestRebuildFromCorruptXRefOffset(t *testing.T) {
	data := buildTextPDF([]string{"recoverable"})

	// Corrupt the startxref offset so the normal chain fails.
	idx := bytes.LastIndex(data, []byte("startxref"))
	corrupt := append([]byte(nil), data[:idx]...)
	corrupt = append(corrupt, []byte("startxref\n999999999\n%%EOF\n")...)

	doc, err := Open(corrupt)
	if err != nil {
		t.Fatalf("Open should recover by scanning, got: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", doc.PageCount())
	}
	page, _ := doc.Page(0)
	text, _ := page.Text()
	if text != "recoverable" {
		t.Errorf("Text = %q, want %q", text, "recoverable")
	}
}

func TestEmptyPageHasNoText(t *testing.T) {
	b := newPDFBuilder()
	b.writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	b.writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 200 200] >>")
	b.writeObj(3, "<< /Type /Page /Parent 2 0 R >>")

	doc, err := Open(b.finishClassic("1 0 R"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	page, _ := doc.Page(0)
	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "" {
		t.Errorf("Expected empty text, got %q", text)
	}
}
