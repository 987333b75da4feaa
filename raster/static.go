package raster

import (
	"fmt"
	"image"
)

// Static is a Document served entirely from memory. It ignores zoom and
// returns its pages as stored. Text, when provided, must be indexed
// like Images; a nil Text slice means no page has text.
type Static struct {
	Images []*image.RGBA
	Text   []string
}

var _ Document = (*Static)(nil)

func (s *Static) PageCount() int {
	return len(s.Images)
}

func (s *Static) RenderPage(index int, zoom float64) (*image.RGBA, error) {
	if index < 0 || index >= len(s.Images) {
		return nil, fmt.Errorf("page index %d out of range [0,%d)", index, len(s.Images))
	}
	return s.Images[index], nil
}

func (s *Static) PageText(index int) (string, error) {
	if index < 0 || index >= len(s.Images) {
		return "", fmt.Errorf("page index %d out of range [0,%d)", index, len(s.Images))
	}
	if index >= len(s.Text) {
		return "", nil
	}
	return s.Text[index], nil
}
