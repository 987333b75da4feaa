package model

import (
	"errors"
	"fmt"
	"image"
)

// Rect is an axis-aligned rectangle in integer pixel coordinates.
// It is half-open: a point (x, y) is inside when X1 <= x < X2 and
// Y1 <= y < Y2.
type Rect struct {
	X1, Y1 int // top-left corner (inclusive)
	X2, Y2 int // bottom-right corner (exclusive)
}

// NewRect creates a rectangle from its corner coordinates.
func NewRect(x1, y1, x2, y2 int) Rect {
	return Rect{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the rectangle width in pixels.
func (r Rect) Width() int {
	return r.X2 - r.X1
}

// Height returns the rectangle height in pixels.
func (r Rect) Height() int {
	return r.Y2 - r.Y1
}

// Area returns the rectangle area in pixels.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// Empty returns true if the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// Expand grows the rectangle by margin pixels on every side.
func (r Rect) Expand(margin int) Rect {
	return Rect{
		X1: r.X1 - margin,
		Y1: r.Y1 - margin,
		X2: r.X2 + margin,
		Y2: r.Y2 + margin,
	}
}

// Clamp restricts the rectangle to the bounds of a w-by-h raster.
func (r Rect) Clamp(w, h int) Rect {
	out := r
	if out.X1 < 0 {
		out.X1 = 0
	}
	if out.Y1 < 0 {
		out.Y1 = 0
	}
	if out.X2 > w {
		out.X2 = w
	}
	if out.Y2 > h {
		out.Y2 = h
	}
	return out
}

// ImageRect converts the rectangle to an image.Rectangle.
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// String returns the rectangle as "(x1,y1)-(x2,y2)".
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// ErrInvalidZone is returned when an exclusion zone's geometry is invalid:
// the second corner must lie strictly below and to the right of the first.
var ErrInvalidZone = errors.New("invalid zone geometry: x2 must exceed x1 and y2 must exceed y1")

// Zone is an exclusion rectangle. Pixels inside a zone never contribute to
// the difference mask. Zone coordinates are expressed in the coordinate
// space of the reference raster. A Zone is immutable once created.
type Zone struct {
	Rect
}

// NewZone creates an exclusion zone, validating its geometry.
// It returns ErrInvalidZone when x2 <= x1 or y2 <= y1. Validation happens
// here, at the boundary, so invalid zones never reach the engine.
func NewZone(x1, y1, x2, y2 int) (Zone, error) {
	if x2 <= x1 || y2 <= y1 {
		return Zone{}, fmt.Errorf("%w: got (%d,%d)-(%d,%d)", ErrInvalidZone, x1, y1, x2, y2)
	}
	return Zone{Rect: NewRect(x1, y1, x2, y2)}, nil
}
