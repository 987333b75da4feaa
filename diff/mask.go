package diff

import "github.com/tsawler/pagediff/model"

// Mask is a flat row-major boolean grid over a w-by-h raster.
type Mask struct {
	W, H int
	bits []bool
}

// NewMask creates an all-false mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

// At returns the value at (x, y). Coordinates outside the grid are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

// Set assigns the value at (x, y). Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	m.bits[y*m.W+x] = v
}

// Count returns the number of true pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Any reports whether at least one pixel is set.
func (m *Mask) Any() bool {
	for _, b := range m.bits {
		if b {
			return true
		}
	}
	return false
}

// Erode returns a new mask where a pixel survives only if every in-bounds
// pixel in its square neighborhood of the given radius is set. Neighbors
// beyond the grid edge do not veto erosion, so blobs touching the border
// keep their full extent through an open/close cycle.
func (m *Mask) Erode(radius int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.bits[y*m.W+x] {
				continue
			}
			out.bits[y*m.W+x] = m.neighborhoodFull(x, y, radius)
		}
	}
	return out
}

func (m *Mask) neighborhoodFull(x, y, radius int) bool {
	for dy := -radius; dy <= radius; dy++ {
		ny := y + dy
		if ny < 0 || ny >= m.H {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := x + dx
			if nx < 0 || nx >= m.W {
				continue
			}
			if !m.bits[ny*m.W+nx] {
				return false
			}
		}
	}
	return true
}

// Dilate returns a new mask where a pixel is set if any pixel in its square
// neighborhood of the given radius is set.
func (m *Mask) Dilate(radius int) *Mask {
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.bits[y*m.W+x] {
				continue
			}
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					out.Set(x+dx, y+dy, true)
				}
			}
		}
	}
	return out
}

// Open performs a morphological opening: erosion followed by dilation.
// Opening removes isolated specks smaller than the structuring element.
func (m *Mask) Open(radius int) *Mask {
	return m.Erode(radius).Dilate(radius)
}

// Close performs a morphological closing: dilation followed by erosion.
// Closing fills small gaps inside a blob.
func (m *Mask) Close(radius int) *Mask {
	return m.Dilate(radius).Erode(radius)
}

// ClearRect forces every pixel inside r to false.
func (m *Mask) ClearRect(r model.Rect) {
	c := r.Clamp(m.W, m.H)
	for y := c.Y1; y < c.Y2; y++ {
		row := y * m.W
		for x := c.X1; x < c.X2; x++ {
			m.bits[row+x] = false
		}
	}
}
