package diff

import "github.com/tsawler/pagediff/model"

// RegionPadding is the fixed margin, in pixels, added to every side of a
// region's bounding box before clamping to the image bounds.
const RegionPadding = 5

// ExtractRegions labels the connected components of the mask, discards
// components smaller than minArea pixels, and returns the surviving
// components' bounding boxes, padded by RegionPadding and clamped to the
// mask bounds. Components use 8-connectivity (diagonal neighbors connect).
// Boxes are returned in labeling order, which is row-major scan order of
// each component's first pixel.
func ExtractRegions(m *Mask, minArea int) []model.Region {
	visited := make([]bool, m.W*m.H)
	var regions []model.Region

	// Reused flood-fill stack of pixel indices.
	var stack []int

	for start, set := range m.bits {
		if !set || visited[start] {
			continue
		}

		// Flood fill one component, tracking its extent and area.
		minX, minY := m.W, m.H
		maxX, maxY := 0, 0
		area := 0

		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%m.W, idx/m.W

			area++
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
						continue
					}
					nidx := ny*m.W + nx
					if m.bits[nidx] && !visited[nidx] {
						visited[nidx] = true
						stack = append(stack, nidx)
					}
				}
			}
		}

		if area < minArea {
			continue
		}

		bounds := model.NewRect(minX, minY, maxX+1, maxY+1).
			Expand(RegionPadding).
			Clamp(m.W, m.H)
		regions = append(regions, model.Region{Bounds: bounds, Area: area})
	}

	return regions
}

// ExtentBox returns a single padded, clamped bounding box covering every set
// pixel of the mask. It is the coarse degradation of ExtractRegions: one box
// regardless of how many disjoint components exist. The second return value
// is false when the mask is entirely unset.
func ExtentBox(m *Mask) (model.Region, bool) {
	minX, minY := m.W, m.H
	maxX, maxY := -1, -1
	area := 0

	for idx, set := range m.bits {
		if !set {
			continue
		}
		x, y := idx%m.W, idx/m.W
		area++
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	if area == 0 {
		return model.Region{}, false
	}

	bounds := model.NewRect(minX, minY, maxX+1, maxY+1).
		Expand(RegionPadding).
		Clamp(m.W, m.H)
	return model.Region{Bounds: bounds, Area: area}, true
}
