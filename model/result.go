package model

import "image"

// Region is one connected area of significant difference. Bounds is the
// component's bounding box after padding and clamping; Area is the number of
// mask pixels the component covered before padding.
type Region struct {
	Bounds Rect
	Area   int
}

// PageResult is the outcome of comparing one aligned page pair.
//
// PageA and PageB are the original 1-based page numbers in each document.
// A value of 0 means the document had no page at this aligned position and a
// blank placeholder was compared instead; at most one of the two is 0.
type PageResult struct {
	PageA int
	PageB int

	// Overlay is the second page with every difference region highlighted.
	// Its dimensions are the per-axis maximum of the two input pages.
	Overlay *image.RGBA

	// Deviation is the percentage of pixels flagged as significantly
	// different after all noise suppression, in [0, 100].
	Deviation float64

	// Regions are the difference regions, ordered by discovery.
	Regions []Region
}

// Summary aggregates the results of one comparison run.
type Summary struct {
	// Results, one per aligned page pair, in aligned-position order.
	Results []PageResult

	// PageCountA and PageCountB are the total page counts of the two
	// documents before any skip-filtering.
	PageCountA int
	PageCountB int

	// AverageDeviation is the arithmetic mean of the per-page deviations,
	// or 0 when Results is empty.
	AverageDeviation float64
}

// IdenticalCutoff is the deviation percentage below which a page pair is
// reported as identical for summary purposes.
const IdenticalCutoff = 1.0

// IdenticalPages returns how many results fall below IdenticalCutoff.
func (s *Summary) IdenticalPages() int {
	n := 0
	for _, r := range s.Results {
		if r.Deviation < IdenticalCutoff {
			n++
		}
	}
	return n
}
