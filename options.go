package pagediff

import (
	"github.com/tsawler/pagediff/compare"
	"github.com/tsawler/pagediff/diff"
	"github.com/tsawler/pagediff/model"
)

// compareOptions holds the accumulated fluent configuration.
type compareOptions struct {
	zoom        float64
	sensitivity float64
	minArea     int
	zones       []model.Zone
	coarse      bool
	parallel    int

	skipRefPages  []int
	skipCandPages []int
	skipRefText   []string
	skipCandText  []string
	caseSensitive bool
}

func defaultOptions() compareOptions {
	d := diff.DefaultConfig()
	return compareOptions{
		zoom:        compare.DefaultZoom,
		sensitivity: d.Sensitivity,
		minArea:     d.MinArea,
	}
}

// clone creates a deep copy so chained configuration never mutates an
// earlier Comparison value.
func (o compareOptions) clone() compareOptions {
	c := o
	c.zones = append([]model.Zone(nil), o.zones...)
	c.skipRefPages = append([]int(nil), o.skipRefPages...)
	c.skipCandPages = append([]int(nil), o.skipCandPages...)
	c.skipRefText = append([]string(nil), o.skipRefText...)
	c.skipCandText = append([]string(nil), o.skipCandText...)
	return c
}
