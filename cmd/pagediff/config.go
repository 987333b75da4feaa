package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pagediff"
)

// ErrConfigNotFound is returned when the configuration file does not
// exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// fileConfig is the YAML configuration schema.
//
//	zoom: 2.0
//	sensitivity: 30
//	min_area: 10
//	case_sensitive: false
//	zones:
//	  - [100, 100, 500, 200]
//	reference:
//	  skip_pages: [1]
//	  skip_text: ["DRAFT"]
//	candidate:
//	  skip_pages: []
//	  skip_text: ["DRAFT"]
type fileConfig struct {
	Zoom          float64        `yaml:"zoom"`
	Sensitivity   float64        `yaml:"sensitivity"`
	MinArea       int            `yaml:"min_area"`
	CaseSensitive bool           `yaml:"case_sensitive"`
	Zones         [][]int        `yaml:"zones"`
	Reference     docFileConfig  `yaml:"reference"`
	Candidate     docFileConfig  `yaml:"candidate"`
}

// docFileConfig holds per-document page filtering.
type docFileConfig struct {
	SkipPages []int    `yaml:"skip_pages"`
	SkipText  []string `yaml:"skip_text"`
}

// loadConfigFile loads comparison settings from a YAML file. A missing
// file returns ErrConfigNotFound so the caller can decide whether that
// is fatal.
func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *fileConfig) validate() error {
	if c.Zoom < 0 {
		return fmt.Errorf("zoom must not be negative, got %v", c.Zoom)
	}
	if c.Sensitivity < 0 {
		return fmt.Errorf("sensitivity must not be negative, got %v", c.Sensitivity)
	}
	if c.MinArea < 0 {
		return fmt.Errorf("min_area must not be negative, got %d", c.MinArea)
	}
	for i, z := range c.Zones {
		if len(z) != 4 {
			return fmt.Errorf("zone %d must have 4 coordinates [x1 y1 x2 y2], got %d", i+1, len(z))
		}
		if _, err := pagediff.NewZone(z[0], z[1], z[2], z[3]); err != nil {
			return fmt.Errorf("zone %d: %w", i+1, err)
		}
	}
	return nil
}

// zones converts the validated coordinate quadruples.
func (c *fileConfig) zones() []pagediff.Zone {
	out := make([]pagediff.Zone, 0, len(c.Zones))
	for _, z := range c.Zones {
		zone, err := pagediff.NewZone(z[0], z[1], z[2], z[3])
		if err != nil {
			continue // validate() already rejected these
		}
		out = append(out, zone)
	}
	return out
}

// apply layers the file settings onto a comparison builder. Zero values
// for zoom, sensitivity, and min_area mean "keep the default".
func (c *fileConfig) apply(cmp *pagediff.Comparison) *pagediff.Comparison {
	if c.Zoom > 0 {
		cmp = cmp.Zoom(c.Zoom)
	}
	if c.Sensitivity > 0 {
		cmp = cmp.Sensitivity(c.Sensitivity)
	}
	if c.MinArea > 0 {
		cmp = cmp.MinArea(c.MinArea)
	}
	if zones := c.zones(); len(zones) > 0 {
		cmp = cmp.Zones(zones...)
	}
	if c.CaseSensitive {
		cmp = cmp.CaseSensitiveSearch()
	}
	if len(c.Reference.SkipPages) > 0 {
		cmp = cmp.SkipReferencePages(c.Reference.SkipPages...)
	}
	if len(c.Reference.SkipText) > 0 {
		cmp = cmp.SkipReferenceText(c.Reference.SkipText...)
	}
	if len(c.Candidate.SkipPages) > 0 {
		cmp = cmp.SkipCandidatePages(c.Candidate.SkipPages...)
	}
	if len(c.Candidate.SkipText) > 0 {
		cmp = cmp.SkipCandidateText(c.Candidate.SkipText...)
	}
	return cmp
}
