package compare

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tsawler/pagediff/raster"
)

// SkipSpec declares which pages of one document to leave out of the
// comparison. Pages lists explicit 1-based page numbers; Search lists
// substrings matched against each page's text, skipping any page that
// contains one. Search matching uses Unicode case folding unless
// CaseSensitive is set. The two mechanisms combine: a page named by
// either is skipped.
type SkipSpec struct {
	Pages         []int
	Search        []string
	CaseSensitive bool
}

// Empty reports whether the spec skips nothing.
func (s SkipSpec) Empty() bool {
	return len(s.Pages) == 0 && len(s.Search) == 0
}

// resolveSkips evaluates a spec against an open document and returns
// the sorted 1-based page numbers to skip. Page numbers outside the
// document produce a warning and are ignored.
func resolveSkips(doc raster.Document, spec SkipSpec) ([]int, []Warning, error) {
	count := doc.PageCount()
	skip := make(map[int]bool)
	var warnings []Warning

	for _, p := range spec.Pages {
		if p < 1 || p > count {
			warnings = append(warnings, Warning{
				Page:    p,
				Message: fmt.Sprintf("skip page out of range, document has %d pages", count),
			})
			continue
		}
		skip[p] = true
	}

	if len(spec.Search) > 0 {
		fold := cases.Fold()
		needles := make([]string, 0, len(spec.Search))
		for _, s := range spec.Search {
			if s == "" {
				continue
			}
			if !spec.CaseSensitive {
				s = fold.String(s)
			}
			needles = append(needles, s)
		}

		for i := 0; i < count && len(needles) > 0; i++ {
			if skip[i+1] {
				continue
			}
			text, err := doc.PageText(i)
			if err != nil {
				return nil, warnings, fmt.Errorf("reading text of page %d: %w", i+1, err)
			}
			if !spec.CaseSensitive {
				text = fold.String(text)
			}
			for _, needle := range needles {
				if strings.Contains(text, needle) {
					skip[i+1] = true
					break
				}
			}
		}
	}

	pages := make([]int, 0, len(skip))
	for p := range skip {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, warnings, nil
}

// keptPages returns the 1-based page numbers of a document that survive
// the skip set, in document order.
func keptPages(count int, skips []int) []int {
	skip := make(map[int]bool, len(skips))
	for _, p := range skips {
		skip[p] = true
	}
	kept := make([]int, 0, count)
	for p := 1; p <= count; p++ {
		if !skip[p] {
			kept = append(kept, p)
		}
	}
	return kept
}
