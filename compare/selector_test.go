package compare

import (
	"image"
	"reflect"
	"testing"

	"github.com/tsawler/pagediff/raster"
)

func staticDoc(pageTexts []string) *raster.Static {
	images := make([]*image.RGBA, len(pageTexts))
	for i := range images {
		images[i] = image.NewRGBA(image.Rect(0, 0, 10, 10))
	}
	return &raster.Static{Images: images, Text: pageTexts}
}

func TestResolveSkipsExplicitPages(t *testing.T) {
	doc := staticDoc([]string{"a", "b", "c"})

	skips, warnings, err := resolveSkips(doc, SkipSpec{Pages: []int{2, 5, 1, 0}})
	if err != nil {
		t.Fatalf("resolveSkips failed: %v", err)
	}
	if !reflect.DeepEqual(skips, []int{1, 2}) {
		t.Errorf("skips = %v, want [1 2]", skips)
	}
	if len(warnings) != 2 {
		t.Fatalf("Expected 2 warnings for pages 5 and 0, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Page != 5 && warnings[1].Page != 5 {
		t.Errorf("No warning mentions page 5: %v", warnings)
	}
}

func TestResolveSkipsTextSearch(t *testing.T) {
	doc := staticDoc([]string{
		"Introduction",
		"CONFIDENTIAL draft, do not distribute",
		"Results",
		"Appendix: Confidential data tables",
	})

	tests := []struct {
		name string
		spec SkipSpec
		want []int
	}{
		{
			name: "case folded match",
			spec: SkipSpec{Search: []string{"confidential"}},
			want: []int{2, 4},
		},
		{
			name: "case sensitive match",
			spec: SkipSpec{Search: []string{"CONFIDENTIAL"}, CaseSensitive: true},
			want: []int{2},
		},
		{
			name: "no match",
			spec: SkipSpec{Search: []string{"watermark"}},
			want: []int{},
		},
		{
			name: "pages and search combine",
			spec: SkipSpec{Pages: []int{1}, Search: []string{"confidential"}},
			want: []int{1, 2, 4},
		},
		{
			name: "empty needles are ignored",
			spec: SkipSpec{Search: []string{""}},
			want: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skips, warnings, err := resolveSkips(doc, tt.spec)
			if err != nil {
				t.Fatalf("resolveSkips failed: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("Unexpected warnings: %v", warnings)
			}
			if !reflect.DeepEqual(skips, tt.want) {
				t.Errorf("skips = %v, want %v", skips, tt.want)
			}
		})
	}
}

func TestSkipSpecEmpty(t *testing.T) {
	if !(SkipSpec{}).Empty() {
		t.Error("Zero spec should be empty")
	}
	if (SkipSpec{Pages: []int{1}}).Empty() {
		t.Error("Spec with pages should not be empty")
	}
	if (SkipSpec{Search: []string{"x"}}).Empty() {
		t.Error("Spec with search terms should not be empty")
	}
}

func TestKeptPages(t *testing.T) {
	got := keptPages(5, []int{2, 4})
	if !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Errorf("keptPages = %v, want [1 3 5]", got)
	}

	got = keptPages(3, nil)
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("keptPages with no skips = %v, want [1 2 3]", got)
	}

	got = keptPages(2, []int{1, 2})
	if len(got) != 0 {
		t.Errorf("keptPages with everything skipped = %v, want empty", got)
	}
}

func TestAlignPages(t *testing.T) {
	tests := []struct {
		name         string
		keptA, keptB []int
		want         []pagePair
	}{
		{
			name:  "equal lengths",
			keptA: []int{1, 2},
			keptB: []int{1, 2},
			want:  []pagePair{{1, 1}, {2, 2}},
		},
		{
			name:  "skip shifts later pages",
			keptA: []int{1, 3},
			keptB: []int{1, 2, 3},
			want:  []pagePair{{1, 1}, {3, 2}, {0, 3}},
		},
		{
			name:  "candidate shorter",
			keptA: []int{1, 2, 3},
			keptB: []int{1},
			want:  []pagePair{{1, 1}, {2, 0}, {3, 0}},
		},
		{
			name:  "both empty",
			keptA: nil,
			keptB: nil,
			want:  []pagePair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignPages(tt.keptA, tt.keptB)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("alignPages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatWarnings(t *testing.T) {
	if FormatWarnings(nil) != "" {
		t.Error("No warnings should format to empty string")
	}

	got := FormatWarnings([]Warning{
		{Doc: "reference", Page: 9, Message: "skip page out of range, document has 3 pages"},
		{Doc: "candidate", Message: "no pages matched search terms"},
	})
	want := "warning: reference page 9: skip page out of range, document has 3 pages\n" +
		"warning: candidate: no pages matched search terms"
	if got != want {
		t.Errorf("FormatWarnings =\n%q\nwant\n%q", got, want)
	}
}
