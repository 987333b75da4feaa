package compare

import (
	"fmt"
	"strings"
)

// Warning reports a non-fatal problem encountered while preparing a
// comparison. Doc names the document the warning concerns ("reference"
// or "candidate"); Page is the 1-based page number involved, or 0 when
// the warning is not about a specific page.
type Warning struct {
	Doc     string
	Page    int
	Message string
}

func (w Warning) String() string {
	switch {
	case w.Doc != "" && w.Page > 0:
		return fmt.Sprintf("%s page %d: %s", w.Doc, w.Page, w.Message)
	case w.Doc != "":
		return fmt.Sprintf("%s: %s", w.Doc, w.Message)
	default:
		return w.Message
	}
}

// FormatWarnings renders warnings one per line for display. It returns
// "" when there are none.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "warning: " + w.String()
	}
	return strings.Join(lines, "\n")
}
