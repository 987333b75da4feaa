// Package pagediff provides a fluent API for visually comparing two
// rendered documents page by page. Each aligned page pair is rasterized,
// diffed perceptually, and reported with a deviation percentage, the
// changed regions, and an overlay image with the differences highlighted
// in red.
//
// Basic usage:
//
//	summary, warnings, err := pagediff.Compare("v1.pdf", "v2.pdf").Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pagediff.FormatWarnings(warnings))
//	}
//
// With options:
//
//	summary, _, err := pagediff.Compare("v1.pdf", "v2.pdf").
//	    Zoom(3.0).
//	    Sensitivity(20).
//	    SkipText("CONFIDENTIAL").
//	    Run(ctx)
//
// For advanced use cases, the lower-level compare, diff, and raster
// packages are also available.
package pagediff

// Compare opens two document files for fluent configuration. The
// reference document is the baseline; the candidate is the revision
// being checked against it. Files are read when a terminal operation
// such as Run is called, so errors surface there.
//
// Example:
//
//	summary, warnings, err := pagediff.Compare("old.pdf", "new.pdf").Run(ctx)
func Compare(referencePath, candidatePath string) *Comparison {
	return &Comparison{
		refPath:  referencePath,
		candPath: candidatePath,
		options:  defaultOptions(),
	}
}

// CompareBytes is Compare for documents already held in memory.
func CompareBytes(reference, candidate []byte) *Comparison {
	return &Comparison{
		refData:  reference,
		candData: candidate,
		options:  defaultOptions(),
	}
}

// FromDocuments creates a Comparison over documents that are already
// open, bypassing the rasterizer. This is how pre-rendered page sets
// (for example raster.Static) are compared.
func FromDocuments(reference, candidate Document) *Comparison {
	return &Comparison{
		refDoc:  reference,
		candDoc: candidate,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustRun wraps a terminal operation returning (T, []Warning, error),
// panicking on error and discarding warnings.
//
// Example:
//
//	summary := pagediff.MustRun(pagediff.Compare("a.pdf", "b.pdf").Run(ctx))
func MustRun[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
