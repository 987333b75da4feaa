// Package compare drives page-level visual comparison of two documents.
//
// A [Comparer] renders both documents through a [raster.Document],
// filters out pages the caller asked to skip, aligns the remaining
// pages positionally, and runs each aligned pair through the diff
// engine. Pages present on only one side are compared against a blank
// placeholder so insertions and deletions surface as full-page
// differences rather than silently shifting the pairing.
//
// Skipping is declared per document with a [SkipSpec]: explicit 1-based
// page numbers, or substrings matched against each page's text (with
// Unicode case folding unless CaseSensitive is set). Skip requests that
// cannot be honored, such as a page number beyond the document, produce
// a [Warning] instead of an error.
package compare
