// Package main provides the entry point for the pagediff CLI.
//
// pagediff compares two rendered documents page by page and reports
// visual differences: a deviation percentage per page pair, the changed
// regions, and optional overlay images with differences highlighted.
//
// Usage:
//
//	pagediff compare reference.pdf candidate.pdf
//	pagediff compare --out overlays/ reference.pdf candidate.pdf
//
// See --help for all available options.
package main

// main is the entry point for pagediff.
func main() {
	Execute()
}
