// Package main provides the entry point for the pagediff CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errDifferencesFound signals that the comparison ran cleanly but found
// pages that differ. It maps to exit code 1 so scripts can branch on
// "same or not" without parsing output.
var errDifferencesFound = errors.New("documents differ")

// NewRootCmd creates the root command for pagediff.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagediff",
		Short: "Page-level visual comparison of rendered documents",
		Long: `pagediff compares two rendered documents page by page and reports
visual differences. Pages are rasterized, diffed perceptually, and each
aligned pair gets a deviation percentage plus the regions that changed.

Exit codes: 0 when all compared pages are identical, 1 when differences
were found, 2 on error.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and translates its outcome into the
// documented exit codes.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, errDifferencesFound) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
