package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagediff"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference.pdf> <candidate.pdf>",
		Short: "Compare two documents page by page",
		Long: `Compare renders both documents, aligns their pages, and reports the
visual deviation of each aligned pair. Pages present in only one
document are compared against a blank page.

Examples:
  # Plain comparison
  pagediff compare old.pdf new.pdf

  # Write overlay images for differing pages
  pagediff compare --out overlays/ old.pdf new.pdf

  # Ignore a timestamp box and skip cover pages
  pagediff compare --zone 100,40,400,80 --skip-pages 1 old.pdf new.pdf

  # Skip pages containing a watermark, however it is capitalized
  pagediff compare --skip-text DRAFT old.pdf new.pdf

  # Load zones and skip rules from a YAML file
  pagediff compare --config compare.yaml old.pdf new.pdf`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().Float64P("zoom", "z", 0, "Rendering resolution in pixels per document unit (default 2.0)")
	cmd.Flags().Float64P("sensitivity", "s", 0, "Difference threshold on the 0-255 scale (default 30)")
	cmd.Flags().IntP("min-area", "a", 0, "Minimum region area in pixels (default 10)")
	cmd.Flags().StringArray("zone", nil, "Exclusion zone as x1,y1,x2,y2 in rendered pixels (repeatable)")
	cmd.Flags().IntSlice("skip-pages", nil, "1-based pages to skip in both documents")
	cmd.Flags().IntSlice("skip-ref-pages", nil, "1-based pages to skip in the reference only")
	cmd.Flags().IntSlice("skip-cand-pages", nil, "1-based pages to skip in the candidate only")
	cmd.Flags().StringArray("skip-text", nil, "Skip pages whose text contains this substring (repeatable)")
	cmd.Flags().Bool("case-sensitive", false, "Match --skip-text exactly instead of case-folded")
	cmd.Flags().Bool("coarse", false, "Report one bounding region per page instead of per change")
	cmd.Flags().IntP("parallel", "p", 0, "Max page pairs compared concurrently (default GOMAXPROCS)")
	cmd.Flags().StringP("config", "c", "", "YAML configuration file")
	cmd.Flags().StringP("out", "o", "", "Directory to write overlay PNGs for differing pages")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	logger := setupLogger(verbose)

	comparison := pagediff.Compare(args[0], args[1])

	// Config file first, then flags on top so flags win.
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		cfg, err := loadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		comparison = cfg.apply(comparison)
		logger.Debug("loaded configuration", "path", configPath)
	}

	comparison, err = applyFlags(cmd, comparison)
	if err != nil {
		return err
	}

	summary, warnings, err := comparison.Run(cmd.Context())
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w.String())
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir != "" {
		if err := writeOverlays(outDir, summary, logger); err != nil {
			return err
		}
	}

	printSummary(cmd, summary)

	for _, r := range summary.Results {
		if len(r.Regions) > 0 {
			return errDifferencesFound
		}
	}
	return nil
}

// applyFlags layers explicitly set flags onto the comparison builder.
func applyFlags(cmd *cobra.Command, c *pagediff.Comparison) (*pagediff.Comparison, error) {
	flags := cmd.Flags()

	if flags.Changed("zoom") {
		zoom, _ := flags.GetFloat64("zoom")
		if zoom <= 0 {
			return nil, fmt.Errorf("--zoom must be positive, got %v", zoom)
		}
		c = c.Zoom(zoom)
	}
	if flags.Changed("sensitivity") {
		s, _ := flags.GetFloat64("sensitivity")
		if s < 0 {
			return nil, fmt.Errorf("--sensitivity must not be negative, got %v", s)
		}
		c = c.Sensitivity(s)
	}
	if flags.Changed("min-area") {
		a, _ := flags.GetInt("min-area")
		if a < 0 {
			return nil, fmt.Errorf("--min-area must not be negative, got %d", a)
		}
		c = c.MinArea(a)
	}
	if specs, _ := flags.GetStringArray("zone"); len(specs) > 0 {
		zones, err := parseZones(specs)
		if err != nil {
			return nil, err
		}
		c = c.Zones(zones...)
	}
	if pages, _ := flags.GetIntSlice("skip-pages"); len(pages) > 0 {
		c = c.SkipPages(pages...)
	}
	if pages, _ := flags.GetIntSlice("skip-ref-pages"); len(pages) > 0 {
		c = c.SkipReferencePages(pages...)
	}
	if pages, _ := flags.GetIntSlice("skip-cand-pages"); len(pages) > 0 {
		c = c.SkipCandidatePages(pages...)
	}
	if terms, _ := flags.GetStringArray("skip-text"); len(terms) > 0 {
		c = c.SkipText(terms...)
	}
	if sensitive, _ := flags.GetBool("case-sensitive"); sensitive {
		c = c.CaseSensitiveSearch()
	}
	if coarse, _ := flags.GetBool("coarse"); coarse {
		c = c.CoarseRegions()
	}
	if workers, _ := flags.GetInt("parallel"); workers > 0 {
		c = c.Parallel(workers)
	}
	return c, nil
}

// parseZones parses repeated "x1,y1,x2,y2" zone flags.
func parseZones(specs []string) ([]pagediff.Zone, error) {
	zones := make([]pagediff.Zone, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ",")
		if len(parts) != 4 {
			return nil, fmt.Errorf("--zone %q: want x1,y1,x2,y2", spec)
		}
		var coords [4]int
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("--zone %q: %w", spec, err)
			}
			coords[i] = n
		}
		zone, err := pagediff.NewZone(coords[0], coords[1], coords[2], coords[3])
		if err != nil {
			return nil, fmt.Errorf("--zone %q: %w", spec, err)
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// writeOverlays saves an overlay PNG for every differing page pair.
func writeOverlays(dir string, summary *pagediff.Summary, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating overlay directory: %w", err)
	}
	for i, r := range summary.Results {
		if len(r.Regions) == 0 || r.Overlay == nil {
			continue
		}
		name := fmt.Sprintf("pair_%03d_%s_vs_%s.png", i+1, pageLabel(r.PageA), pageLabel(r.PageB))
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := png.Encode(f, r.Overlay); err != nil {
			f.Close()
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("wrote overlay", "path", path, "deviation", r.Deviation)
	}
	return nil
}

// printSummary writes the per-pair report and totals to stdout.
func printSummary(cmd *cobra.Command, summary *pagediff.Summary) {
	out := cmd.OutOrStdout()
	differing := 0
	for _, r := range summary.Results {
		label := fmt.Sprintf("page %s/%s", pageLabel(r.PageA), pageLabel(r.PageB))
		if len(r.Regions) == 0 {
			fmt.Fprintf(out, "%s: identical (%.2f%%)\n", label, r.Deviation)
			continue
		}
		differing++
		fmt.Fprintf(out, "%s: differs %.2f%% (%s), %d region(s)\n",
			label, r.Deviation, classify(r.Deviation), len(r.Regions))
	}
	fmt.Fprintf(out, "compared %d page pair(s): %d identical, %d differing, average deviation %.2f%%\n",
		len(summary.Results),
		len(summary.Results)-differing,
		differing,
		summary.AverageDeviation)
}

// classify maps a deviation percentage to a severity label.
func classify(deviation float64) string {
	switch {
	case deviation < pagediff.IdenticalCutoff:
		return "slight"
	case deviation < 5.0:
		return "minor"
	case deviation < 15.0:
		return "moderate"
	default:
		return "major"
	}
}

// pageLabel formats a 1-based page number, with "-" for the blank
// placeholder side of an unmatched pair.
func pageLabel(page int) string {
	if page == 0 {
		return "-"
	}
	return strconv.Itoa(page)
}

// setupLogger builds the CLI logger. Verbose mode enables debug output;
// otherwise only warnings and errors are shown.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
