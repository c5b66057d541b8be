package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/detector"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Marker  string
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <report>",
		Short: "Check how a wish stats report will be parsed",
		Long: `Check how a wish stats report will be parsed.

This command classifies every line of the report by layout and reports:
- Version headers, and versions missing from the timeline
- Count lines, name lines and single-line records
- Candidate records the parser would drop
- Lines that match no known layout

The report is only read. Parsing behavior is not changed.

Example:
  gachalog diagnose wish_stats.txt
  gachalog diagnose -v wish_stats.txt  # verbose output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Marker, "marker", "", "Word that ends character name lines (default \"Summoned\")")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, path string, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	results := []DiagnosticResult{}

	result := checkReportExists(path)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		ExitCode = 1
		return nil
	}

	d := detector.New(detector.WithMarker(opts.Marker))
	detection, err := d.DetectFromFile(ctx, path)
	if err != nil {
		return fmt.Errorf("reading report: %w", err)
	}

	results = append(results, checkHeaders(detection))
	results = append(results, checkLayouts(detection))
	results = append(results, checkRecords(detection))
	if r, ok := checkUnrecognized(detection); ok {
		results = append(results, r)
	}

	printDiagnostics(w, results, opts)

	ExitCode = 0
	for _, r := range results {
		if r.Status == "error" {
			ExitCode = 1
		}
	}
	return nil
}

func checkReportExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Report File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Report not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access report: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Pass a single report file, or use 'gachalog extract' with a glob"}
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Report is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkHeaders(d *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Version Headers",
	}

	n := d.Count(detector.LayoutHeader)
	if n == 0 {
		result.Status = "error"
		result.Message = "No version headers found"
		result.Suggests = []string{
			"Each section must start with a line such as \"5.2 A\"",
			"Lines before the first header are ignored",
		}
		return result
	}

	if len(d.UnknownVersions) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d header(s), %d version(s) not on the timeline", n, len(d.UnknownVersions))
		result.Details = d.UnknownVersions
		result.Suggests = []string{
			"Banners under these versions are placed at day 0 plus the phase offset",
			"Run 'gachalog timeline' to list known versions",
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d header(s), all versions on the timeline", n)
	return result
}

func checkLayouts(d *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check:   "Line Layouts",
		Status:  "ok",
		Message: fmt.Sprintf("%d lines, %d blank", d.TotalLines, d.BlankLines),
	}

	for _, m := range d.Matches {
		result.Details = append(result.Details,
			fmt.Sprintf("%-12s %5d  e.g. %q", m.Layout.Name, m.Count, truncate(m.SampleLine, 60)))
	}

	return result
}

func checkRecords(d *detector.DetectionResult) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Records",
	}

	switch {
	case d.Candidates == 0:
		result.Status = "error"
		result.Message = "No count lines found, nothing to extract"
		result.Suggests = []string{
			"Counts look like \"109,105\" on their own line, or \"13,980 Name Summoned\"",
			"Use --marker if name lines end with a different word",
		}
	case d.Dropped() > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d of %d candidate(s) extracted, %d dropped", d.Extracted, d.Candidates, d.Dropped())
		result.Suggests = []string{
			"A count line is dropped when the next non-blank line is not a name line",
			"Counts before the first version header are dropped",
		}
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("%d record(s) extracted", d.Extracted)
	}

	return result
}

func checkUnrecognized(d *detector.DetectionResult) (DiagnosticResult, bool) {
	n := d.UnrecognizedCount()
	if n == 0 {
		return DiagnosticResult{}, false
	}

	result := DiagnosticResult{
		Check:   "Unrecognized Lines",
		Status:  "warning",
		Message: fmt.Sprintf("%d line(s) match no known layout and are ignored", n),
	}
	for _, line := range d.Unrecognized {
		result.Details = append(result.Details, truncate(line, 80))
	}
	return result, true
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== gachalog Report Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before extracting.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nReport is usable but some lines will be skipped.")
	} else {
		fmt.Fprintln(w, "\nReport looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
