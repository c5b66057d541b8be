package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/stats"
	"github.com/ccollicutt/gachalog/pkg/store"
)

// StatsOptions holds options for the stats command.
type StatsOptions struct {
	Output  string
	ZScores bool
}

// statsReport is the JSON rendering of the stats command.
type statsReport struct {
	Majors    []stats.MajorVersionStats `json:"majors"`
	Intervals []stats.IntervalStats     `json:"intervals"`
	Scored    []stats.Scored            `json:"scored,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats <table>",
		Short: "Summarize a saved banner table per major version",
		Long: `Summarize a table saved by 'gachalog extract' per major version.

Prints WishCount mean and sample standard deviation per major version,
and the mean rerun interval per major version. First appearances have no
rerun interval and are left out of the interval mean.

The table format is chosen by extension: .csv, or .db/.sqlite/.sqlite3.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.ZScores, "zscores", false, "Also show each banner's WishCount z-score within its major version")

	return cmd
}

func runStats(cmd *cobra.Command, path string, opts *StatsOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	records, err := store.LoadTable(ctx, path)
	if err != nil {
		return err
	}

	report := statsReport{
		Majors:    stats.ByMajorVersion(records),
		Intervals: stats.IntervalsByMajorVersion(records),
	}
	if opts.ZScores {
		report.Scored = stats.ZScores(records)
	}

	if len(records) == 0 {
		ExitCode = 1
	} else {
		ExitCode = 0
	}

	w := cmd.OutOrStdout()
	if opts.Output == "json" {
		return writeJSON(w, report)
	}
	printStats(w, path, len(records), report)
	return nil
}

func printStats(w io.Writer, path string, n int, report statsReport) {
	fo := formatOptionsFor(w, output.FormatOptions{})

	fmt.Fprintf(w, "=== %s: %d records ===\n\n", path, n)

	rows := make([][]string, len(report.Majors))
	for i, s := range report.Majors {
		sd := "-"
		if s.StdDev != nil {
			sd = formatFloat(*s.StdDev)
		}
		rows[i] = []string{strconv.Itoa(s.MajorVersion), strconv.Itoa(s.Count), formatFloat(s.Mean), sd}
	}
	fmt.Fprintln(w, "WishCount by major version")
	fmt.Fprintln(w, output.RenderTable([]string{"MajorVersion", "Banners", "Mean", "StdDev"}, rows, fo))
	fmt.Fprintln(w)

	rows = make([][]string, len(report.Intervals))
	for i, s := range report.Intervals {
		rows[i] = []string{strconv.Itoa(s.MajorVersion), strconv.Itoa(s.Reruns), formatFloat(s.MeanInterval)}
	}
	fmt.Fprintln(w, "Rerun interval by major version")
	if len(rows) == 0 {
		fmt.Fprintln(w, "No reruns")
	} else {
		fmt.Fprintln(w, output.RenderTable([]string{"MajorVersion", "Reruns", "MeanInterval"}, rows, fo))
	}

	if len(report.Scored) == 0 {
		return
	}

	fmt.Fprintln(w)
	rows = make([][]string, len(report.Scored))
	for i, s := range report.Scored {
		z := "-"
		if s.ZScore != nil {
			z = strconv.FormatFloat(*s.ZScore, 'f', 2, 64)
		}
		rows[i] = []string{s.Version.String(), string(s.Phase), s.Character, strconv.Itoa(s.WishCount), z}
	}
	fmt.Fprintln(w, "WishCount z-score within major version")
	fmt.Fprintln(w, output.RenderTable([]string{"Version", "Phase", "Character", "WishCount", "ZScore"}, rows, fo))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
