package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/rerun"
	"github.com/ccollicutt/gachalog/pkg/store"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	sourceOptions

	Table  string
	Output string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history <character> [report...]",
		Short: "Show one character's banner appearances",
		Long: `Show every banner appearance of a character in time order, with the
rerun interval before each rerun.

Records come from the given reports, the config file, or a table saved
by 'gachalog extract --db' or '--output csv' (--table).

Example:
  gachalog history Venti wish_stats.txt
  gachalog history "Kaedehara Kazuha" --table banners.db`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.Marker, "marker", "", "Word that ends character name lines (default \"Summoned\")")
	cmd.Flags().StringVar(&opts.Table, "table", "", "Read a saved table (.csv, .db, .sqlite) instead of reports")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	return cmd
}

func runHistory(cmd *cobra.Command, character string, reports []string, opts *HistoryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	records, err := loadHistoryRecords(ctx, reports, opts)
	if err != nil {
		return err
	}

	h := rerun.Find(rerun.Histories(records), character)
	w := cmd.OutOrStdout()

	if h == nil {
		ExitCode = 1
		if opts.Output == "json" {
			return writeJSON(w, rerun.History{Character: character, Appearances: []banner.Record{}})
		}
		fmt.Fprintf(w, "No appearances found for %s\n", character)
		return nil
	}

	ExitCode = 0
	if opts.Output == "json" {
		return writeJSON(w, h)
	}
	printHistory(w, h)
	return nil
}

func loadHistoryRecords(ctx context.Context, reports []string, opts *HistoryOptions) ([]banner.Record, error) {
	if opts.Table != "" {
		return store.LoadTable(ctx, opts.Table)
	}

	cfg, err := loadConfig(ctx, opts.sourceOptions, reports)
	if err != nil {
		return nil, err
	}
	records, _, err := extractRecords(ctx, cfg)
	return records, err
}

func printHistory(w io.Writer, h *rerun.History) {
	headers := []string{"Version", "Phase", "WishCount", "DaysSinceLaunch", "RerunInterval", "RerunCount"}
	rows := make([][]string, len(h.Appearances))
	for i, a := range h.Appearances {
		interval := "-"
		if a.RerunInterval != nil {
			interval = strconv.Itoa(*a.RerunInterval)
		}
		rows[i] = []string{
			a.Version.String(),
			string(a.Phase),
			strconv.Itoa(a.WishCount),
			strconv.Itoa(a.DaysSinceLaunch),
			interval,
			strconv.Itoa(a.RerunCount),
		}
	}

	fmt.Fprintf(w, "=== %s ===\n\n", h.Character)
	fmt.Fprintln(w, output.RenderTable(headers, rows, formatOptionsFor(w, output.FormatOptions{})))
	fmt.Fprintln(w)

	if longest, ok := h.LongestWait(); ok {
		fmt.Fprintf(w, "Appearances: %d, reruns: %d, longest wait: %d days\n", len(h.Appearances), h.Reruns(), longest)
	} else {
		fmt.Fprintf(w, "Appearances: %d, no reruns\n", len(h.Appearances))
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
