package output

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	rerunStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("10"))
)

// TextFormatter formats reports as a human-readable table.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "gachalog: %d records, %d characters, %d reruns\n",
		report.Summary.Records,
		report.Summary.Characters,
		report.Summary.Reruns)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== gachalog Extraction Report ===")
	fmt.Fprintln(w)

	if len(report.Records) == 0 {
		fmt.Fprintln(w, "No banner records found")
	} else {
		rows := make([][]string, len(report.Records))
		for i := range report.Records {
			rows[i] = recordRow(&report.Records[i])
		}
		fmt.Fprintln(w, RenderTable(banner.Columns, rows, f.opts))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d records from %d report(s), %d characters, %d reruns\n",
		report.Summary.Records,
		report.Summary.Reports,
		report.Summary.Characters,
		report.Summary.Reruns)

	if f.opts.Verbose {
		for _, src := range report.Metadata.Sources {
			fmt.Fprintf(w, "Source: %s\n", src)
		}
		fmt.Fprintf(w, "Marker: %s\n", report.Metadata.Marker)
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))
	}

	return nil
}

func recordRow(r *banner.Record) []string {
	interval := "-"
	if r.RerunInterval != nil {
		interval = strconv.Itoa(*r.RerunInterval)
	}
	return []string{
		r.Version.String(),
		string(r.Phase),
		r.Character,
		strconv.Itoa(r.WishCount),
		strconv.Itoa(r.DaysSinceLaunch),
		strconv.Itoa(r.MajorVersion),
		interval,
		strconv.Itoa(r.RerunCount),
	}
}

// RenderTable draws rows under headers. Rows whose RerunInterval column
// holds a value are highlighted unless opts.Plain is set.
func RenderTable(headers []string, rows [][]string, opts FormatOptions) string {
	intervalCol := -1
	for i, h := range headers {
		if h == "RerunInterval" {
			intervalCol = i
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if opts.Plain {
				return cellStyle
			}
			if row == table.HeaderRow {
				return headerStyle
			}
			if intervalCol >= 0 && row >= 0 && row < len(rows) && rows[row][intervalCol] != "-" {
				return rerunStyle
			}
			return cellStyle
		})

	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}

	return t.String()
}
