package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, csv).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds run metadata.
	Verbose bool

	// Quiet reduces output to the summary.
	Quiet bool

	// Plain disables styling, for output that is not a terminal.
	Plain bool

	// Width caps the text table width; zero means unbounded.
	Width int
}

// New returns the formatter registered under name.
func New(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text", "":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "csv":
		return NewCSVFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json, or csv)", name)
	}
}
