package output

import (
	"context"
	"io"

	"github.com/ccollicutt/gachalog/pkg/store"
)

// CSVFormatter writes the table in the persisted CSV layout.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format writes the records as CSV. Summary and metadata are not part of the table.
func (f *CSVFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	return store.WriteCSV(w, report.Records)
}
