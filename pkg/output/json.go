package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

// JSONFormatter writes the report as an indented JSON document. The
// Records array is always present, empty when nothing was extracted.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns "json".
func (f *JSONFormatter) Name() string {
	return "json"
}

type jsonDocument struct {
	Summary  Summary
	Records  []banner.Record
	Metadata jsonMetadata
}

type jsonMetadata struct {
	Metadata
	DurationMs int64
}

// Format writes the summary alone in quiet mode, otherwise the whole table.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if f.opts.Quiet {
		return enc.Encode(report.Summary)
	}

	records := report.Records
	if records == nil {
		records = []banner.Record{}
	}
	return enc.Encode(jsonDocument{
		Summary: report.Summary,
		Records: records,
		Metadata: jsonMetadata{
			Metadata:   report.Metadata,
			DurationMs: report.Metadata.Duration.Milliseconds(),
		},
	})
}
