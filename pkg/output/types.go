// Package output provides formatting for extracted banner tables.
package output

import (
	"time"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

// Report is the complete extraction output.
type Report struct {
	// Summary provides aggregate counts.
	Summary Summary

	// Records is the computed table in time order.
	Records []banner.Record

	// Metadata provides context about the run.
	Metadata Metadata
}

// Summary provides aggregate counts.
type Summary struct {
	// Reports is the number of report files read.
	Reports int

	// Records is the number of banner rows extracted.
	Records int

	// Characters is the number of distinct characters.
	Characters int

	// Reruns is the number of rows that follow an earlier appearance.
	Reruns int
}

// Metadata provides context about the extraction run.
type Metadata struct {
	// Sources lists the report files that were read.
	Sources []string

	// Marker is the name-line marker word used by the parser.
	Marker string

	// ExtractedAt is when the run finished.
	ExtractedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration
}

// NewReport summarizes computed records.
func NewReport(records []banner.Record, sources []string, marker string, started time.Time) *Report {
	now := time.Now()

	characters := make(map[string]bool)
	reruns := 0
	for _, r := range records {
		characters[r.Character] = true
		if r.IsRerun() {
			reruns++
		}
	}

	return &Report{
		Records: records,
		Summary: Summary{
			Reports:    len(sources),
			Records:    len(records),
			Characters: len(characters),
			Reruns:     reruns,
		},
		Metadata: Metadata{
			Sources:     sources,
			Marker:      marker,
			ExtractedAt: now,
			Duration:    now.Sub(started),
		},
	}
}

// HasRecords returns true if anything was extracted.
func (r *Report) HasRecords() bool {
	return r.Summary.Records > 0
}
