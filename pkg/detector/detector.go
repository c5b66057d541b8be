// Package detector classifies the lines of a wish stats report by layout
// and reports how many candidate records the parser would drop.
package detector

import (
	"context"
	"regexp"
	"sort"

	"github.com/ccollicutt/gachalog/pkg/parser"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// DetectionResult holds the result of analyzing a report.
type DetectionResult struct {
	Matches      []LayoutMatch // Layouts seen, sorted by count descending
	TotalLines   int           // Number of lines read
	BlankLines   int           // Number of blank lines
	Unrecognized []string      // Sample of lines no layout matched
	Candidates   int           // Lines that start a banner record
	Extracted    int           // Records the parser produced

	// UnknownVersions lists header versions missing from the timeline.
	// Their banners are placed at day 0 plus the phase offset.
	UnknownVersions []string
}

// LayoutMatch represents a layout with its line count.
type LayoutMatch struct {
	Layout     *LineLayout
	Count      int    // Number of lines with this layout
	SampleLine string // First line that matched
}

// Detector classifies report lines.
type Detector struct {
	layouts     []*LineLayout
	timeline    *timeline.Timeline
	parser      *parser.Parser
	sampleLimit int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleLimit sets how many unrecognized lines are kept (default 10).
func WithSampleLimit(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleLimit = n
		}
	}
}

// WithMarker sets the trailing marker word for name lines.
func WithMarker(marker string) Option {
	return func(d *Detector) {
		if marker != "" {
			d.layouts = DefaultLayouts(marker)
			d.parser = parser.New(d.timeline, parser.WithMarker(marker))
		}
	}
}

// New creates a new Detector with the default marker.
func New(opts ...Option) *Detector {
	tl := timeline.Build()
	d := &Detector{
		layouts:     DefaultLayouts(parser.DefaultMarker),
		timeline:    tl,
		parser:      parser.New(tl),
		sampleLimit: 10,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile reads a report and classifies its lines.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := parser.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines classifies already-read lines. The parser is run over
// the same lines so that dropped candidates can be counted.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		TotalLines: len(lines),
	}

	counts := make(map[string]*LayoutMatch)
	unknown := make(map[string]bool)

	for _, line := range lines {
		if line == "" {
			result.BlankLines++
			continue
		}

		layout := d.classify(line)
		if layout == nil {
			if len(result.Unrecognized) < d.sampleLimit {
				result.Unrecognized = append(result.Unrecognized, line)
			}
			continue
		}

		if counts[layout.Name] == nil {
			counts[layout.Name] = &LayoutMatch{Layout: layout, SampleLine: line}
		}
		counts[layout.Name].Count++

		if layout.Candidate {
			result.Candidates++
		}

		if layout.Name == LayoutHeader {
			label, ok := headerVersion(line)
			if ok && !d.knownVersion(label) && !unknown[label] {
				unknown[label] = true
				result.UnknownVersions = append(result.UnknownVersions, label)
			}
		}
	}

	for _, m := range counts {
		result.Matches = append(result.Matches, *m)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].Count != result.Matches[j].Count {
			return result.Matches[i].Count > result.Matches[j].Count
		}
		return result.Matches[i].Layout.Name < result.Matches[j].Layout.Name
	})

	result.Extracted = len(d.parser.Parse(lines))

	return result
}

var headerVersionPattern = regexp.MustCompile(`^(\d+\.\d+)\s+[ABC]`)

// headerVersion returns the version label of a header line.
func headerVersion(line string) (string, bool) {
	m := headerVersionPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (d *Detector) knownVersion(label string) bool {
	v, err := timeline.ParseVersion(label)
	if err != nil {
		return false
	}
	_, ok := d.timeline.Days(v)
	return ok
}

func (d *Detector) classify(line string) *LineLayout {
	for _, l := range d.layouts {
		if l.Pattern.MatchString(line) {
			return l
		}
	}
	return nil
}

// Count returns the number of lines with the named layout.
func (r *DetectionResult) Count(layout string) int {
	for _, m := range r.Matches {
		if m.Layout.Name == layout {
			return m.Count
		}
	}
	return 0
}

// Dropped returns how many candidate lines did not become records.
func (r *DetectionResult) Dropped() int {
	if r.Extracted >= r.Candidates {
		return 0
	}
	return r.Candidates - r.Extracted
}

// UnrecognizedCount returns the number of non-blank lines no layout matched.
func (r *DetectionResult) UnrecognizedCount() int {
	n := r.TotalLines - r.BlankLines
	for _, m := range r.Matches {
		n -= m.Count
	}
	return n
}

// HasHeader returns true if at least one version header was found.
func (r *DetectionResult) HasHeader() bool {
	return r.Count(LayoutHeader) > 0
}
