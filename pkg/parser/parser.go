package parser

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// Parser turns report lines into banner records. A Parser holds no
// per-report state and may be reused across reports.
type Parser struct {
	timeline *timeline.Timeline
	marker   string
	layouts  layoutPatterns
	matchers []lineMatcher
	logger   *zap.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMarker sets the word that ends a character-name line.
func WithMarker(marker string) Option {
	return func(p *Parser) {
		if marker != "" {
			p.marker = marker
		}
	}
}

// WithLogger traces skipped lines at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Parser that dates records using tl.
func New(tl *timeline.Timeline, opts ...Option) *Parser {
	p := &Parser{
		timeline: tl,
		marker:   DefaultMarker,
		matchers: defaultMatchers,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.layouts = compileLayouts(p.marker)
	return p
}

// Marker returns the configured marker word.
func (p *Parser) Marker() string {
	return p.marker
}

// ParseFile reads and parses a single report. Only read failures are errors.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]banner.Record, error) {
	lines, err := ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}

	records := p.Parse(lines)
	p.logger.Debug("parsed report",
		zap.String("path", path),
		zap.Int("lines", len(lines)),
		zap.Int("records", len(records)))
	return records, nil
}

// Parse extracts records from report lines in order. Lines that fit no
// known layout are skipped.
func (p *Parser) Parse(lines []string) []banner.Record {
	normalized := make([]string, len(lines))
	for i, l := range lines {
		normalized[i] = strings.TrimSpace(l)
	}

	var sec section
	records := make([]banner.Record, 0)

	for i := 0; i < len(normalized); {
		if normalized[i] == "" {
			i++
			continue
		}

		m := p.matchAt(&sec, normalized, i)
		if !m.ok {
			p.logger.Debug("skipping unrecognized line",
				zap.Int("line", i+1),
				zap.String("text", normalized[i]))
			i++
			continue
		}

		if m.record != nil {
			records = append(records, *m.record)
		}
		i += m.consumed
	}

	return records
}

// matchAt returns the first layout that recognizes lines[i].
func (p *Parser) matchAt(sec *section, lines []string, i int) match {
	for _, fn := range p.matchers {
		if m := fn(p, sec, lines, i); m.ok {
			return m
		}
	}
	return noMatch()
}

// newRecord builds a record in the current section.
func (p *Parser) newRecord(sec *section, character string, count int) *banner.Record {
	days, _ := p.timeline.Days(sec.version)

	return &banner.Record{
		Version:         sec.version,
		Phase:           sec.phase,
		Character:       character,
		WishCount:       count,
		DaysSinceLaunch: days + sec.phase.Offset(),
		MajorVersion:    sec.version.Major,
	}
}
