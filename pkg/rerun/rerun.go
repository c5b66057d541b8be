// Package rerun computes how long each character waited between banners.
package rerun

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

// BannerRunDays is the assumed length of a single banner.
const BannerRunDays = 21

// Calculator fills in RerunInterval and RerunCount.
type Calculator struct {
	logger *zap.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLogger reports clamped intervals at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute is shorthand for New().Compute(records).
func Compute(records []banner.Record) []banner.Record {
	return New().Compute(records)
}

// appearance tracks the previous banner of one character.
type appearance struct {
	lastDay int
	count   int
}

// Compute returns a copy of records sorted by DaysSinceLaunch (ties keep
// input order) with rerun fields filled in. The first appearance of a
// character in the dataset has no interval, even if the character was
// released before the data begins. Overlapping banners clamp to 0.
func (c *Calculator) Compute(records []banner.Record) []banner.Record {
	out := make([]banner.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysSinceLaunch < out[j].DaysSinceLaunch
	})

	seen := make(map[string]*appearance)

	for i := range out {
		r := &out[i]

		prev, ok := seen[r.Character]
		if !ok {
			r.RerunInterval = nil
			r.RerunCount = 0
			seen[r.Character] = &appearance{lastDay: r.DaysSinceLaunch, count: 1}
			continue
		}

		interval := r.DaysSinceLaunch - (prev.lastDay + BannerRunDays)
		if interval < 0 {
			c.logger.Debug("clamping negative rerun interval",
				zap.String("character", r.Character),
				zap.Int("interval", interval),
				zap.Int("day", r.DaysSinceLaunch))
			interval = 0
		}

		r.RerunInterval = &interval
		prev.count++
		r.RerunCount = prev.count - 1
		prev.lastDay = r.DaysSinceLaunch
	}

	return out
}
