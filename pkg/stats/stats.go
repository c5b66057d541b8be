// Package stats summarizes banner records per major version.
package stats

import (
	"math"
	"sort"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

// MajorVersionStats describes the WishCount distribution of one major version.
type MajorVersionStats struct {
	MajorVersion int      `json:"major_version"`
	Count        int      `json:"count"`
	Mean         float64  `json:"mean"`
	StdDev       *float64 `json:"std_dev"` // sample stddev; nil with fewer than two banners
}

// IntervalStats describes the rerun intervals observed in one major version.
type IntervalStats struct {
	MajorVersion int     `json:"major_version"`
	Reruns       int     `json:"reruns"`
	MeanInterval float64 `json:"mean_interval"`
}

// Scored is a record joined with its WishCount z-score within its major version.
type Scored struct {
	banner.Record
	ZScore *float64 `json:"ZScore"`
}

// ByMajorVersion groups WishCount by MajorVersion, ordered by major.
func ByMajorVersion(records []banner.Record) []MajorVersionStats {
	groups := make(map[int][]float64)
	for _, r := range records {
		groups[r.MajorVersion] = append(groups[r.MajorVersion], float64(r.WishCount))
	}

	out := make([]MajorVersionStats, 0, len(groups))
	for major, values := range groups {
		s := MajorVersionStats{
			MajorVersion: major,
			Count:        len(values),
			Mean:         mean(values),
		}
		if sd, ok := sampleStdDev(values); ok {
			s.StdDev = &sd
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MajorVersion < out[j].MajorVersion
	})

	return out
}

// ZScores joins per-major statistics back onto each record. The z-score is
// nil when the major version has no usable standard deviation.
func ZScores(records []banner.Record) []Scored {
	byMajor := make(map[int]MajorVersionStats)
	for _, s := range ByMajorVersion(records) {
		byMajor[s.MajorVersion] = s
	}

	out := make([]Scored, len(records))
	for i, r := range records {
		out[i] = Scored{Record: r}

		s := byMajor[r.MajorVersion]
		if s.StdDev == nil || *s.StdDev == 0 {
			continue
		}
		z := (float64(r.WishCount) - s.Mean) / *s.StdDev
		out[i].ZScore = &z
	}

	return out
}

// IntervalsByMajorVersion averages RerunInterval per major version. Records
// without an interval are first appearances and are left out rather than
// counted as zero.
func IntervalsByMajorVersion(records []banner.Record) []IntervalStats {
	groups := make(map[int][]float64)
	for _, r := range records {
		if r.RerunInterval == nil {
			continue
		}
		groups[r.MajorVersion] = append(groups[r.MajorVersion], float64(*r.RerunInterval))
	}

	out := make([]IntervalStats, 0, len(groups))
	for major, values := range groups {
		out = append(out, IntervalStats{
			MajorVersion: major,
			Reruns:       len(values),
			MeanInterval: mean(values),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MajorVersion < out[j].MajorVersion
	})

	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1)), true
}
