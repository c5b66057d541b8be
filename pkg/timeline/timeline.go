package timeline

import "sort"

const (
	// DaysPerVersion is the assumed length of one update cycle.
	DaysPerVersion = 42

	// EndMajor is the first major version the timeline does not cover.
	EndMajor = 7

	// DefaultMaxMinor is the rollover point for majors missing from maxMinors.
	DefaultMaxMinor = 8
)

// maxMinors is the last minor release of each major before the next major ships.
var maxMinors = map[int]int{
	1: 6,
	2: 8,
	3: 8,
	4: 8,
	5: 8,
	6: 8,
}

// MaxMinor returns the last minor version released under major.
// Majors past the known table fall back to DefaultMaxMinor.
func MaxMinor(major int) int {
	if m, ok := maxMinors[major]; ok {
		return m
	}
	return DefaultMaxMinor
}

// Timeline is an immutable mapping from version label to days since launch.
type Timeline struct {
	days   map[VersionLabel]int
	labels []VersionLabel
}

// Build walks every version from 1.0 up to EndMajor.0, assigning each one
// DaysPerVersion more days than its predecessor.
func Build() *Timeline {
	t := &Timeline{days: make(map[VersionLabel]int)}

	major, minor, day := 1, 0, 0
	for major < EndMajor {
		label := VersionLabel{Major: major, Minor: minor}
		t.days[label] = day
		t.labels = append(t.labels, label)

		if minor >= MaxMinor(major) {
			major, minor = major+1, 0
		} else {
			minor++
		}
		day += DaysPerVersion
	}

	return t
}

// Days returns the offset for a version, and false if the timeline does not cover it.
func (t *Timeline) Days(v VersionLabel) (int, bool) {
	d, ok := t.days[v]
	return d, ok
}

// Labels returns all covered versions in release order.
func (t *Timeline) Labels() []VersionLabel {
	out := make([]VersionLabel, len(t.labels))
	copy(out, t.labels)
	return out
}

// Len returns the number of covered versions.
func (t *Timeline) Len() int {
	return len(t.labels)
}

// Next returns the version released after v, if the timeline covers both.
func (t *Timeline) Next(v VersionLabel) (VersionLabel, bool) {
	i := sort.Search(len(t.labels), func(i int) bool {
		return !t.labels[i].Less(v)
	})
	if i >= len(t.labels) || t.labels[i] != v || i+1 >= len(t.labels) {
		return VersionLabel{}, false
	}
	return t.labels[i+1], true
}
