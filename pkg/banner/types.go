// Package banner defines the record produced for each character appearance on a banner.
package banner

import (
	"fmt"

	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// Phase is the slot a banner occupies within a version.
type Phase string

const (
	PhaseA Phase = "A"
	PhaseB Phase = "B"
	PhaseC Phase = "C"
)

// PhaseBOffset is how many days into a version the second half starts.
const PhaseBOffset = 21

// ParsePhase converts "A", "B" or "C" into a Phase.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseA, PhaseB, PhaseC:
		return Phase(s), nil
	default:
		return "", fmt.Errorf("invalid phase %q (must be A, B, or C)", s)
	}
}

// Offset returns the number of days after version start this phase begins.
func (p Phase) Offset() int {
	if p == PhaseB {
		return PhaseBOffset
	}
	return 0
}

// Columns are the table column names, in order.
var Columns = []string{
	"Version",
	"Phase",
	"Character",
	"WishCount",
	"DaysSinceLaunch",
	"MajorVersion",
	"RerunInterval",
	"RerunCount",
}

// Record is one character appearance on a banner.
type Record struct {
	// Version is the release the banner ran in.
	Version timeline.VersionLabel `json:"Version"`

	// Phase is the slot within the version.
	Phase Phase `json:"Phase"`

	// Character identifies the featured character.
	Character string `json:"Character"`

	// WishCount is the summon count reported for the banner.
	WishCount int `json:"WishCount"`

	// DaysSinceLaunch is the banner's start on the reconstructed day axis.
	DaysSinceLaunch int `json:"DaysSinceLaunch"`

	// MajorVersion is Version.Major, kept as its own column for grouping.
	MajorVersion int `json:"MajorVersion"`

	// RerunInterval is the gap in days since the end of the character's
	// previous banner. Nil for the first appearance in the dataset.
	RerunInterval *int `json:"RerunInterval"`

	// RerunCount is 0 for the first appearance and increments per rerun.
	RerunCount int `json:"RerunCount"`
}

// IsRerun returns true if the record follows an earlier appearance.
func (r *Record) IsRerun() bool {
	return r.RerunInterval != nil
}

// IntervalString renders RerunInterval, or "" when absent.
func (r *Record) IntervalString() string {
	if r.RerunInterval == nil {
		return ""
	}
	return fmt.Sprintf("%d", *r.RerunInterval)
}
