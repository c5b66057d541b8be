// Package timeline maps game version labels onto an absolute day axis.
package timeline

import (
	"fmt"
	"strconv"
	"strings"
)

// VersionLabel is a major.minor release identifier.
type VersionLabel struct {
	Major int
	Minor int
}

// String renders the label as "major.minor".
func (v VersionLabel) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Less reports whether v comes before other in release order.
func (v VersionLabel) Less(other VersionLabel) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

// IsZero returns true for the unset label.
func (v VersionLabel) IsZero() bool {
	return v == VersionLabel{}
}

// MarshalText renders the label for JSON and other text encoders.
func (v VersionLabel) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a "major.minor" label.
func (v *VersionLabel) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVersion parses a label such as "5.2".
func ParseVersion(s string) (VersionLabel, error) {
	majorStr, minorStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return VersionLabel{}, fmt.Errorf("invalid version label %q: missing '.'", s)
	}

	major, err := strconv.Atoi(majorStr)
	if err != nil || major < 0 {
		return VersionLabel{}, fmt.Errorf("invalid major version in %q", s)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil || minor < 0 {
		return VersionLabel{}, fmt.Errorf("invalid minor version in %q", s)
	}

	return VersionLabel{Major: major, Minor: minor}, nil
}
