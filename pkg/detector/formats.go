package detector

import "regexp"

// Layout names.
const (
	LayoutHeader  = "header"
	LayoutMixed   = "mixed"
	LayoutCount   = "count"
	LayoutName    = "name"
	LayoutOdds    = "odds"
	LayoutUnknown = "unrecognized"
)

// LineLayout is a line shape that can appear in a wish stats report.
type LineLayout struct {
	Name        string         // Layout name
	Pattern     *regexp.Regexp // Compiled regex (set during init)
	PatternStr  string         // Pattern string for diagnostics output
	Description string         // Human-readable description
	Example     string         // Example line
	Candidate   bool           // True if the line starts a banner record
}

// DefaultLayouts returns the known report line layouts for the given
// marker word. Layouts are ordered by specificity; a line is assigned to
// the first layout it matches.
func DefaultLayouts(marker string) []*LineLayout {
	m := regexp.QuoteMeta(marker)
	layouts := []*LineLayout{
		{
			Name:        LayoutHeader,
			PatternStr:  `^(\d+\.\d+)\s+([ABC])`,
			Description: "version and phase header",
			Example:     "5.2 A",
		},
		{
			Name:        LayoutMixed,
			PatternStr:  `^\d{1,3}(?:,\d{3})*\s+.+\s+` + m + `$`,
			Description: "count and name on one line",
			Example:     "13,980 Kaedehara Kazuha " + marker,
			Candidate:   true,
		},
		{
			Name:        LayoutCount,
			PatternStr:  `^\d{1,3}(?:,\d{3})*\s*$`,
			Description: "count line, name expected on the next non-blank line",
			Example:     "109,105",
			Candidate:   true,
		},
		{
			Name:        LayoutName,
			PatternStr:  `^.+\s+` + m + `$`,
			Description: "character name line",
			Example:     "Chasca " + marker,
		},
		{
			Name:        LayoutOdds,
			PatternStr:  `^\d+(?:\.\d+)?%\s+won\s+50:50$`,
			Description: "50:50 win rate, ignored",
			Example:     "54.23% won 50:50",
		},
	}

	for _, l := range layouts {
		l.Pattern = regexp.MustCompile(l.PatternStr)
	}

	return layouts
}
