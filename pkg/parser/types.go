// Package parser extracts banner records from gacha statistics reports.
package parser

import (
	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// DefaultMarker is the word that ends every character-name line.
const DefaultMarker = "Summoned"

// match is the outcome of trying one line layout at a cursor position.
// A zero match means the layout did not apply.
type match struct {
	// ok is true when the layout recognized the line(s).
	ok bool

	// record is the emitted record, if the layout produces one.
	record *banner.Record

	// consumed is how many lines the cursor advances past.
	consumed int
}

func noMatch() match {
	return match{}
}

func matched(record *banner.Record, consumed int) match {
	return match{ok: true, record: record, consumed: consumed}
}

// section is the state carried forward across lines within one parse.
type section struct {
	version timeline.VersionLabel
	phase   banner.Phase
	started bool
}

// lineMatcher tries to recognize a layout starting at lines[i].
type lineMatcher func(p *Parser, sec *section, lines []string, i int) match
