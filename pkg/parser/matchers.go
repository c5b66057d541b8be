package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// countExpr matches a thousands-grouped integer such as "109,105".
const countExpr = `(\d{1,3}(?:,\d{3})*)`

// headerPattern matches a section header such as "5.2 A".
var headerPattern = regexp.MustCompile(`^(\d+\.\d+)\s+([ABC])`)

// countPattern matches a line holding only a wish count.
var countPattern = regexp.MustCompile(`^` + countExpr + `\s*$`)

// layoutPatterns holds the marker-dependent patterns.
type layoutPatterns struct {
	name  *regexp.Regexp // "Chasca Summoned"
	mixed *regexp.Regexp // "13,980 Kaedehara Kazuha Summoned"
}

func compileLayouts(marker string) layoutPatterns {
	m := regexp.QuoteMeta(marker)
	return layoutPatterns{
		name:  regexp.MustCompile(`^(.+)\s+` + m + `$`),
		mixed: regexp.MustCompile(`^` + countExpr + `\s+(.+)\s+` + m + `$`),
	}
}

// defaultMatchers lists the layouts in priority order.
var defaultMatchers = []lineMatcher{
	matchHeader,
	skipBeforeFirstHeader,
	matchMixed,
	matchTwoLine,
}

// matchHeader updates the current section on a version header line.
func matchHeader(_ *Parser, sec *section, lines []string, i int) match {
	groups := headerPattern.FindStringSubmatch(lines[i])
	if groups == nil {
		return noMatch()
	}

	version, err := timeline.ParseVersion(groups[1])
	if err != nil {
		return noMatch()
	}

	sec.version = version
	sec.phase = banner.Phase(groups[2])
	sec.started = true
	return matched(nil, 1)
}

// skipBeforeFirstHeader consumes any line seen before a section is open.
func skipBeforeFirstHeader(_ *Parser, sec *section, _ []string, _ int) match {
	if sec.started {
		return noMatch()
	}
	return matched(nil, 1)
}

// matchMixed recognizes count, name and marker on a single line.
func matchMixed(p *Parser, sec *section, lines []string, i int) match {
	groups := p.layouts.mixed.FindStringSubmatch(lines[i])
	if groups == nil {
		return noMatch()
	}

	count, ok := parseCount(groups[1])
	if !ok {
		return noMatch()
	}

	return matched(p.newRecord(sec, groups[2], count), 1)
}

// matchTwoLine recognizes a count-only line whose next non-blank line
// is a character name followed by the marker.
func matchTwoLine(p *Parser, sec *section, lines []string, i int) match {
	groups := countPattern.FindStringSubmatch(lines[i])
	if groups == nil {
		return noMatch()
	}

	j := nextNonBlank(lines, i+1)
	if j >= len(lines) {
		return noMatch()
	}

	nameGroups := p.layouts.name.FindStringSubmatch(lines[j])
	if nameGroups == nil {
		return noMatch()
	}

	count, ok := parseCount(groups[1])
	if !ok {
		return noMatch()
	}

	return matched(p.newRecord(sec, nameGroups[1], count), j+1-i)
}

// nextNonBlank returns the index of the first non-blank line at or after i,
// or len(lines) if there is none.
func nextNonBlank(lines []string, i int) int {
	for i < len(lines) && lines[i] == "" {
		i++
	}
	return i
}

// parseCount converts a thousands-grouped integer.
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
