package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandGlobs expands report paths and glob patterns into a sorted,
// deduplicated list. A pattern matching nothing is kept as a literal path
// so that opening it later reports a clear file-not-found error.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var reports []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			reports = append(reports, path)
		}
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid report pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(reports)

	return reports, nil
}
