package rerun

import (
	"sort"

	"github.com/ccollicutt/gachalog/pkg/banner"
)

// History is one character's appearances in time order.
type History struct {
	Character   string
	Appearances []banner.Record
}

// Reruns returns the number of appearances after the first.
func (h *History) Reruns() int {
	if len(h.Appearances) == 0 {
		return 0
	}
	return len(h.Appearances) - 1
}

// LongestWait returns the largest rerun interval, and false if the
// character never reran.
func (h *History) LongestWait() (int, bool) {
	longest, found := 0, false
	for _, a := range h.Appearances {
		if a.RerunInterval != nil && (!found || *a.RerunInterval > longest) {
			longest, found = *a.RerunInterval, true
		}
	}
	return longest, found
}

// Histories computes reruns and groups the result by character, sorted by name.
func Histories(records []banner.Record) []History {
	computed := Compute(records)

	index := make(map[string]int)
	var histories []History

	for _, r := range computed {
		i, ok := index[r.Character]
		if !ok {
			i = len(histories)
			index[r.Character] = i
			histories = append(histories, History{Character: r.Character})
		}
		histories[i].Appearances = append(histories[i].Appearances, r)
	}

	sort.Slice(histories, func(i, j int) bool {
		return histories[i].Character < histories[j].Character
	})

	return histories
}

// Find returns the history for character, or nil if it never appears.
func Find(histories []History, character string) *History {
	for i := range histories {
		if histories[i].Character == character {
			return &histories[i]
		}
	}
	return nil
}
