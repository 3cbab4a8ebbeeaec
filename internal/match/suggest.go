package match

import (
	"cmp"
	"slices"
)

// MinSimilarity is the score a candidate needs to be suggested.
const MinSimilarity = 0.6

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates that look like name, best first.
// Exact matches are skipped: they are not a correction.
func Suggest(name string, candidates []string, limit int) []string {
	var ranked []scored

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c == name || seen[c] {
			continue
		}

		seen[c] = true

		if s := Similarity(name, c); s >= MinSimilarity {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].name)
	}

	return out
}
