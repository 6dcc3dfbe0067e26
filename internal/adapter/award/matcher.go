package award

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"inspire/internal/domain"
)

// DefaultFuzzyThreshold is the minimum similarity ratio for an approximate
// award match. Treat it as a tuning default, not a fixed requirement.
const DefaultFuzzyThreshold = 0.70

// Matcher decides whether a passage's award labels satisfy a query's
// requested award, using exact and approximate string comparison.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher with the given fuzzy threshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultFuzzyThreshold
	}
	return &Matcher{threshold: threshold}
}

// Match reports whether any of the passage's awards satisfies the query.
// A query without a requested award matches trivially with an empty label.
// Exact matches win over fuzzy ones; among fuzzy matches the highest-scoring
// award label is reported.
func (m *Matcher) Match(query domain.Query, awards []string) (bool, string) {
	if !query.HasAward() {
		return true, ""
	}

	want := Normalize(query.Award)
	if want == "" {
		return true, ""
	}

	bestLabel := ""
	bestScore := 0.0

	for _, label := range awards {
		got := Normalize(label)
		if got == "" {
			continue
		}
		if got == want {
			return true, label
		}
		if s := Similarity(want, got); s >= m.threshold && s > bestScore {
			bestScore = s
			bestLabel = label
		}
	}

	if bestLabel != "" {
		return true, bestLabel
	}
	return false, ""
}

// Normalize lowercases a label and collapses internal whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Similarity scores two normalized award labels on a 0..1 scale. It takes
// the better of an edit-distance ratio (absorbs typos and abbreviations)
// and a token-overlap coefficient (absorbs missing trailing words, e.g.
// "best overall" vs "best overall project").
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	edit := editRatio(a, b)
	overlap := tokenOverlap(a, b)
	if overlap > edit {
		return overlap
	}
	return edit
}

func editRatio(a, b string) float64 {
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// tokenOverlap is |A ∩ B| / min(|A|, |B|) over whitespace-separated tokens.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}

	shared := 0
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			shared++
		}
	}

	smallest := len(set)
	if len(seen) < smallest {
		smallest = len(seen)
	}
	return float64(shared) / float64(smallest)
}
