package source

import (
	"regexp"
	"sort"
	"strings"
)

// Award phrases are scraped from free-form descriptions in addition to the
// structured awards field, because many publications only mention their
// award in prose.
var awardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)award[:\-]?\s*([^\n.,;]+)`),
	regexp.MustCompile(`(?i)winner of\s+([^\n.,;]+)`),
	regexp.MustCompile(`(?i)\bwon\s+([^\n.,;]+)`),
	regexp.MustCompile(`(?i)\breceived\s+([^\n.,;]+)`),
}

// knownAwards are contest tags worth detecting even without an announcing
// phrase around them.
var knownAwards = []string{
	"best overall project",
	"most innovative project",
	"best rag implementation",
	"best use of llms",
}

// ExtractAwards merges structured award labels with labels scraped from the
// description. Labels are normalized to lowercase single-space form, deduped
// and sorted.
func ExtractAwards(description string, structured []string) []string {
	set := make(map[string]struct{})

	for _, a := range structured {
		if n := normalizeAward(a); n != "" {
			set[n] = struct{}{}
		}
	}

	if description != "" {
		for _, pattern := range awardPatterns {
			for _, m := range pattern.FindAllStringSubmatch(description, -1) {
				if n := normalizeAward(m[1]); n != "" {
					set[n] = struct{}{}
				}
			}
		}

		lower := strings.ToLower(description)
		for _, tag := range knownAwards {
			if strings.Contains(lower, tag) {
				set[tag] = struct{}{}
			}
		}
	}

	if len(set) == 0 {
		return nil
	}

	awards := make([]string, 0, len(set))
	for a := range set {
		awards = append(awards, a)
	}
	sort.Strings(awards)
	return awards
}

func normalizeAward(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
