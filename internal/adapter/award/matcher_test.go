package award

import (
	"testing"

	"inspire/internal/domain"
)

func TestMatchNoAwardRequested(t *testing.T) {
	m := NewMatcher(0.70)

	ok, label := m.Match(domain.Query{Text: "anything"}, []string{"best overall project"})
	if !ok {
		t.Error("expected trivial match when no award requested")
	}
	if label != "" {
		t.Errorf("expected empty matched label, got %q", label)
	}
}

func TestMatchExact(t *testing.T) {
	m := NewMatcher(0.70)

	q := domain.Query{Award: "  Best Overall   Project "}
	ok, label := m.Match(q, []string{"most innovative project", "best overall project"})
	if !ok {
		t.Fatal("expected exact match")
	}
	if label != "best overall project" {
		t.Errorf("expected exact label reported, got %q", label)
	}
}

func TestMatchFuzzyShortenedPhrase(t *testing.T) {
	m := NewMatcher(0.70)

	q := domain.Query{Award: "best overall"}
	ok, label := m.Match(q, []string{"best overall project"})
	if !ok {
		t.Fatal("expected fuzzy match for shortened phrase")
	}
	if label != "best overall project" {
		t.Errorf("expected matched label, got %q", label)
	}
}

func TestMatchFuzzyTypo(t *testing.T) {
	m := NewMatcher(0.70)

	q := domain.Query{Award: "best overal project"}
	ok, _ := m.Match(q, []string{"best overall project"})
	if !ok {
		t.Error("expected fuzzy match for single-character typo")
	}
}

func TestMatchRejectsUnrelatedAward(t *testing.T) {
	m := NewMatcher(0.70)

	q := domain.Query{Award: "Nonexistent Award"}
	ok, label := m.Match(q, []string{"best overall project", "most innovative project"})
	if ok {
		t.Errorf("expected no match, got label %q", label)
	}
}

func TestMatchPrefersExactOverFuzzy(t *testing.T) {
	m := NewMatcher(0.70)

	q := domain.Query{Award: "best rag implementation"}
	ok, label := m.Match(q, []string{"best rag implementation runner-up", "Best RAG Implementation"})
	if !ok {
		t.Fatal("expected a match")
	}
	if label != "Best RAG Implementation" {
		t.Errorf("expected exact label to win the tie-break, got %q", label)
	}
}

func TestMatchReportsHighestFuzzyScore(t *testing.T) {
	m := NewMatcher(0.5)

	q := domain.Query{Award: "best overall"}
	ok, label := m.Match(q, []string{"best use of llms", "best overall project"})
	if !ok {
		t.Fatal("expected a match")
	}
	if label != "best overall project" {
		t.Errorf("expected closest label reported, got %q", label)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{"identical", "best overall project", "best overall project", 1.0, 1.0},
		{"missing trailing word", "best overall", "best overall project", 0.70, 1.0},
		{"typo", "best overall projct", "best overall project", 0.90, 1.0},
		{"unrelated", "nonexistent award", "best overall project", 0.0, 0.5},
		{"empty a", "", "best overall project", 0.0, 0.0},
		{"both empty", "", "", 1.0, 1.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Similarity(tc.a, tc.b)
			if s < tc.min || s > tc.max {
				t.Errorf("Similarity(%q, %q) = %f, expected within [%f, %f]", tc.a, tc.b, s, tc.min, tc.max)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Best   Overall\tProject "); got != "best overall project" {
		t.Errorf("unexpected normalization: %q", got)
	}
}
