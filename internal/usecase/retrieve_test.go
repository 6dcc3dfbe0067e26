package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"inspire/internal/adapter/award"
	"inspire/internal/adapter/retriever"
	"inspire/internal/adapter/store"
	"inspire/internal/domain"
	"inspire/internal/port"
)

// fixedEmbedder returns the same vector for every text, so tests control
// ranking purely through the passage embeddings seeded into the index.
type fixedEmbedder struct {
	vector []float32
}

func (e *fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return out, nil
}

func (e *fixedEmbedder) Dimension() int { return len(e.vector) }
func (e *fixedEmbedder) ModelName() string {
	return "fixed"
}

type failingIndex struct{}

func (failingIndex) Upsert(ctx context.Context, passages []domain.Passage) error { return nil }
func (failingIndex) Search(ctx context.Context, vector []float32, k int) ([]port.SearchHit, error) {
	return nil, fmt.Errorf("connection refused")
}
func (failingIndex) Count(ctx context.Context) (int, error) { return 0, nil }
func (failingIndex) Close() error                           { return nil }

// seedCorpus builds the three-project corpus: P1 and P2 won "Best Overall
// Project", P3 won "Most Innovative", each split into three overlapping
// passages.
func seedCorpus(t *testing.T) *store.MemoryIndex {
	t.Helper()
	idx := store.NewMemoryIndex()

	type proj struct {
		id     string
		title  string
		awards []string
		base   []float32
	}
	projects := []proj{
		{"P1", "Project One", []string{"best overall project"}, []float32{0.95, 0.05, 0}},
		{"P2", "Project Two", []string{"best overall project"}, []float32{0.90, 0.10, 0}},
		{"P3", "Project Three", []string{"most innovative project"}, []float32{0.10, 0.90, 0}},
	}

	var passages []domain.Passage
	for _, p := range projects {
		for i := 0; i < 3; i++ {
			v := []float32{p.base[0] - float32(i)*0.01, p.base[1] + float32(i)*0.01, 0}
			passages = append(passages, domain.Passage{
				ID:        fmt.Sprintf("%s-chunk%d", p.id, i),
				ProjectID: p.id,
				Title:     p.title,
				Text:      fmt.Sprintf("%s passage %d", p.title, i),
				Awards:    p.awards,
				Embedding: v,
			})
		}
	}

	if err := idx.Upsert(context.Background(), passages); err != nil {
		t.Fatal(err)
	}
	return idx
}

func newPipeline(index port.VectorIndex, opts RetrieveOptions) *RetrieveUseCase {
	sem := retriever.NewSemanticRetriever(index, &fixedEmbedder{vector: []float32{1, 0, 0}})
	return NewRetrieveUseCase(
		sem,
		award.NewParser("tag"),
		award.NewMatcher(0.70),
		retriever.NewMMRReranker(0.7),
		opts,
	)
}

func TestRetrieveFuzzyAwardScenario(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{})

	results, err := uc.Retrieve(context.Background(), `tag "best overall"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results (P1 and P2), got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, r := range results {
		if r.ProjectID == "P3" {
			t.Error("P3 must be excluded by the award filter")
		}
		if seen[r.ProjectID] {
			t.Errorf("project %s appears more than once", r.ProjectID)
		}
		seen[r.ProjectID] = true
		if r.Award != "best overall project" {
			t.Errorf("expected matched award reported, got %q", r.Award)
		}
	}

	if results[0].ProjectID != "P1" {
		t.Errorf("expected most relevant project first, got %s", results[0].ProjectID)
	}
}

func TestRetrieveNonexistentAward(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{})

	results, err := uc.Retrieve(context.Background(), `tag "Nonexistent Award"`)
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result set, got %d results", len(results))
	}
}

func TestRetrieveNoTagNoFilter(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{})

	results, err := uc.Retrieve(context.Background(), "show me inspiring winning projects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected all 3 projects without a filter, got %d", len(results))
	}
	seen := make(map[string]bool)
	for _, r := range results {
		if r.Award != "" {
			t.Errorf("expected empty matched award without a filter, got %q", r.Award)
		}
		if seen[r.ProjectID] {
			t.Errorf("project %s appears more than once", r.ProjectID)
		}
		seen[r.ProjectID] = true
	}
}

func TestRetrieveTruncatesToFinalK(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{FinalK: 2})

	results, err := uc.Retrieve(context.Background(), "winning projects")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) > 2 {
		t.Errorf("expected at most 2 results, got %d", len(results))
	}
}

func TestRetrieveEmptyQuery(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{})

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := uc.Retrieve(context.Background(), raw)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", raw, err)
		}
	}
}

func TestRetrieveIndexUnavailable(t *testing.T) {
	uc := newPipeline(failingIndex{}, RetrieveOptions{})

	_, err := uc.Retrieve(context.Background(), "anything at all")
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
	if errors.Is(err, ErrEmptyQuery) {
		t.Error("index failure must not look like an invalid query")
	}
}

func TestRetrieveDeterminism(t *testing.T) {
	idx := seedCorpus(t)
	uc := newPipeline(idx, RetrieveOptions{})

	first, err := uc.Retrieve(context.Background(), `tag "best overall" winning projects`)
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.Retrieve(context.Background(), `tag "best overall" winning projects`)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRetrieveWithoutDiversity(t *testing.T) {
	uc := newPipeline(seedCorpus(t), RetrieveOptions{})

	results, err := uc.RetrieveWithoutDiversity(context.Background(), `tag "best overall"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ProjectID != "P1" || results[1].ProjectID != "P2" {
		t.Errorf("expected relevance order P1, P2; got %s, %s", results[0].ProjectID, results[1].ProjectID)
	}
}
