package store

import (
	"context"
	"testing"

	"inspire/internal/domain"
)

func TestMemoryIndexSearchOrdering(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	passages := []domain.Passage{
		{ID: "far", ProjectID: "P1", Embedding: []float32{0, 1}},
		{ID: "near", ProjectID: "P2", Embedding: []float32{1, 0}},
		{ID: "mid", ProjectID: "P3", Embedding: []float32{1, 1}},
	}
	if err := idx.Upsert(ctx, passages); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"near", "mid", "far"}
	if len(hits) != len(want) {
		t.Fatalf("expected %d hits, got %d", len(want), len(hits))
	}
	for i, id := range want {
		if hits[i].Passage.ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, hits[i].Passage.ID)
		}
	}
	if hits[0].Score <= hits[1].Score || hits[1].Score <= hits[2].Score {
		t.Error("expected strictly descending scores")
	}
}

func TestMemoryIndexSearchTruncatesToK(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	for _, p := range []domain.Passage{
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "b", Embedding: []float32{0.9, 0.1}},
		{ID: "c", Embedding: []float32{0.8, 0.2}},
	} {
		if err := idx.Upsert(ctx, []domain.Passage{p}); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("expected 2 hits, got %d", len(hits))
	}
}

func TestMemoryIndexDeterministicTieBreak(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	// Identical vectors, identical scores: order must fall back to ID.
	err := idx.Upsert(ctx, []domain.Passage{
		{ID: "b", Embedding: []float32{1, 0}},
		{ID: "a", Embedding: []float32{1, 0}},
		{ID: "c", Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}

	for run := 0; run < 5; run++ {
		hits, err := idx.Search(ctx, []float32{1, 0}, 3)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"a", "b", "c"}
		for i, id := range want {
			if hits[i].Passage.ID != id {
				t.Fatalf("run %d position %d: expected %s, got %s", run, i, id, hits[i].Passage.ID)
			}
		}
	}
}

func TestMemoryIndexUpsertReplaces(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	if err := idx.Upsert(ctx, []domain.Passage{{ID: "a", Title: "old", Embedding: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Upsert(ctx, []domain.Passage{{ID: "a", Title: "new", Embedding: []float32{1, 0}}}); err != nil {
		t.Fatal(err)
	}

	n, err := idx.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 passage after replace, got %d", n)
	}

	hits, err := idx.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].Passage.Title != "new" {
		t.Errorf("expected replaced passage, got title %q", hits[0].Passage.Title)
	}
}
