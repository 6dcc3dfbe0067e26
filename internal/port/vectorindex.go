package port

import (
	"context"

	"inspire/internal/domain"
)

// VectorIndex stores embedded passages and answers nearest-neighbour queries.
// The retrieval pipeline treats it as pre-populated and read-only.
type VectorIndex interface {
	// Upsert adds or replaces passages in the index.
	Upsert(ctx context.Context, passages []domain.Passage) error

	// Search returns the k nearest passages to the query vector, ordered by
	// descending similarity.
	Search(ctx context.Context, vector []float32, k int) ([]SearchHit, error)

	// Count returns the number of passages in the index.
	Count(ctx context.Context) (int, error)

	Close() error
}

// SearchHit is one nearest-neighbour result.
type SearchHit struct {
	Passage domain.Passage
	Score   float64 // similarity, higher is better
}
