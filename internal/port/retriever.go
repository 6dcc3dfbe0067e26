package port

import (
	"context"

	"inspire/internal/domain"
)

// Retriever searches the index for passages matching a query text.
type Retriever interface {
	// Search returns up to k candidates ordered by descending similarity.
	Search(ctx context.Context, query string, k int) ([]domain.Candidate, error)
}
