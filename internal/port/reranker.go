package port

import "inspire/internal/domain"

// DiversityReranker reorders a candidate set to balance relevance against
// redundancy, selecting at most k candidates.
type DiversityReranker interface {
	Rerank(candidates []domain.Candidate, k int) []domain.Candidate
}
