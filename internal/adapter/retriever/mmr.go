package retriever

import (
	"math"

	"inspire/internal/domain"
)

// MMRReranker implements Maximal Marginal Relevance for result diversification.
type MMRReranker struct {
	lambda float64
}

// NewMMRReranker creates a new MMR reranker. lambda weighs relevance against
// redundancy; out-of-range values fall back to 0.7.
func NewMMRReranker(lambda float64) *MMRReranker {
	if lambda < 0 || lambda > 1 {
		lambda = 0.7
	}
	return &MMRReranker{lambda: lambda}
}

// Rerank greedily selects min(k, len(candidates)) candidates.
// MMR(c) = λ * relevance(c) - (1-λ) * max_similarity(c, selected)
// Relevance is the candidate score normalized to the pool maximum; similarity
// is cosine similarity between passage embeddings. Ties break toward higher
// raw relevance, then toward the earlier original rank, so the selection is
// deterministic for identical input.
func (r *MMRReranker) Rerank(candidates []domain.Candidate, k int) []domain.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}

	maxScore := candidates[0].Score
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	selected := make([]domain.Candidate, 0, k)
	remaining := make([]domain.Candidate, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestMMR := math.Inf(-1)

		for i, candidate := range remaining {
			relevance := candidate.Score / maxScore

			// No redundancy penalty for the first pick.
			maxSim := 0.0
			for _, sel := range selected {
				sim := cosineSimilarity(candidate.Passage.Embedding, sel.Passage.Embedding)
				if sim > maxSim {
					maxSim = sim
				}
			}

			mmr := r.lambda*relevance - (1-r.lambda)*maxSim

			if mmr > bestMMR || (mmr == bestMMR && candidate.Score > remaining[bestIdx].Score) {
				bestMMR = mmr
				bestIdx = i
			}
		}

		chosen := remaining[bestIdx]
		chosen.Selected = true
		selected = append(selected, chosen)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
