package retriever

import "inspire/internal/domain"

// DedupeByProject keeps the first candidate seen for each distinct project
// id, preserving input order, and stops once limit distinct projects have
// been kept. The input is expected to be ordered by descending relevance,
// so the retained passage is each project's most relevant one.
func DedupeByProject(candidates []domain.Candidate, limit int) []domain.Candidate {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, limit)
	kept := make([]domain.Candidate, 0, limit)

	for _, c := range candidates {
		if _, dup := seen[c.Passage.ProjectID]; dup {
			continue
		}
		seen[c.Passage.ProjectID] = struct{}{}
		kept = append(kept, c)
		if len(kept) == limit {
			break
		}
	}

	return kept
}
