package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"
	"inspire/internal/domain"
	"inspire/internal/port"
)

var bucketPassages = []byte("passages")

// BoltIndex is a bbolt-backed vector index over publication passages.
// Uses brute-force cosine search; the corpus is a few thousand passages,
// so an ANN structure would be overkill.
type BoltIndex struct {
	db        *bbolt.DB
	dimension int

	mu sync.RWMutex
	// In-memory mirror for fast search
	passages map[string]domain.Passage
}

type storedPassage struct {
	Vector    []float32 `json:"v"`
	ProjectID string    `json:"p"`
	Title     string    `json:"t"`
	Text      string    `json:"x"`
	Awards    []string  `json:"a,omitempty"`
}

// NewBoltIndex opens (or creates) a bolt index at the given path.
func NewBoltIndex(path string, dimension int) (*BoltIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPassages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create passages bucket: %w", err)
	}

	idx := &BoltIndex{
		db:        db,
		dimension: dimension,
		passages:  make(map[string]domain.Passage),
	}

	if err := idx.loadPassages(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load passages: %w", err)
	}

	return idx, nil
}

// loadPassages loads all stored passages into memory.
func (s *BoltIndex) loadPassages() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPassages)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var stored storedPassage
			if err := json.Unmarshal(v, &stored); err != nil {
				return nil // Skip corrupted entries
			}
			id := string(k)
			s.passages[id] = domain.Passage{
				ID:        id,
				ProjectID: stored.ProjectID,
				Title:     stored.Title,
				Text:      stored.Text,
				Awards:    stored.Awards,
				Embedding: stored.Vector,
			}
			return nil
		})
	})
}

// Upsert adds or replaces passages.
func (s *BoltIndex) Upsert(ctx context.Context, passages []domain.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketPassages)
		if b == nil {
			return fmt.Errorf("passages bucket not found")
		}

		for _, p := range passages {
			if s.dimension > 0 && len(p.Embedding) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(p.Embedding))
			}

			stored := storedPassage{
				Vector:    p.Embedding,
				ProjectID: p.ProjectID,
				Title:     p.Title,
				Text:      p.Text,
				Awards:    p.Awards,
			}
			data, err := json.Marshal(stored)
			if err != nil {
				return err
			}

			if err := b.Put([]byte(p.ID), data); err != nil {
				return err
			}

			s.passages[p.ID] = p
		}

		return nil
	})
}

// Search finds the k nearest passages to the query using cosine similarity.
// Score ties break on passage ID so identical inputs give identical output.
func (s *BoltIndex) Search(ctx context.Context, query []float32, k int) ([]port.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimension > 0 && len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}

	return knn(s.passages, query, k), nil
}

// Count returns the number of passages in the index.
func (s *BoltIndex) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.passages), nil
}

func (s *BoltIndex) Close() error {
	return s.db.Close()
}

// knn is the shared brute-force search over an in-memory passage map.
func knn(passages map[string]domain.Passage, query []float32, k int) []port.SearchHit {
	if len(passages) == 0 || k <= 0 {
		return nil
	}

	hits := make([]port.SearchHit, 0, len(passages))
	for _, p := range passages {
		hits = append(hits, port.SearchHit{
			Passage: p,
			Score:   cosineSimilarity(query, p.Embedding),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Passage.ID < hits[j].Passage.ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
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
