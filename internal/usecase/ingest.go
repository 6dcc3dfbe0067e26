package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"inspire/internal/adapter/source"
	"inspire/internal/domain"
	"inspire/internal/port"
)

// ProgressFunc reports ingestion progress in passages.
type ProgressFunc func(processed, total int)

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Projects int
	Passages int
	Skipped  []string // publication ids or titles that could not be ingested
}

// IngestUseCase loads publications, extracts award labels, chunks the
// composed text into overlapping windows, embeds them, and upserts the
// passages into the vector index.
type IngestUseCase struct {
	source    port.PublicationSource
	chunker   port.Chunker
	embedder  port.Embedder
	index     port.VectorIndex
	batchSize int
}

func NewIngestUseCase(
	src port.PublicationSource,
	chunker port.Chunker,
	embedder port.Embedder,
	index port.VectorIndex,
	batchSize int,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		source:    src,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		batchSize: batchSize,
	}
}

// Ingest runs one full ingestion pass over the data directory.
func (u *IngestUseCase) Ingest(ctx context.Context, dir string, progress ProgressFunc) (IngestResult, error) {
	var result IngestResult

	publications, err := u.source.Load(dir)
	if err != nil {
		return result, fmt.Errorf("failed to load publications: %w", err)
	}

	var passages []domain.Passage
	for _, pub := range publications {
		if strings.TrimSpace(pub.ID) == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("missing id (title: %s)", orUntitled(pub.Title)))
			continue
		}

		awards := source.ExtractAwards(pub.Description, pub.Awards)
		text := composeText(pub, awards)

		chunks := u.chunker.Split(text)
		if len(chunks) == 0 {
			result.Skipped = append(result.Skipped, fmt.Sprintf("no text (id: %s)", pub.ID))
			continue
		}

		for i, chunk := range chunks {
			passages = append(passages, domain.Passage{
				ID:        passageID(pub.ID, i),
				ProjectID: pub.ID,
				Title:     orUntitled(pub.Title),
				Text:      chunk,
				Awards:    awards,
			})
		}
		result.Projects++
	}

	if len(passages) == 0 {
		return result, nil
	}

	for start := 0; start < len(passages); start += u.batchSize {
		end := start + u.batchSize
		if end > len(passages) {
			end = len(passages)
		}
		batch := passages[start:end]

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.Text
		}

		embeddings, err := u.embedder.Embed(ctx, texts)
		if err != nil {
			return result, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(embeddings) != len(batch) {
			return result, fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(batch))
		}

		for i := range batch {
			batch[i].Embedding = embeddings[i]
		}

		if err := u.index.Upsert(ctx, batch); err != nil {
			return result, fmt.Errorf("failed to store passages: %w", err)
		}

		result.Passages = end
		if progress != nil {
			progress(end, len(passages))
		}
	}

	return result, nil
}

// composeText builds the canonical passage source text for a publication.
func composeText(pub domain.Publication, awards []string) string {
	awardsLine := "none"
	if len(awards) > 0 {
		awardsLine = strings.Join(awards, " | ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", orUntitled(pub.Title))
	if pub.Username != "" {
		fmt.Fprintf(&b, "Author: %s\n", pub.Username)
	}
	if desc := strings.TrimSpace(pub.Description); desc != "" {
		fmt.Fprintf(&b, "Description: %s\n", desc)
	}
	fmt.Fprintf(&b, "Awards: %s", awardsLine)
	return b.String()
}

func orUntitled(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Untitled Project"
	}
	return title
}

func passageID(projectID string, index int) string {
	data := fmt.Sprintf("%s:%d", projectID, index)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
