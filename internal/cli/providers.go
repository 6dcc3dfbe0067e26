package cli

import (
	"context"
	"fmt"

	"inspire/config"
	"inspire/internal/adapter/award"
	"inspire/internal/adapter/embedding"
	"inspire/internal/adapter/llm"
	"inspire/internal/adapter/retriever"
	"inspire/internal/adapter/store"
	"inspire/internal/port"
	"inspire/internal/usecase"
)

// newEmbedder creates the configured embedding client.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		return embedding.NewOpenAI(e.APIKeyEnv, e.Model, e.BaseURL, e.Dimension)
	case "ollama":
		return embedding.NewOllama(e.Model, e.BaseURL, e.Dimension), nil
	case "mock":
		return embedding.NewMockEmbedder(e.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", e.Provider)
	}
}

// newIndex opens the configured vector index. The caller owns Close.
func newIndex(ctx context.Context, cfg *config.Config, rootDir string, dimension int) (port.VectorIndex, error) {
	switch cfg.Index.Provider {
	case "bolt":
		if err := config.EnsureStateDir(rootDir); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		return store.NewBoltIndex(config.IndexDBPath(rootDir), dimension)
	case "qdrant":
		return store.NewQdrantIndex(ctx, cfg.Index.QdrantURL, cfg.Index.Collection, dimension)
	case "memory":
		return store.NewMemoryIndex(), nil
	default:
		return nil, fmt.Errorf("unsupported index provider: %s", cfg.Index.Provider)
	}
}

// newLLM creates the configured chat completion client.
func newLLM(cfg *config.Config) (port.LLM, error) {
	l := cfg.LLM
	switch l.Provider {
	case "groq", "openai":
		return llm.NewGroq(l.APIKeyEnv, l.Model, l.BaseURL, l.Temperature, l.MaxTokens)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", l.Provider)
	}
}

// newRetrievePipeline wires the full retrieval pipeline over an open index.
func newRetrievePipeline(cfg *config.Config, index port.VectorIndex, embedder port.Embedder) *usecase.RetrieveUseCase {
	r := cfg.Retrieve
	return usecase.NewRetrieveUseCase(
		retriever.NewSemanticRetriever(index, embedder),
		award.NewParser(r.TagMarker),
		award.NewMatcher(r.FuzzyThreshold),
		retriever.NewMMRReranker(r.MMRLambda),
		usecase.RetrieveOptions{
			FetchK:     r.FetchK,
			FinalK:     r.FinalK,
			DedupLimit: r.DedupLimit,
			Timeout:    r.Timeout(),
		},
	)
}
