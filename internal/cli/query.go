package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"inspire/internal/domain"
	"inspire/internal/usecase"
)

var (
	queryText  string
	queryTopK  int
	queryJSON  bool
	queryNoMMR bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve award-winning projects",
	Long: `Search the indexed publications for relevant projects. An award filter
can be embedded in the query with the tag marker; the filter is matched
fuzzily so shortened or slightly misspelled award names still work.

Examples:
  inspire query -q 'tag "best overall"'
  inspire query -q 'robotics projects' --top-k 10 --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "search query (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryNoMMR, "no-mmr", false, "disable diversity reranking")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	ctx := cmd.Context()
	index, err := newIndex(ctx, cfg, GetRootDir(), embedder.Dimension())
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer index.Close()

	if queryTopK > 0 {
		cfg.Retrieve.FinalK = queryTopK
	}
	retrieveUC := newRetrievePipeline(cfg, index, embedder)

	if cfg.Logging.Level == "debug" {
		fmt.Printf("pipeline: fetch_k=%d final_k=%d dedup_limit=%d mmr_lambda=%.2f fuzzy_threshold=%.2f index=%s model=%s\n",
			cfg.Retrieve.FetchK, cfg.Retrieve.FinalK, cfg.Retrieve.DedupLimit,
			cfg.Retrieve.MMRLambda, cfg.Retrieve.FuzzyThreshold,
			cfg.Index.Provider, embedder.ModelName())
	}

	var results []domain.Result
	if queryNoMMR {
		results, err = retrieveUC.RetrieveWithoutDiversity(ctx, queryText)
	} else {
		results, err = retrieveUC.Retrieve(ctx, queryText)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyQuery) {
			return fmt.Errorf("query is empty")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No matching projects found.")
		return nil
	}

	fmt.Printf("Found %d projects for: %s\n\n", len(results), queryText)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (id: %s, score: %.3f) ---\n", i+1, r.Title, r.ProjectID, r.Score)
		if r.Award != "" {
			fmt.Printf("Award: %s\n", r.Award)
		}
		text := r.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
