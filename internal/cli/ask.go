package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"inspire/internal/usecase"
)

var (
	askText string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask for project inspiration",
	Long: `Retrieve relevant award-winning projects and generate a natural-language
answer grounded in them. When nothing relevant is indexed, the assistant
says so instead of inventing projects.

Examples:
  inspire ask -q "what won the best RAG implementation award?"
  inspire ask -q 'tag "most innovative" hardware projects'`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "question (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output answer and sources as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	model, err := newLLM(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	retrieveUC := newRetrievePipeline(cfg, index, embedder)
	askUC, err := usecase.NewAskUseCase(retrieveUC, model, cfg.LLM.MaxResults)
	if err != nil {
		return err
	}

	answer, results, err := askUC.Ask(ctx, askText)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		payload := struct {
			Answer  string      `json:"answer"`
			Sources interface{} `json:"sources"`
		}{Answer: answer, Sources: results}
		output, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer)
	if len(results) > 0 {
		fmt.Printf("\nSources:\n")
		for _, r := range results {
			if r.Award != "" {
				fmt.Printf("  - %s (id: %s, award: %s)\n", r.Title, r.ProjectID, r.Award)
			} else {
				fmt.Printf("  - %s (id: %s)\n", r.Title, r.ProjectID)
			}
		}
	}
	return nil
}
