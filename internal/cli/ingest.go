package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"inspire/internal/adapter/chunker"
	"inspire/internal/adapter/source"
	"inspire/internal/usecase"
)

var (
	ingestChunkSize    int
	ingestChunkOverlap int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Embed and index publication data",
	Long: `Load publication JSON files from the data directory, extract award labels,
chunk the text into overlapping windows, embed the chunks and store them
in the vector index.

Examples:
  inspire ingest              # Ingest the configured data directory
  inspire ingest ./data       # Ingest a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().IntVar(&ingestChunkSize, "chunk-size", 600, "passage window size in characters")
	ingestCmd.Flags().IntVar(&ingestChunkOverlap, "chunk-overlap", 100, "passage window overlap in characters")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	dataDir := cfg.Data.Dir
	if len(args) > 0 {
		dataDir = args[0]
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(GetRootDir(), dataDir)
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		return fmt.Errorf("data directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path is not a directory: %s", dataDir)
	}

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

	src := source.NewFileSource(cfg.Data.Includes, cfg.Data.Excludes)
	chk := chunker.NewWindowChunker(ingestChunkSize, ingestChunkOverlap)
	ingestUC := usecase.NewIngestUseCase(src, chk, embedder, index, cfg.Embedding.BatchSize)

	fmt.Printf("Ingesting %s (embedding model: %s)...\n", dataDir, embedder.ModelName())

	var bar *progressbar.ProgressBar
	startTime := time.Now()

	progress := func(processed, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	result, err := ingestUC.Ingest(ctx, dataDir, progress)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete in %s:\n", time.Since(startTime).Round(time.Second))
	fmt.Printf("  Projects indexed: %d\n", result.Projects)
	fmt.Printf("  Passages stored:  %d\n", result.Passages)

	if len(result.Skipped) > 0 {
		fmt.Printf("\nSkipped:\n")
		for _, s := range result.Skipped {
			fmt.Printf("  - %s\n", s)
		}
	}

	if cfg.Index.Provider == "bolt" {
		fmt.Printf("\nIndex stored at: %s\n", filepath.Join(GetRootDir(), ".inspire", "index.db"))
	}
	return nil
}
