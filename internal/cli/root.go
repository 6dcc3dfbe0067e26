package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"inspire/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "inspire",
	Short: "Developer Inspiration Assistant - find award-winning maker projects",
	Long: `inspire indexes maker publication data with vector embeddings and answers
questions about award-winning projects. Queries may carry an award filter
using the tag marker, matched fuzzily against each project's awards.

Example usage:
  inspire ingest ./data                         # Embed and index publications
  inspire query -q 'tag "best overall"'         # Retrieve matching projects
  inspire ask -q "projects that won best RAG"   # Generate a grounded answer`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./inspire.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
