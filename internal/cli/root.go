// Package cli implements the docrag command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Index documents and retrieve relevant passages for LLM prompts",
	Long: `docrag ingests a folder of documents (PDF, DOCX, PPTX, TXT), chunks and
embeds them with a local Ollama model, and answers queries with
provenance-tagged context blocks ready for LLM consumption.

Example usage:
  docrag ingest                      # Index the documents folder
  docrag query -q "refund policy"    # Retrieve a context block
  docrag search -q "refund policy"   # Inspect raw scored hits`,
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
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./docrag.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
