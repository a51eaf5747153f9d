package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docrag/internal/domain"
)

var ingestForce bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index documents for retrieval",
	Long: `Scan the documents folder and index new or changed documents. With a
file path argument, ingest just that document.

Examples:
  docrag ingest                    # Index the configured documents folder
  docrag ingest --force            # Reprocess everything
  docrag ingest notes/plan.docx    # Index a single document`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVarP(&ingestForce, "force", "f", false, "reprocess documents even if unchanged")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// A directory argument overrides the configured documents root.
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			GetConfig().Documents.Root = abs
		} else {
			return ingestSingle(cmd, abs)
		}
	}

	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	var bar *progressbar.ProgressBar
	pipeline.SetProgress(func(done, total int, path string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Ingesting"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	})

	run := pipeline.Initialize
	if ingestForce {
		run = pipeline.RefreshDocuments
	}

	summary, err := run(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Documents found:     %d\n", summary.DocumentsFound)
	fmt.Printf("  Documents processed: %d\n", summary.DocumentsProcessed)
	fmt.Printf("  Documents skipped:   %d (unchanged)\n", summary.DocumentsSkipped)
	fmt.Printf("  Documents removed:   %d (vanished)\n", summary.DocumentsRemoved)
	fmt.Printf("  Chunks created:      %d\n", summary.ChunksCreated)

	printWarnings(append(pipeline.Warnings(), summary.Errors...))
	return nil
}

func ingestSingle(cmd *cobra.Command, path string) error {
	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	res := pipeline.AddDocument(cmd.Context(), path, ingestForce)
	fmt.Printf("%s: %s (%s)\n", res.Status, res.FilePath, res.Message)
	if res.Status == domain.StatusFailed {
		return fmt.Errorf("ingestion failed: %s", res.Message)
	}
	return nil
}
