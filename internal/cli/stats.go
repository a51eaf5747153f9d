package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and catalog statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	stats := pipeline.GetPipelineStats()

	fmt.Printf("Documents cataloged: %d\n", stats.DocumentsCataloged)
	fmt.Printf("Chunks indexed:      %d\n", stats.Store.TotalChunks)
	fmt.Printf("Embedding model:     %s\n", stats.Store.ModelName)
	fmt.Printf("Vector dimension:    %d\n", stats.Store.Dimension)
	fmt.Printf("Store size on disk:  %d bytes\n", stats.Store.DiskBytes)

	if len(stats.Store.SourceCounts) > 0 {
		fmt.Println("\nChunks per document:")
		sources := make([]string, 0, len(stats.Store.SourceCounts))
		for source := range stats.Store.SourceCounts {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			fmt.Printf("  %-40s %d\n", filepath.Base(source), stats.Store.SourceCounts[source])
		}
	}

	printWarnings(stats.Warnings)
	return nil
}
