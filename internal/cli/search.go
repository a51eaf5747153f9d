package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

var (
	searchText string
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the index and show raw scored hits",
	Long: `Search the index and print each hit with its source, page, and score.
Useful for inspecting what the retriever would feed into a prompt.

Examples:
  docrag search -q "onboarding checklist"
  docrag search -q "quarterly numbers" -k 10 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchText, "query", "q", "", "query text (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

// searchHit is the JSON output shape for one result.
type searchHit struct {
	Source string  `json:"source"`
	Page   int     `json:"page,omitempty"`
	Score  float64 `json:"score"`
	Text   string  `json:"text"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	results, err := pipeline.SearchDocuments(cmd.Context(), searchText, searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{
			Source: r.Chunk.SourceFile,
			Page:   r.Chunk.PageNumber,
			Score:  r.Score,
			Text:   r.Chunk.Text,
		}
	}

	if searchJSON {
		output, _ := json.MarshalIndent(hits, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(hits) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(hits), searchText)
	for i, h := range hits {
		header := fmt.Sprintf("--- [%d] %s", i+1, filepath.Base(h.Source))
		if h.Page > 0 {
			header += fmt.Sprintf(", page %d", h.Page)
		}
		fmt.Printf("%s (score: %.3f) ---\n", header, h.Score)
		fmt.Println(truncateForDisplay(h.Text, 500))
		fmt.Println()
	}
	return nil
}

// truncateForDisplay shortens text to at most max bytes without cutting a
// rune in half.
func truncateForDisplay(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
