package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryText string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Retrieve a context block for a query",
	Long: `Embed the query, search the index, and print a provenance-tagged
context block ready to paste into an LLM prompt.

Examples:
  docrag query -q "what is the refund policy"`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "query text (required)")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	context, err := pipeline.RetrieveContext(cmd.Context(), queryText)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}
	if context == "" {
		fmt.Println("No relevant documents found.")
		return nil
	}

	fmt.Println(context)
	return nil
}
