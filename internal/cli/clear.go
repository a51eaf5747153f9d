package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the index and catalog",
	Long:  `Delete all indexed vectors and catalog entries. Documents on disk are untouched.`,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		fmt.Print("Delete the entire index and catalog? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := pipeline.ClearAll(); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Println("Index and catalog cleared.")
	return nil
}
