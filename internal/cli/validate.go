package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the pipeline is ready to use",
	Long: `Check the pieces a working pipeline needs: the documents folder, the
embedding service and model, and index content. Prints recommendations
for anything missing.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	pipeline, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	report := pipeline.ValidateSetup(cmd.Context())

	for _, check := range report.Checks {
		mark := "ok"
		if !check.OK {
			mark = "FAIL"
		}
		fmt.Printf("  [%-4s] %-20s %s\n", mark, check.Name, check.Detail)
	}

	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range report.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}

	if !report.OK() {
		return fmt.Errorf("setup validation failed")
	}
	fmt.Println("\nSetup looks good.")
	return nil
}
