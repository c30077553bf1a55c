package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Run the full sales workflow with your agent crew",
	Example: `  salesloop run --industry software --size 50-200 --titles "CTO,VP Engineering"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		industry, _ := cmd.Flags().GetString("industry")
		size, _ := cmd.Flags().GetString("size")
		titles, _ := cmd.Flags().GetString("titles")

		results, err := app.Workflow.Run(cmd.Context(), app.CurrentUserID, industry, size, splitList(titles))
		if err != nil {
			return fmt.Errorf("run workflow: %w", err)
		}

		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("[%s] FAILED: %v\n", result.Agent, result.Err)
				continue
			}
			fmt.Printf("[%s] %s\n", result.Agent, result.Output)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("industry", "", "target industry")
	runCmd.Flags().String("size", "", "company size range, e.g. 50-200")
	runCmd.Flags().String("titles", "", "comma-separated job titles")
	_ = runCmd.MarkFlagRequired("industry")

	rootCmd.AddCommand(runCmd)
}
