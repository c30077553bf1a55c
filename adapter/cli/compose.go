package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	messagingApp "github.com/fernwehr/salesloop/internal/messaging/application"
)

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Draft and classify outreach messages with the model",
}

var composeOutreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Draft a cold outreach email",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		name, _ := cmd.Flags().GetString("name")
		company, _ := cmd.Flags().GetString("company")
		painPoint, _ := cmd.Flags().GetString("pain-point")

		message, err := app.Composer.ComposeOutreach(cmd.Context(), messagingApp.OutreachInput{
			LeadName:  name,
			Company:   company,
			PainPoint: painPoint,
		})
		if err != nil {
			return fmt.Errorf("compose outreach: %w", err)
		}
		fmt.Println(message)
		return nil
	},
}

var composeFollowUpCmd = &cobra.Command{
	Use:   "followup",
	Short: "Draft a follow-up email",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		name, _ := cmd.Flags().GetString("name")
		context, _ := cmd.Flags().GetString("context")

		message, err := app.Composer.ComposeFollowUp(cmd.Context(), messagingApp.FollowUpInput{
			LeadName:        name,
			PreviousContext: context,
		})
		if err != nil {
			return fmt.Errorf("compose follow-up: %w", err)
		}
		fmt.Println(message)
		return nil
	},
}

var composeClassifyCmd = &cobra.Command{
	Use:   "classify <response text>",
	Short: "Classify a prospect's reply as positive, neutral, or negative",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		sentiment, err := app.Composer.ClassifyResponse(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("classify response: %w", err)
		}
		fmt.Println(sentiment)
		return nil
	},
}

func init() {
	composeOutreachCmd.Flags().String("name", "", "lead name")
	composeOutreachCmd.Flags().String("company", "", "lead company")
	composeOutreachCmd.Flags().String("pain-point", "", "pain point to address")

	composeFollowUpCmd.Flags().String("name", "", "lead name")
	composeFollowUpCmd.Flags().String("context", "", "previous conversation context")

	composeCmd.AddCommand(composeOutreachCmd)
	composeCmd.AddCommand(composeFollowUpCmd)
	composeCmd.AddCommand(composeClassifyCmd)
	rootCmd.AddCommand(composeCmd)
}
