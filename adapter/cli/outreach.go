package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Send tracked emails and plan follow-ups",
}

var outreachSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a tracked email",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		to, _ := cmd.Flags().GetString("to")
		subject, _ := cmd.Flags().GetString("subject")
		html, _ := cmd.Flags().GetString("html")
		delay, _ := cmd.Flags().GetDuration("delay")

		if delay > 0 {
			result, err := app.Outreach.ScheduleFollowUp(cmd.Context(), to, subject, html, delay)
			if err != nil {
				return fmt.Errorf("schedule follow-up: %w", err)
			}
			fmt.Printf("Follow-up scheduled (message %s)\n", result.MessageID)
			return nil
		}

		result, err := app.Outreach.SendEmail(cmd.Context(), to, subject, html)
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
		fmt.Printf("Email sent (message %s)\n", result.MessageID)
		return nil
	},
}

var outreachPlanCmd = &cobra.Command{
	Use:   "plan <recipient>",
	Short: "Show engagement and the next follow-up time for a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		plan, err := app.Outreach.PlanFollowUp(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("plan follow-up: %w", err)
		}

		fmt.Printf("Engagement: %s (%d opens, %d clicks)\n",
			plan.Engagement.Level, plan.Engagement.Opens, plan.Engagement.Clicks)
		if !plan.Engagement.LastInteraction.IsZero() {
			fmt.Printf("Last interaction: %s\n", plan.Engagement.LastInteraction.Format(time.RFC3339))
		}
		fmt.Printf("Next follow-up: %s\n", plan.SendAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	outreachSendCmd.Flags().String("to", "", "recipient email address")
	outreachSendCmd.Flags().String("subject", "", "email subject")
	outreachSendCmd.Flags().String("html", "", "email HTML body")
	outreachSendCmd.Flags().Duration("delay", 0, "delay before sending, e.g. 72h")
	_ = outreachSendCmd.MarkFlagRequired("to")
	_ = outreachSendCmd.MarkFlagRequired("subject")

	outreachCmd.AddCommand(outreachSendCmd)
	outreachCmd.AddCommand(outreachPlanCmd)
	rootCmd.AddCommand(outreachCmd)
}
