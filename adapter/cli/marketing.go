package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	marketingApp "github.com/fernwehr/salesloop/internal/marketing/application"
)

var marketingCmd = &cobra.Command{
	Use:   "marketing",
	Short: "Draft marketing content and campaign plans",
}

var marketingContentCmd = &cobra.Command{
	Use:   "content",
	Short: "Draft platform-specific marketing content",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		topic, _ := cmd.Flags().GetString("topic")
		platform, _ := cmd.Flags().GetString("platform")
		tone, _ := cmd.Flags().GetString("tone")

		content, err := app.Marketing.GenerateContent(cmd.Context(), marketingApp.ContentInput{
			Topic:    topic,
			Platform: platform,
			Tone:     tone,
		})
		if err != nil {
			return fmt.Errorf("generate content: %w", err)
		}
		fmt.Println(content)
		return nil
	},
}

var marketingCampaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Draft a campaign plan (requires the campaign_management grant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		audience, _ := cmd.Flags().GetString("audience")
		objective, _ := cmd.Flags().GetString("objective")
		budget, _ := cmd.Flags().GetFloat64("budget")

		plan, err := app.Marketing.CreateCampaignPlan(cmd.Context(), app.CurrentUserID, marketingApp.CampaignInput{
			TargetAudience: audience,
			Objective:      objective,
			Budget:         budget,
		})
		if errors.Is(err, marketingApp.ErrPremiumRequired) {
			fmt.Printf("Campaign planning is locked. Unlock it with: salesloop agents unlock %s\n",
				marketingApp.CapabilityCampaignManagement)
			return nil
		}
		if err != nil {
			return fmt.Errorf("create campaign plan: %w", err)
		}
		fmt.Println(plan)
		return nil
	},
}

func init() {
	marketingContentCmd.Flags().String("topic", "", "content topic")
	marketingContentCmd.Flags().String("platform", "blog", "target platform")
	marketingContentCmd.Flags().String("tone", "", "content tone (default professional)")

	marketingCampaignCmd.Flags().String("audience", "", "target audience")
	marketingCampaignCmd.Flags().String("objective", "", "campaign objective")
	marketingCampaignCmd.Flags().Float64("budget", 0, "campaign budget in USD")

	marketingCmd.AddCommand(marketingContentCmd)
	marketingCmd.AddCommand(marketingCampaignCmd)
	rootCmd.AddCommand(marketingCmd)
}
