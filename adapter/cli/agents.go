package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwehr/salesloop/internal/agents/application"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect and unlock AI agents",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered agent types and your access",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}
		ctx := cmd.Context()

		unlocked, err := app.Licensing.UnlockedAgents(ctx, app.CurrentUserID)
		if err != nil {
			return fmt.Errorf("list unlocked agents: %w", err)
		}
		unlockedSet := make(map[string]bool, len(unlocked))
		for _, agentType := range unlocked {
			unlockedSet[agentType] = true
		}

		for _, agentType := range app.Factory.RegisteredTypes() {
			access := "locked"
			if unlockedSet[agentType] {
				access = "unlocked"
			}
			fmt.Printf("%-20s %s\n", agentType, access)
		}
		return nil
	},
}

var agentsUnlockCmd = &cobra.Command{
	Use:   "unlock <agent-type>",
	Short: "Unlock a premium agent type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		newlyUnlocked, err := app.Factory.UnlockAgent(cmd.Context(), app.CurrentUserID, args[0])
		if err != nil {
			return fmt.Errorf("unlock agent: %w", err)
		}
		if newlyUnlocked {
			fmt.Printf("Unlocked %s\n", args[0])
		} else {
			fmt.Printf("%s was already unlocked\n", args[0])
		}
		return nil
	},
}

var agentsRelevantCmd = &cobra.Command{
	Use:     "relevant <prompt>",
	Short:   "Rank your unlocked agents by relevance to a prompt",
	Example: `  salesloop agents relevant "find leads in fintech and follow up"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		prompt := strings.Join(args, " ")
		matches, err := app.Factory.RelevantAgents(cmd.Context(), app.CurrentUserID, prompt, application.DefaultMinScore)
		if err != nil {
			return fmt.Errorf("rank agents: %w", err)
		}
		if len(matches) == 0 {
			fmt.Println("No unlocked agent matches that prompt.")
			return nil
		}
		for _, match := range matches {
			fmt.Printf("%-20s %.2f\n", match.Type, match.Score)
		}
		return nil
	},
}

func init() {
	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsUnlockCmd)
	agentsCmd.AddCommand(agentsRelevantCmd)
	rootCmd.AddCommand(agentsCmd)
}
