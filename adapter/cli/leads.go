package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwehr/salesloop/internal/leads/domain"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Search and enrich sales leads",
}

var leadsSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for leads matching target criteria",
	Example: `  salesloop leads search --industry software --size 50-200 --titles "CTO,VP Engineering"
  salesloop leads search --industry fintech --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		industry, _ := cmd.Flags().GetString("industry")
		size, _ := cmd.Flags().GetString("size")
		titles, _ := cmd.Flags().GetString("titles")
		limit, _ := cmd.Flags().GetInt("limit")

		criteria := domain.SearchCriteria{
			Industry:    industry,
			CompanySize: size,
			JobTitles:   splitList(titles),
			Limit:       limit,
		}

		leads, err := app.Leads.SearchLeads(cmd.Context(), criteria)
		if err != nil {
			return fmt.Errorf("search leads: %w", err)
		}

		if len(leads) == 0 {
			fmt.Println("No leads found.")
			return nil
		}
		for _, lead := range leads {
			fmt.Printf("%-30s %-30s %s\n", lead.FullName(), lead.Company, lead.Email)
		}
		fmt.Printf("\n%d lead(s) found\n", len(leads))
		return nil
	},
}

var leadsEnrichCmd = &cobra.Command{
	Use:   "enrich <email>",
	Short: "Enrich a lead by email address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		enrichment, err := app.Leads.EnrichLead(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("enrich lead: %w", err)
		}
		if enrichment.IsEmpty() {
			fmt.Println("No enrichment data available.")
			return nil
		}

		fmt.Printf("Name:     %s\n", enrichment.FullName)
		fmt.Printf("Title:    %s\n", enrichment.Title)
		fmt.Printf("Company:  %s\n", enrichment.Company)
		if enrichment.LinkedIn != "" {
			fmt.Printf("LinkedIn: %s\n", enrichment.LinkedIn)
		}
		return nil
	},
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func init() {
	leadsSearchCmd.Flags().String("industry", "", "target industry")
	leadsSearchCmd.Flags().String("size", "", "company size range, e.g. 50-200")
	leadsSearchCmd.Flags().String("titles", "", "comma-separated job titles")
	leadsSearchCmd.Flags().Int("limit", 25, "maximum number of results")

	leadsCmd.AddCommand(leadsSearchCmd)
	leadsCmd.AddCommand(leadsEnrichCmd)
	rootCmd.AddCommand(leadsCmd)
}
