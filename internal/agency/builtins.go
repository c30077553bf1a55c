package agency

import (
	"github.com/fernwehr/salesloop/internal/agents/domain"
)

// Tool identifiers resolved for the email automation agent. The lead
// generation and CRM agents run without tools.
var emailAutomationTools = []string{
	"gmail.create_email_draft",
	"gmail.track_email",
	"googlecalendar.find_free_slots",
	"googlecalendar.create_event",
}

// Builtins returns the definitions for the three built-in agent types.
// lead_generation is available to every user; email_automation and crm
// require an unlocked grant.
func Builtins(constructor domain.Constructor) []domain.Definition {
	return []domain.Definition{
		{
			Type: "lead_generation",
			Capabilities: []string{
				"find leads", "identify prospects", "sales prospecting",
				"lead qualification", "market research", "company research",
			},
			Constructor: constructor,
		},
		{
			Type: "email_automation",
			Capabilities: []string{
				"send emails", "email tracking", "follow up", "email campaign",
				"calendar", "schedule", "meeting", "appointment",
			},
			RequiredTools: emailAutomationTools,
			Constructor:   constructor,
		},
		{
			Type: "crm",
			Capabilities: []string{
				"crm", "customer data", "contact management", "deal tracking",
				"interaction history", "pipeline management",
			},
			Constructor: constructor,
		},
	}
}

// DefaultConfigs returns the stock persona for each built-in agent type.
func DefaultConfigs() []domain.Config {
	return []domain.Config{
		{
			Type: "lead_generation",
			Name: "Lead Generator",
			Role: "Lead Generation Specialist",
			Goal: "Identify and qualify high-value leads",
		},
		{
			Type: "email_automation",
			Name: "Email Manager",
			Role: "Email Automation Specialist",
			Goal: "Handle email campaigns and follow-ups",
		},
		{
			Type: "crm",
			Name: "CRM Manager",
			Role: "CRM Data Specialist",
			Goal: "Maintain accurate CRM records",
		},
	}
}
