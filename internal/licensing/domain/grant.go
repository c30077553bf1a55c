// Package domain defines the licensing model: per-user sets of unlocked
// agent types, with the default type permanently granted.
package domain

// DefaultAgentType is granted to every user on first reference and can never
// be revoked.
const DefaultAgentType = "lead_generation"

// Premium agent types shipped with the platform.
const (
	AgentTypeEmailAutomation = "email_automation"
	AgentTypeCRM             = "crm"
)

// Grant records that a user may use an agent type.
type Grant struct {
	UserID    string
	AgentType string
}

// IsDefault reports whether the grant covers the default agent type.
func (g Grant) IsDefault() bool {
	return g.AgentType == DefaultAgentType
}
