package domain

import "context"

// Spec carries everything a constructor needs to build one agent instance.
// Model and Tools are injected by the factory; the rest comes from Config.
type Spec struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
	Model     Model
	Tools     []Tool
}

// Constructor builds an agent of one particular type from a spec.
type Constructor interface {
	New(ctx context.Context, spec Spec) (Agent, error)
}

// ConstructorFunc adapts a plain function to the Constructor interface.
type ConstructorFunc func(ctx context.Context, spec Spec) (Agent, error)

func (f ConstructorFunc) New(ctx context.Context, spec Spec) (Agent, error) {
	return f(ctx, spec)
}

// Definition describes a registrable agent type: what it can do, which tools
// it needs, and how to build one.
type Definition struct {
	// Type is the registry key, e.g. "lead_generation".
	Type string
	// Capabilities are lowercase keyword phrases used for relevance matching
	// against user prompts.
	Capabilities []string
	// RequiredTools lists tool identifiers resolved at construction time.
	// Empty means the agent runs without tools.
	RequiredTools []string
	Constructor   Constructor
}

// Config holds the per-user configuration for one agent instance.
type Config struct {
	Type      string
	Name      string
	Role      string
	Goal      string
	Backstory string
}
