package domain

import "context"

// Agent is a constructed, ready-to-run unit of work. The factory hands these
// out; callers only ever see this interface, never a concrete agent type.
type Agent interface {
	// Name returns the display name the agent was configured with.
	Name() string
	// Execute runs a single task to completion and returns the agent's output.
	Execute(ctx context.Context, task string) (string, error)
}

// Model is the language-model handle shared by every agent a factory builds.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Tool is an opaque capability an agent can invoke during execution. Tools are
// resolved by identifier at construction time, not baked into definitions.
type Tool interface {
	Name() string
	Invoke(ctx context.Context, input string) (string, error)
}

// ToolResolver turns tool identifiers into live tool handles. Resolution may
// hit external services and can fail independently of agent configuration.
type ToolResolver interface {
	Resolve(ctx context.Context, ids []string) ([]Tool, error)
}
