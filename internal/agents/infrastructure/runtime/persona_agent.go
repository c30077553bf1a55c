// Package runtime holds the default model-backed agent implementation.
package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/fernwehr/salesloop/internal/agents/domain"
)

// PersonaAgent executes tasks by prompting the shared model with a persona
// assembled from its role, goal and backstory. Tools are surfaced to the
// model as named capabilities it may ask for.
type PersonaAgent struct {
	name      string
	role      string
	goal      string
	backstory string
	model     domain.Model
	tools     []domain.Tool
}

// Constructor returns the default constructor used for the builtin agent
// types.
func Constructor() domain.Constructor {
	return domain.ConstructorFunc(func(_ context.Context, spec domain.Spec) (domain.Agent, error) {
		if spec.Model == nil {
			return nil, fmt.Errorf("persona agent requires a model")
		}
		return &PersonaAgent{
			name:      spec.Name,
			role:      spec.Role,
			goal:      spec.Goal,
			backstory: spec.Backstory,
			model:     spec.Model,
			tools:     spec.Tools,
		}, nil
	})
}

func (a *PersonaAgent) Name() string { return a.name }

func (a *PersonaAgent) Execute(ctx context.Context, task string) (string, error) {
	out, err := a.model.Complete(ctx, a.prompt(task))
	if err != nil {
		return "", fmt.Errorf("execute task: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (a *PersonaAgent) prompt(task string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, a %s.\n", a.name, a.role)
	fmt.Fprintf(&sb, "Goal: %s\n", a.goal)
	if a.backstory != "" {
		fmt.Fprintf(&sb, "Backstory: %s\n", a.backstory)
	}
	if len(a.tools) > 0 {
		names := make([]string, len(a.tools))
		for i, t := range a.tools {
			names[i] = t.Name()
		}
		fmt.Fprintf(&sb, "Available tools: %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(&sb, "\nTask: %s\n", task)
	return sb.String()
}
