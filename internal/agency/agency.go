// Package agency assembles the built-in sales agents for a user and runs
// their task batches.
package agency

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fernwehr/salesloop/internal/agents/application"
	"github.com/fernwehr/salesloop/internal/agents/domain"
)

// DefaultMaxIterations bounds how often a task is retried before the batch
// gives up on it.
const DefaultMaxIterations = 3

// Agency creates per-user agent crews from the factory. The lead generation
// agent is always present; premium agents join the crew only when the user's
// license grants them.
type Agency struct {
	factory       *application.Factory
	maxIterations int
	logger        *slog.Logger
}

func New(factory *application.Factory, logger *slog.Logger) *Agency {
	return &Agency{
		factory:       factory,
		maxIterations: DefaultMaxIterations,
		logger:        logger,
	}
}

// Crew is the set of agents assembled for one user, in registration order
// with the default agent first. Each agent keeps the type it was built from
// so task routing does not depend on persona names.
type Crew struct {
	members       []crewMember
	maxIterations int
	logger        *slog.Logger
}

type crewMember struct {
	agentType string
	agent     domain.Agent
}

func (c *Crew) Agents() []domain.Agent {
	agents := make([]domain.Agent, 0, len(c.members))
	for _, m := range c.members {
		agents = append(agents, m.agent)
	}
	return agents
}

// Assemble creates the user's crew. Locked premium types are skipped
// silently; a missing default agent is an error because every user holds the
// default grant.
func (a *Agency) Assemble(ctx context.Context, userID string) (*Crew, error) {
	crew := &Crew{maxIterations: a.maxIterations, logger: a.logger}

	for _, cfg := range DefaultConfigs() {
		agent, err := a.factory.CreateAgent(ctx, userID, cfg.Type, cfg)
		if err != nil {
			return nil, fmt.Errorf("create %s agent: %w", cfg.Type, err)
		}
		if agent == nil {
			continue
		}
		crew.members = append(crew.members, crewMember{agentType: cfg.Type, agent: agent})
	}

	if len(crew.members) == 0 {
		return nil, fmt.Errorf("no agents available for user %s", userID)
	}
	return crew, nil
}

// Task pairs an agent with one instruction.
type Task struct {
	Agent domain.Agent
	Text  string
}

// TaskResult records a single task's outcome after the batch ran.
type TaskResult struct {
	Agent  string
	Task   string
	Output string
	Err    error
}

// Run executes the tasks sequentially. Each task gets up to maxIterations
// attempts; a task that keeps failing is recorded with its error and the
// batch moves on.
func (c *Crew) Run(ctx context.Context, tasks []Task) []TaskResult {
	results := make([]TaskResult, 0, len(tasks))
	for _, task := range tasks {
		result := TaskResult{Agent: task.Agent.Name(), Task: task.Text}
		for attempt := 1; attempt <= c.maxIterations; attempt++ {
			output, err := task.Agent.Execute(ctx, task.Text)
			if err == nil {
				result.Output = output
				result.Err = nil
				break
			}
			result.Err = err
			c.logger.WarnContext(ctx, "task attempt failed",
				slog.String("agent", task.Agent.Name()),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			if ctx.Err() != nil {
				result.Err = ctx.Err()
				break
			}
		}
		results = append(results, result)
	}
	return results
}

// SalesTasks builds the standard outbound batch: find leads matching the
// criteria, then hand off to whichever premium agents the crew has. Routing
// follows the agent type, so renaming a persona does not reroute its work.
func (c *Crew) SalesTasks(industry, companySize string, jobTitles []string) []Task {
	var tasks []Task
	for _, m := range c.members {
		switch m.agentType {
		case "lead_generation":
			tasks = append(tasks, Task{
				Agent: m.agent,
				Text: fmt.Sprintf("Find leads in %s with company size %s targeting %s",
					industry, companySize, strings.Join(jobTitles, ", ")),
			})
		case "email_automation":
			tasks = append(tasks, Task{
				Agent: m.agent,
				Text:  "Send personalized outreach emails to qualified leads",
			})
		case "crm":
			tasks = append(tasks, Task{
				Agent: m.agent,
				Text:  "Update CRM with latest lead information and interaction data",
			})
		}
	}
	return tasks
}

// ExecuteSalesWorkflow assembles the user's crew and runs the standard
// outbound batch in one call.
func (a *Agency) ExecuteSalesWorkflow(ctx context.Context, userID, industry, companySize string, jobTitles []string) ([]TaskResult, error) {
	crew, err := a.Assemble(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "executing sales workflow",
		slog.String("user_id", userID),
		slog.String("industry", industry),
		slog.Int("agents", len(crew.Agents())))
	return crew.Run(ctx, crew.SalesTasks(industry, companySize, jobTitles)), nil
}
