package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/fernwehr/salesloop/internal/agents/domain"
)

// DefaultMinScore is the relevance threshold below which an agent type is not
// considered a match for a prompt.
const DefaultMinScore = 0.1

// AccessControl is the slice of the licensing service the factory needs.
type AccessControl interface {
	CheckAccess(ctx context.Context, userID, agentType string) (bool, error)
	UnlockAgent(ctx context.Context, userID, agentType string) (bool, error)
	UnlockedAgents(ctx context.Context, userID string) ([]string, error)
}

// Factory keeps a registry of agent definitions and builds agent instances
// for users, enforcing per-user access through the licensing service. Access
// decisions live entirely in licensing; the factory holds no grant state of
// its own.
type Factory struct {
	mu    sync.RWMutex
	defs  map[string]domain.Definition
	order []string

	access   AccessControl
	model    domain.Model
	resolver domain.ToolResolver
	logger   *slog.Logger
}

func NewFactory(access AccessControl, model domain.Model, resolver domain.ToolResolver, logger *slog.Logger) *Factory {
	return &Factory{
		defs:     make(map[string]domain.Definition),
		access:   access,
		model:    model,
		resolver: resolver,
		logger:   logger,
	}
}

// Register adds a definition to the registry. Re-registering a type silently
// replaces the previous definition and keeps its original position in the
// registration order.
func (f *Factory) Register(def domain.Definition) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.defs[def.Type]; !exists {
		f.order = append(f.order, def.Type)
	}
	f.defs[def.Type] = def
}

// RegisteredTypes lists every known agent type in registration order.
func (f *Factory) RegisteredTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// UnlockAgent grants a user access to an agent type. It reports true only
// when the grant is new.
func (f *Factory) UnlockAgent(ctx context.Context, userID, agentType string) (bool, error) {
	return f.access.UnlockAgent(ctx, userID, agentType)
}

// CreateAgent builds one agent instance for a user. When the user has not
// unlocked the type it returns (nil, nil): denial is an expected outcome, not
// an error, and it applies whether or not the type is registered. An unlocked
// but unregistered type is a configuration error.
func (f *Factory) CreateAgent(ctx context.Context, userID, agentType string, cfg domain.Config) (domain.Agent, error) {
	ok, err := f.access.CheckAccess(ctx, userID, agentType)
	if err != nil {
		return nil, fmt.Errorf("check access for %q: %w", agentType, err)
	}
	if !ok {
		f.logger.WarnContext(ctx, "agent type locked",
			slog.String("agent_type", agentType),
			slog.String("user_id", userID))
		return nil, nil
	}

	f.mu.RLock()
	def, registered := f.defs[agentType]
	f.mu.RUnlock()
	if !registered {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotRegistered, agentType)
	}

	var tools []domain.Tool
	if len(def.RequiredTools) > 0 {
		if f.resolver == nil {
			return nil, fmt.Errorf("%w: %q: no tool resolver configured", domain.ErrToolResolution, agentType)
		}
		tools, err = f.resolver.Resolve(ctx, def.RequiredTools)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", domain.ErrToolResolution, agentType, err)
		}
	}

	agent, err := def.Constructor.New(ctx, domain.Spec{
		Name:      cfg.Name,
		Role:      cfg.Role,
		Goal:      cfg.Goal,
		Backstory: cfg.Backstory,
		Model:     f.model,
		Tools:     tools,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrConstruction, agentType, err)
	}

	f.logger.InfoContext(ctx, "agent created",
		slog.String("agent_type", agentType),
		slog.String("user_id", userID))
	return agent, nil
}

// RelevantAgents ranks the user's unlocked agent types by relevance to a
// prompt, highest score first. A type with no keyword hits is never a match,
// whatever the threshold; everything else must score at least minScore.
// Ties keep registration order, so ranking is deterministic.
func (f *Factory) RelevantAgents(ctx context.Context, userID, prompt string, minScore float64) ([]domain.Match, error) {
	unlocked, err := f.access.UnlockedAgents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unlocked agents: %w", err)
	}
	allowed := make(map[string]struct{}, len(unlocked))
	for _, t := range unlocked {
		allowed[t] = struct{}{}
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var matches []domain.Match
	for _, agentType := range f.order {
		if _, ok := allowed[agentType]; !ok {
			continue
		}
		score := domain.Relevance(prompt, f.defs[agentType].Capabilities)
		if score > 0 && score >= minScore {
			matches = append(matches, domain.Match{Type: agentType, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// CreateAgentsFromConfig builds a batch of agents from an ordered config
// list. With a non-empty prompt only relevant types are built, in relevance
// order; otherwise every unlocked configured type is built, in config order.
// A type that fails to build is logged and skipped so one bad entry cannot
// sink the batch.
func (f *Factory) CreateAgentsFromConfig(ctx context.Context, userID string, configs []domain.Config, prompt string) ([]domain.Agent, error) {
	byType := make(map[string]domain.Config, len(configs))
	for _, cfg := range configs {
		if _, seen := byType[cfg.Type]; !seen {
			byType[cfg.Type] = cfg
		}
	}

	var selected []string
	if prompt != "" {
		matches, err := f.RelevantAgents(ctx, userID, prompt, DefaultMinScore)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := byType[m.Type]; ok {
				selected = append(selected, m.Type)
			}
		}
	} else {
		unlocked, err := f.access.UnlockedAgents(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list unlocked agents: %w", err)
		}
		allowed := make(map[string]struct{}, len(unlocked))
		for _, t := range unlocked {
			allowed[t] = struct{}{}
		}
		seen := make(map[string]struct{}, len(configs))
		for _, cfg := range configs {
			if _, dup := seen[cfg.Type]; dup {
				continue
			}
			seen[cfg.Type] = struct{}{}
			if _, ok := allowed[cfg.Type]; ok {
				selected = append(selected, cfg.Type)
			}
		}
	}

	agents := make([]domain.Agent, 0, len(selected))
	for _, agentType := range selected {
		agent, err := f.CreateAgent(ctx, userID, agentType, byType[agentType])
		if err != nil {
			f.logger.WarnContext(ctx, "skipping agent",
				slog.String("agent_type", agentType),
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			continue
		}
		if agent == nil {
			continue
		}
		agents = append(agents, agent)
	}
	return agents, nil
}
