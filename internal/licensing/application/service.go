// Package application provides the license service, the single ownership
// point for per-user agent-type grants. Every other component that needs an
// access decision delegates here.
package application

import (
	"context"
	"log/slog"

	"github.com/fernwehr/salesloop/internal/licensing/domain"
)

// Service manages which agent types a user has unlocked.
type Service struct {
	grants domain.GrantRepository
	logger *slog.Logger
}

// NewService creates a new license service.
func NewService(grants domain.GrantRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{grants: grants, logger: logger}
}

// InitializeUser seeds an unknown user with the default agent grant.
// Idempotent; a no-op for users already referenced.
func (s *Service) InitializeUser(ctx context.Context, userID string) error {
	return s.grants.Ensure(ctx, userID)
}

// UnlockAgent grants an agent type to a user. Returns true if the grant was
// newly added, false if the user already held it.
func (s *Service) UnlockAgent(ctx context.Context, userID, agentType string) (bool, error) {
	added, err := s.grants.Add(ctx, userID, agentType)
	if err != nil {
		return false, err
	}
	if added {
		s.logger.InfoContext(ctx, "agent unlocked",
			"user_id", userID,
			"agent_type", agentType,
		)
	}
	return added, nil
}

// CheckAccess reports whether a user may use an agent type. The user is
// lazily seeded, so the default type is always accessible.
func (s *Service) CheckAccess(ctx context.Context, userID, agentType string) (bool, error) {
	return s.grants.Has(ctx, userID, agentType)
}

// UnlockedAgents returns the agent types unlocked for a user. Order is not
// significant.
func (s *Service) UnlockedAgents(ctx context.Context, userID string) ([]string, error) {
	return s.grants.List(ctx, userID)
}

// RevokeAccess removes a grant. Returns false without mutation when the user
// was never referenced, when agentType is the default type (permanently
// protected), or when the user does not hold the grant.
func (s *Service) RevokeAccess(ctx context.Context, userID, agentType string) (bool, error) {
	if agentType == domain.DefaultAgentType {
		return false, nil
	}
	removed, err := s.grants.Remove(ctx, userID, agentType)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.InfoContext(ctx, "agent access revoked",
			"user_id", userID,
			"agent_type", agentType,
		)
	}
	return removed, nil
}
