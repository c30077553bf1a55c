package application

import (
	"context"
	"testing"

	"github.com/fernwehr/salesloop/internal/licensing/domain"
	"github.com/fernwehr/salesloop/internal/licensing/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *Service {
	return NewService(persistence.NewMemoryGrantRepository(), nil)
}

func TestUnknownUserHasDefaultAccessOnly(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	ok, err := svc.CheckAccess(ctx, "fresh-user", domain.DefaultAgentType)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckAccess(ctx, "fresh-user", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInitializeUserIsIdempotent(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	require.NoError(t, svc.InitializeUser(ctx, "u1"))

	added, err := svc.UnlockAgent(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.True(t, added)

	// Re-initializing must not reset previously unlocked agents.
	require.NoError(t, svc.InitializeUser(ctx, "u1"))

	ok, err := svc.CheckAccess(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUnlockAgentTwice(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	added, err := svc.UnlockAgent(ctx, "u1", domain.AgentTypeEmailAutomation)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.UnlockAgent(ctx, "u1", domain.AgentTypeEmailAutomation)
	require.NoError(t, err)
	assert.False(t, added)

	types, err := svc.UnlockedAgents(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, countOf(types, domain.AgentTypeEmailAutomation))
}

func TestUnlockedAgentsContainsDefault(t *testing.T) {
	svc := newService()

	types, err := svc.UnlockedAgents(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, types, domain.DefaultAgentType)
	assert.Len(t, types, 1)
}

func TestRevokeDefaultAlwaysFails(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	// Unknown user.
	removed, err := svc.RevokeAccess(ctx, "u1", domain.DefaultAgentType)
	require.NoError(t, err)
	assert.False(t, removed)

	// Known user with extra grants.
	_, err = svc.UnlockAgent(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)

	removed, err = svc.RevokeAccess(ctx, "u1", domain.DefaultAgentType)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := svc.CheckAccess(ctx, "u1", domain.DefaultAgentType)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevokeAccess(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	// Never-referenced user: no mutation, no lazy seeding.
	removed, err := svc.RevokeAccess(ctx, "ghost", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.UnlockAgent(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)

	// Grant not held.
	removed, err = svc.RevokeAccess(ctx, "u1", domain.AgentTypeEmailAutomation)
	require.NoError(t, err)
	assert.False(t, removed)

	// Held grant is removed exactly once.
	removed, err = svc.RevokeAccess(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RevokeAccess(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.False(t, removed)

	ok, err := svc.CheckAccess(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrantsAreIndependentPerUser(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.UnlockAgent(ctx, "u1", domain.AgentTypeCRM)
	require.NoError(t, err)

	ok, err := svc.CheckAccess(ctx, "u2", domain.AgentTypeCRM)
	require.NoError(t, err)
	assert.False(t, ok)
}

func countOf(values []string, want string) int {
	n := 0
	for _, v := range values {
		if v == want {
			n++
		}
	}
	return n
}
