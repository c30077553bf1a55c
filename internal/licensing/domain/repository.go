package domain

import "context"

// GrantRepository stores per-user grant sets. Implementations must make each
// operation atomic: the lazy seeding and the mutation happen under one
// exclusive-access scope so concurrent first references to the same user
// cannot lose updates.
//
// State grows with the number of distinct users and is never evicted; the
// in-memory implementation therefore lives for the process lifetime only,
// and long-running deployments should use the SQLite-backed store.
type GrantRepository interface {
	// Ensure seeds the user with the default grant if the user is unknown.
	// Idempotent.
	Ensure(ctx context.Context, userID string) error

	// Add seeds the user if needed, then adds the grant. Returns true if the
	// grant was newly added, false if already present.
	Add(ctx context.Context, userID, agentType string) (bool, error)

	// Has seeds the user if needed, then reports membership.
	Has(ctx context.Context, userID, agentType string) (bool, error)

	// List seeds the user if needed, then returns a snapshot of the grant
	// set. Order is not significant.
	List(ctx context.Context, userID string) ([]string, error)

	// Remove deletes the grant without seeding. Returns false if the user
	// was never referenced or does not hold the grant.
	Remove(ctx context.Context, userID, agentType string) (bool, error)
}
