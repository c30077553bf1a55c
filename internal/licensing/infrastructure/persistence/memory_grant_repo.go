// Package persistence provides grant repository implementations.
package persistence

import (
	"context"
	"sync"

	"github.com/fernwehr/salesloop/internal/licensing/domain"
)

// MemoryGrantRepository keeps grant sets in process memory. State lives for
// the process lifetime and is never evicted.
type MemoryGrantRepository struct {
	mu     sync.Mutex
	grants map[string]map[string]struct{}
}

// NewMemoryGrantRepository creates an empty in-memory grant store.
func NewMemoryGrantRepository() *MemoryGrantRepository {
	return &MemoryGrantRepository{
		grants: make(map[string]map[string]struct{}),
	}
}

// Ensure seeds the user with the default grant if unknown.
func (r *MemoryGrantRepository) Ensure(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLocked(userID)
	return nil
}

// Add seeds the user if needed, then adds the grant.
func (r *MemoryGrantRepository) Add(_ context.Context, userID, agentType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.ensureLocked(userID)
	if _, ok := set[agentType]; ok {
		return false, nil
	}
	set[agentType] = struct{}{}
	return true, nil
}

// Has seeds the user if needed, then reports membership.
func (r *MemoryGrantRepository) Has(_ context.Context, userID, agentType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.ensureLocked(userID)
	_, ok := set[agentType]
	return ok, nil
}

// List seeds the user if needed, then returns a snapshot of the grant set.
func (r *MemoryGrantRepository) List(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.ensureLocked(userID)
	types := make([]string, 0, len(set))
	for agentType := range set {
		types = append(types, agentType)
	}
	return types, nil
}

// Remove deletes the grant without seeding.
func (r *MemoryGrantRepository) Remove(_ context.Context, userID, agentType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.grants[userID]
	if !ok {
		return false, nil
	}
	if _, ok := set[agentType]; !ok {
		return false, nil
	}
	delete(set, agentType)
	return true, nil
}

// ensureLocked seeds the user set under the held lock.
func (r *MemoryGrantRepository) ensureLocked(userID string) map[string]struct{} {
	set, ok := r.grants[userID]
	if !ok {
		set = map[string]struct{}{domain.DefaultAgentType: {}}
		r.grants[userID] = set
	}
	return set
}
