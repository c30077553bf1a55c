package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseEntity(t *testing.T) {
	e := NewBaseEntity()

	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.False(t, e.CreatedAt().IsZero())
	assert.Equal(t, e.CreatedAt(), e.UpdatedAt())
}

func TestBaseEntityTouch(t *testing.T) {
	e := NewBaseEntity()
	created := e.CreatedAt()

	time.Sleep(time.Millisecond)
	e.Touch()

	assert.Equal(t, created, e.CreatedAt())
	assert.True(t, e.UpdatedAt().After(created))
}

func TestRehydrateBaseEntity(t *testing.T) {
	id := uuid.New()
	createdAt := time.Now().UTC().Add(-time.Hour)
	updatedAt := time.Now().UTC()

	e := RehydrateBaseEntity(id, createdAt, updatedAt)

	assert.Equal(t, id, e.ID())
	assert.Equal(t, createdAt, e.CreatedAt())
	assert.Equal(t, updatedAt, e.UpdatedAt())
}

type testEvent struct {
	BaseEvent
}

func TestAggregateDomainEvents(t *testing.T) {
	agg := NewBaseAggregateRoot()
	require.Empty(t, agg.DomainEvents())

	event := &testEvent{BaseEvent: NewBaseEvent(agg.ID(), "test", "test.created")}
	agg.AddDomainEvent(event)

	require.Len(t, agg.DomainEvents(), 1)
	assert.Equal(t, agg.ID(), agg.DomainEvents()[0].AggregateID())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestApplyEventMetadata(t *testing.T) {
	agg := NewBaseAggregateRoot()
	event := &testEvent{BaseEvent: NewBaseEvent(agg.ID(), "test", "test.created")}
	agg.AddDomainEvent(event)

	meta := NewEventMetadata("user-1")
	ApplyEventMetadata(agg.DomainEvents(), meta)

	got := agg.DomainEvents()[0].Metadata()
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, meta.CorrelationID, got.CorrelationID)
}

func TestUserID(t *testing.T) {
	u := NewUserID("  user-42 ")

	assert.Equal(t, "user-42", u.String())
	assert.False(t, u.IsEmpty())
	assert.True(t, u.Equals(NewUserID("user-42")))
	assert.False(t, u.Equals(NewUserID("user-43")))
	assert.True(t, NewUserID("").IsEmpty())
}
