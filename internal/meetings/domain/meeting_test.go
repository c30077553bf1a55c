package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeeting(t *testing.T) *Meeting {
	t.Helper()
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	m, err := NewMeeting("Demo call", start, start.Add(30*time.Minute),
		"sales@fernwehr.io", "ada@tensor.io", ProviderGoogleCalendar)
	require.NoError(t, err)
	return m
}

func TestNewMeeting(t *testing.T) {
	t.Run("books in scheduled state and raises an event", func(t *testing.T) {
		m := validMeeting(t)
		assert.Equal(t, StatusScheduled, m.Status())

		events := m.DomainEvents()
		require.Len(t, events, 1)
		scheduled, ok := events[0].(*MeetingScheduled)
		require.True(t, ok)
		assert.Equal(t, "Demo call", scheduled.Title)
		assert.Equal(t, "meetings.meeting.scheduled", scheduled.RoutingKey())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		start := time.Now()
		_, err := NewMeeting("  ", start, start.Add(time.Hour), "o@x.io", "a@x.io", ProviderCalendly)
		assert.ErrorIs(t, err, ErrMeetingEmptyTitle)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		start := time.Now()
		_, err := NewMeeting("Demo", start, start, "o@x.io", "a@x.io", ProviderCalendly)
		assert.ErrorIs(t, err, ErrMeetingInvalidTime)
	})

	t.Run("rejects missing attendee", func(t *testing.T) {
		start := time.Now()
		_, err := NewMeeting("Demo", start, start.Add(time.Hour), "o@x.io", "", ProviderCalendly)
		assert.ErrorIs(t, err, ErrMeetingNoAttendee)
	})
}

func TestMeetingLifecycle(t *testing.T) {
	t.Run("cancel only from scheduled", func(t *testing.T) {
		m := validMeeting(t)
		require.NoError(t, m.Cancel())
		assert.Equal(t, StatusCancelled, m.Status())
		assert.ErrorIs(t, m.Cancel(), ErrMeetingNotScheduled)
		assert.ErrorIs(t, m.Complete(), ErrMeetingNotScheduled)
	})

	t.Run("complete only from scheduled", func(t *testing.T) {
		m := validMeeting(t)
		require.NoError(t, m.Complete())
		assert.Equal(t, StatusCompleted, m.Status())
		assert.ErrorIs(t, m.Cancel(), ErrMeetingNotScheduled)
	})

	t.Run("cancel raises an event", func(t *testing.T) {
		m := validMeeting(t)
		m.ClearDomainEvents()
		require.NoError(t, m.Cancel())
		events := m.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "meetings.meeting.cancelled", events[0].RoutingKey())
	})
}

func TestRehydrateMeeting(t *testing.T) {
	now := time.Now().UTC()

	t.Run("rebuilds without raising events", func(t *testing.T) {
		m, err := RehydrateMeeting(uuid.New(), "Demo", now, now.Add(time.Hour),
			"o@x.io", "a@x.io", ProviderCalendly, "ext-1", StatusCompleted, now, now)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, m.Status())
		assert.Equal(t, "ext-1", m.ExternalID())
		assert.Empty(t, m.DomainEvents())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := RehydrateMeeting(uuid.New(), "Demo", now, now.Add(time.Hour),
			"o@x.io", "a@x.io", ProviderCalendly, "", "postponed", now, now)
		assert.ErrorIs(t, err, ErrMeetingInvalidStatus)
	})
}
