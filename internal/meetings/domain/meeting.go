package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/fernwehr/salesloop/internal/shared/domain"
)

var (
	ErrMeetingEmptyTitle    = errors.New("meeting title cannot be empty")
	ErrMeetingInvalidTime   = errors.New("meeting must end after it starts")
	ErrMeetingNoAttendee    = errors.New("meeting requires an attendee")
	ErrMeetingNotScheduled  = errors.New("meeting is not scheduled")
	ErrMeetingInvalidStatus = errors.New("invalid meeting status")
)

// Status tracks a meeting through its lifecycle.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Provider identifies the external calendar system holding the booking.
type Provider string

const (
	ProviderGoogleCalendar Provider = "google_calendar"
	ProviderCalendly       Provider = "calendly"
)

// Meeting is a booked sales call tracked against an external calendar.
type Meeting struct {
	sharedDomain.BaseAggregateRoot
	title      string
	startsAt   time.Time
	endsAt     time.Time
	organizer  string
	attendee   string
	provider   Provider
	externalID string
	status     Status
}

// NewMeeting books a meeting in scheduled state.
func NewMeeting(title string, startsAt, endsAt time.Time, organizer, attendee string, provider Provider) (*Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMeetingEmptyTitle
	}
	if !endsAt.After(startsAt) {
		return nil, ErrMeetingInvalidTime
	}
	if strings.TrimSpace(attendee) == "" {
		return nil, ErrMeetingNoAttendee
	}

	meeting := &Meeting{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		title:             title,
		startsAt:          startsAt.UTC(),
		endsAt:            endsAt.UTC(),
		organizer:         organizer,
		attendee:          attendee,
		provider:          provider,
		status:            StatusScheduled,
	}
	meeting.AddDomainEvent(NewMeetingScheduled(meeting))
	return meeting, nil
}

func (m *Meeting) Title() string        { return m.title }
func (m *Meeting) StartsAt() time.Time  { return m.startsAt }
func (m *Meeting) EndsAt() time.Time    { return m.endsAt }
func (m *Meeting) Organizer() string    { return m.organizer }
func (m *Meeting) Attendee() string     { return m.attendee }
func (m *Meeting) Provider() Provider   { return m.provider }
func (m *Meeting) ExternalID() string   { return m.externalID }
func (m *Meeting) Status() Status       { return m.status }

// AttachExternalID links the booking to the provider's event.
func (m *Meeting) AttachExternalID(id string) {
	m.externalID = id
	m.Touch()
}

// Cancel moves a scheduled meeting to cancelled.
func (m *Meeting) Cancel() error {
	if m.status != StatusScheduled {
		return ErrMeetingNotScheduled
	}
	m.status = StatusCancelled
	m.Touch()
	m.AddDomainEvent(NewMeetingCancelled(m))
	return nil
}

// Complete marks a scheduled meeting as held.
func (m *Meeting) Complete() error {
	if m.status != StatusScheduled {
		return ErrMeetingNotScheduled
	}
	m.status = StatusCompleted
	m.Touch()
	return nil
}

// RehydrateMeeting rebuilds a meeting from storage without raising events.
func RehydrateMeeting(
	id uuid.UUID,
	title string,
	startsAt, endsAt time.Time,
	organizer, attendee string,
	provider Provider,
	externalID string,
	status Status,
	createdAt, updatedAt time.Time,
) (*Meeting, error) {
	if !status.IsValid() {
		return nil, ErrMeetingInvalidStatus
	}
	return &Meeting{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		title:      title,
		startsAt:   startsAt,
		endsAt:     endsAt,
		organizer:  organizer,
		attendee:   attendee,
		provider:   provider,
		externalID: externalID,
		status:     status,
	}, nil
}
