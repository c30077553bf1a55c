package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fernwehr/salesloop/internal/meetings/domain"
	"github.com/fernwehr/salesloop/internal/meetings/infrastructure/google"
)

// DefaultMeetingDuration applies when no duration is requested.
const DefaultMeetingDuration = 30 * time.Minute

// CalendarProvider books events on a calendar and returns the provider id.
type CalendarProvider interface {
	CreateEvent(ctx context.Context, event google.Event) (string, error)
}

// LinkProvider creates self-serve booking links.
type LinkProvider interface {
	SchedulingLink(ctx context.Context, eventTypeURI string) (string, error)
}

// ScheduleRequest books one meeting.
type ScheduleRequest struct {
	Title       string
	StartsAt    time.Time
	Duration    time.Duration
	Attendee    string
	UseCalendly bool
}

// Scheduler books meetings through an external calendar provider and tracks
// them locally. Calendly bookings store the scheduling link as the external
// reference; the prospect picks the slot themselves.
type Scheduler struct {
	meetings     domain.MeetingRepository
	calendar     CalendarProvider
	links        LinkProvider
	organizer    string
	eventTypeURI string
	logger       *slog.Logger
}

func NewScheduler(meetings domain.MeetingRepository, calendar CalendarProvider, links LinkProvider, organizer, eventTypeURI string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		meetings:     meetings,
		calendar:     calendar,
		links:        links,
		organizer:    organizer,
		eventTypeURI: eventTypeURI,
		logger:       logger,
	}
}

// Schedule books a meeting. Provider failures surface as errors; nothing is
// stored locally unless the provider accepted the booking.
func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (*domain.Meeting, error) {
	if req.Duration <= 0 {
		req.Duration = DefaultMeetingDuration
	}
	endsAt := req.StartsAt.Add(req.Duration)

	provider := domain.ProviderGoogleCalendar
	if req.UseCalendly {
		provider = domain.ProviderCalendly
	}

	meeting, err := domain.NewMeeting(req.Title, req.StartsAt, endsAt, s.organizer, req.Attendee, provider)
	if err != nil {
		return nil, err
	}

	var externalID string
	if req.UseCalendly {
		if s.links == nil {
			return nil, fmt.Errorf("create scheduling link: calendly not configured")
		}
		externalID, err = s.links.SchedulingLink(ctx, s.eventTypeURI)
		if err != nil {
			return nil, fmt.Errorf("create scheduling link: %w", err)
		}
	} else {
		externalID, err = s.calendar.CreateEvent(ctx, google.Event{
			Summary:   req.Title,
			StartsAt:  req.StartsAt,
			EndsAt:    endsAt,
			Attendees: []string{req.Attendee},
		})
		if err != nil {
			return nil, fmt.Errorf("create calendar event: %w", err)
		}
	}
	meeting.AttachExternalID(externalID)

	if err := s.meetings.Save(ctx, meeting); err != nil {
		return nil, fmt.Errorf("save meeting: %w", err)
	}

	s.logger.InfoContext(ctx, "meeting scheduled",
		slog.String("meeting_id", meeting.ID().String()),
		slog.String("provider", string(provider)),
		slog.String("attendee", req.Attendee))
	return meeting, nil
}

// Cancel calls off a scheduled meeting.
func (s *Scheduler) Cancel(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := meeting.Cancel(); err != nil {
		return err
	}
	if err := s.meetings.Save(ctx, meeting); err != nil {
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

// Complete marks a meeting as held.
func (s *Scheduler) Complete(ctx context.Context, id uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := meeting.Complete(); err != nil {
		return err
	}
	if err := s.meetings.Save(ctx, meeting); err != nil {
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

// ListForAttendee returns the attendee's meetings ordered by start time.
func (s *Scheduler) ListForAttendee(ctx context.Context, attendee string) ([]*domain.Meeting, error) {
	return s.meetings.ListByAttendee(ctx, attendee)
}
