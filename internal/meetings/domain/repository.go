package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrMeetingNotFound reports a lookup for an unknown meeting.
var ErrMeetingNotFound = errors.New("meeting not found")

// MeetingRepository persists meetings.
type MeetingRepository interface {
	Save(ctx context.Context, meeting *Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*Meeting, error)

	// ListByAttendee returns the attendee's meetings ordered by start time.
	ListByAttendee(ctx context.Context, attendee string) ([]*Meeting, error)
}
