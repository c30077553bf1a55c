package domain

import (
	"time"

	sharedDomain "github.com/fernwehr/salesloop/internal/shared/domain"
)

const aggregateType = "meeting"

// MeetingScheduled is raised when a meeting is booked.
type MeetingScheduled struct {
	sharedDomain.BaseEvent
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	Attendee string    `json:"attendee"`
	Provider Provider  `json:"provider"`
}

func NewMeetingScheduled(m *Meeting) *MeetingScheduled {
	return &MeetingScheduled{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), aggregateType, "meetings.meeting.scheduled"),
		Title:     m.Title(),
		StartsAt:  m.StartsAt(),
		Attendee:  m.Attendee(),
		Provider:  m.Provider(),
	}
}

// MeetingCancelled is raised when a scheduled meeting is called off.
type MeetingCancelled struct {
	sharedDomain.BaseEvent
	Title    string `json:"title"`
	Attendee string `json:"attendee"`
}

func NewMeetingCancelled(m *Meeting) *MeetingCancelled {
	return &MeetingCancelled{
		BaseEvent: sharedDomain.NewBaseEvent(m.ID(), aggregateType, "meetings.meeting.cancelled"),
		Title:     m.Title(),
		Attendee:  m.Attendee(),
	}
}
