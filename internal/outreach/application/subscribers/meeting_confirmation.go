// Package subscribers reacts to events from other contexts.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/fernwehr/salesloop/internal/outreach/application"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/eventbus"
)

// meetingScheduledPayload is the slice of the meetings event this consumer
// needs.
type meetingScheduledPayload struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	Attendee string    `json:"attendee"`
}

// MeetingConfirmation emails the attendee when a meeting is booked.
type MeetingConfirmation struct {
	outreach *application.Service
	logger   *slog.Logger
}

func NewMeetingConfirmation(outreach *application.Service, logger *slog.Logger) *MeetingConfirmation {
	return &MeetingConfirmation{outreach: outreach, logger: logger}
}

func (c *MeetingConfirmation) EventTypes() []string {
	return []string{"meetings.meeting.scheduled"}
}

func (c *MeetingConfirmation) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload meetingScheduledPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode meeting scheduled payload: %w", err)
	}
	if payload.Attendee == "" {
		return nil
	}

	subject := fmt.Sprintf("Confirmed: %s", payload.Title)
	html := fmt.Sprintf("<p>Your meeting %q is confirmed for %s.</p>",
		payload.Title, payload.StartsAt.Format("Monday, Jan 2 at 15:04 MST"))

	if _, err := c.outreach.SendEmail(ctx, payload.Attendee, subject, html); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	c.logger.InfoContext(ctx, "meeting confirmation sent",
		slog.String("attendee", payload.Attendee),
		slog.String("title", payload.Title))
	return nil
}
