package domain

import (
	"time"

	shared "github.com/fernwehr/salesloop/internal/shared/domain"
)

// EventType is a delivery event reported by the email provider.
type EventType string

const (
	EventOpen        EventType = "open"
	EventClick       EventType = "click"
	EventBounce      EventType = "bounce"
	EventSpamReport  EventType = "spam_report"
	EventUnsubscribe EventType = "unsubscribe"
)

// IsValid reports whether the event type is one we track. Providers emit
// more types (processed, delivered, deferred); those are ignored.
func (t EventType) IsValid() bool {
	switch t {
	case EventOpen, EventClick, EventBounce, EventSpamReport, EventUnsubscribe:
		return true
	default:
		return false
	}
}

// EmailEvent records one tracked delivery event for a recipient.
type EmailEvent struct {
	shared.BaseEntity
	MessageID  string
	Recipient  string
	Type       EventType
	OccurredAt time.Time
}

// NewEmailEvent creates a tracked event.
func NewEmailEvent(messageID, recipient string, eventType EventType, occurredAt time.Time) *EmailEvent {
	return &EmailEvent{
		BaseEntity: shared.NewBaseEntity(),
		MessageID:  messageID,
		Recipient:  recipient,
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
	}
}
