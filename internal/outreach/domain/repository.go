package domain

import "context"

// EmailEventRepository persists tracked delivery events.
type EmailEventRepository interface {
	Save(ctx context.Context, event *EmailEvent) error

	// ListByRecipient returns a recipient's events ordered by occurrence.
	ListByRecipient(ctx context.Context, recipient string) ([]*EmailEvent, error)
}
