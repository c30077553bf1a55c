// Package persistence provides the SQLite store for email delivery events.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fernwehr/salesloop/internal/outreach/domain"
	shared "github.com/fernwehr/salesloop/internal/shared/domain"
)

const timeFormat = time.RFC3339Nano

// SQLiteEventRepository implements domain.EmailEventRepository on SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Save(ctx context.Context, event *domain.EmailEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_events (id, message_id, recipient, event_type, occurred_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID().String(),
		event.MessageID,
		event.Recipient,
		string(event.Type),
		event.OccurredAt.UTC().Format(timeFormat),
		event.CreatedAt().UTC().Format(timeFormat),
		event.UpdatedAt().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert email event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) ListByRecipient(ctx context.Context, recipient string) ([]*domain.EmailEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, recipient, event_type, occurred_at, created_at, updated_at
		FROM email_events
		WHERE recipient = ?
		ORDER BY occurred_at`, recipient)
	if err != nil {
		return nil, fmt.Errorf("query email events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EmailEvent
	for rows.Next() {
		var (
			id         string
			messageID  string
			recip      string
			eventType  string
			occurredAt string
			createdAt  string
			updatedAt  string
		)
		if err := rows.Scan(&id, &messageID, &recip, &eventType, &occurredAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan email event: %w", err)
		}

		event, err := rehydrate(id, messageID, recip, eventType, occurredAt, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ListSince returns every tracked event that occurred at or after since,
// ordered by occurrence. Demand forecasting reads its history through this.
func (r *SQLiteEventRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.EmailEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, recipient, event_type, occurred_at, created_at, updated_at
		FROM email_events
		WHERE occurred_at >= ?
		ORDER BY occurred_at`, since.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("query email events: %w", err)
	}
	defer rows.Close()

	var events []*domain.EmailEvent
	for rows.Next() {
		var (
			id         string
			messageID  string
			recip      string
			eventType  string
			occurredAt string
			createdAt  string
			updatedAt  string
		)
		if err := rows.Scan(&id, &messageID, &recip, &eventType, &occurredAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan email event: %w", err)
		}

		event, err := rehydrate(id, messageID, recip, eventType, occurredAt, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func rehydrate(id, messageID, recipient, eventType, occurredAt, createdAt, updatedAt string) (*domain.EmailEvent, error) {
	entityID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	occurred, err := time.Parse(timeFormat, occurredAt)
	if err != nil {
		return nil, fmt.Errorf("parse occurred_at: %w", err)
	}
	created, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := time.Parse(timeFormat, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &domain.EmailEvent{
		BaseEntity: shared.RehydrateBaseEntity(entityID, created, updated),
		MessageID:  messageID,
		Recipient:  recipient,
		Type:       domain.EventType(eventType),
		OccurredAt: occurred,
	}, nil
}
