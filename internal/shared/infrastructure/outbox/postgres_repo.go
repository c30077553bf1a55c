package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository on PostgreSQL via pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const insertOutboxSQL = `
	INSERT INTO outbox_events (event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

func (r *PostgresRepository) Save(ctx context.Context, msg *Message) error {
	err := r.pool.QueryRow(ctx, insertOutboxSQL,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType,
		msg.RoutingKey, msg.Payload, msg.Metadata, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin outbox batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, msg := range msgs {
		err := tx.QueryRow(ctx, insertOutboxSQL,
			msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType,
			msg.RoutingKey, msg.Payload, msg.Metadata, msg.CreatedAt,
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("insert outbox message: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key, payload, metadata,
		       created_at, published_at, next_retry_at, retry_count, last_error, dead_lettered_at, dead_letter_reason
		FROM outbox_events
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= now())
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished messages: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanPostgresMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *PostgresRepository) MarkPublished(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE outbox_events SET published_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("mark message %d published: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events
		SET retry_count = retry_count + 1, last_error = $1, next_retry_at = $2
		WHERE id = $3`, errMsg, nextRetryAt, id)
	if err != nil {
		return fmt.Errorf("mark message %d failed: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events
		SET dead_lettered_at = now(), dead_letter_reason = $1
		WHERE id = $2`, reason, id)
	if err != nil {
		return fmt.Errorf("mark message %d dead: %w", id, err)
	}
	return nil
}

func (r *PostgresRepository) DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM outbox_events WHERE published_at IS NOT NULL AND published_at < now() - $1::interval",
		olderThan.String())
	if err != nil {
		return 0, fmt.Errorf("delete old messages: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanPostgresMessage(rows pgx.Rows) (*Message, error) {
	var msg Message
	if err := rows.Scan(
		&msg.ID, &msg.EventID, &msg.AggregateType, &msg.AggregateID, &msg.EventType, &msg.RoutingKey,
		&msg.Payload, &msg.Metadata, &msg.CreatedAt, &msg.PublishedAt, &msg.NextRetryAt,
		&msg.RetryCount, &msg.LastError, &msg.DeadLetteredAt, &msg.DeadLetterReason,
	); err != nil {
		return nil, fmt.Errorf("scan outbox message: %w", err)
	}
	return &msg, nil
}
