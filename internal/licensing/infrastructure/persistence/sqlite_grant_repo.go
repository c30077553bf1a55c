package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/fernwehr/salesloop/internal/licensing/domain"
)

// SQLiteGrantRepository implements domain.GrantRepository using SQLite.
// Each operation runs in a transaction so the lazy seeding and the mutation
// form one exclusive-access scope.
type SQLiteGrantRepository struct {
	db *sql.DB
}

// NewSQLiteGrantRepository creates a new SQLite grant repository.
func NewSQLiteGrantRepository(db *sql.DB) *SQLiteGrantRepository {
	return &SQLiteGrantRepository{db: db}
}

// Ensure seeds the user with the default grant if unknown.
func (r *SQLiteGrantRepository) Ensure(ctx context.Context, userID string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return ensureUser(ctx, tx, userID)
	})
}

// Add seeds the user if needed, then adds the grant.
func (r *SQLiteGrantRepository) Add(ctx context.Context, userID, agentType string) (bool, error) {
	var added bool
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO agent_grants (user_id, agent_type, unlocked_at) VALUES (?, ?, ?)`,
			userID, agentType, time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		added = rows > 0
		return nil
	})
	return added, err
}

// Has seeds the user if needed, then reports membership.
func (r *SQLiteGrantRepository) Has(ctx context.Context, userID, agentType string) (bool, error) {
	var held bool
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		row := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM agent_grants WHERE user_id = ? AND agent_type = ?`,
			userID, agentType,
		)
		var count int
		if err := row.Scan(&count); err != nil {
			return err
		}
		held = count > 0
		return nil
	})
	return held, err
}

// List seeds the user if needed, then returns a snapshot of the grant set.
func (r *SQLiteGrantRepository) List(ctx context.Context, userID string) ([]string, error) {
	var types []string
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUser(ctx, tx, userID); err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx,
			`SELECT agent_type FROM agent_grants WHERE user_id = ? ORDER BY unlocked_at, agent_type`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var agentType string
			if err := rows.Scan(&agentType); err != nil {
				return err
			}
			types = append(types, agentType)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

// Remove deletes the grant without seeding.
func (r *SQLiteGrantRepository) Remove(ctx context.Context, userID, agentType string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM agent_grants WHERE user_id = ? AND agent_type = ?`,
		userID, agentType,
	)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *SQLiteGrantRepository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func ensureUser(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO agent_grants (user_id, agent_type, unlocked_at) VALUES (?, ?, ?)`,
		userID, domain.DefaultAgentType, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
