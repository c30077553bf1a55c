// Package persistence provides the SQLite store for meetings.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fernwehr/salesloop/internal/meetings/domain"
)

const timeFormat = time.RFC3339Nano

// SQLiteMeetingRepository implements domain.MeetingRepository on SQLite.
type SQLiteMeetingRepository struct {
	db *sql.DB
}

func NewSQLiteMeetingRepository(db *sql.DB) *SQLiteMeetingRepository {
	return &SQLiteMeetingRepository{db: db}
}

func (r *SQLiteMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meetings (id, title, starts_at, ends_at, organizer, attendee, provider, external_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			starts_at = excluded.starts_at,
			ends_at = excluded.ends_at,
			external_id = excluded.external_id,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		meeting.ID().String(),
		meeting.Title(),
		meeting.StartsAt().UTC().Format(timeFormat),
		meeting.EndsAt().UTC().Format(timeFormat),
		meeting.Organizer(),
		meeting.Attendee(),
		string(meeting.Provider()),
		nullString(meeting.ExternalID()),
		string(meeting.Status()),
		meeting.CreatedAt().UTC().Format(timeFormat),
		meeting.UpdatedAt().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("save meeting: %w", err)
	}
	return nil
}

func (r *SQLiteMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, starts_at, ends_at, organizer, attendee, provider, external_id, status, created_at, updated_at
		FROM meetings WHERE id = ?`, id.String())

	meeting, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrMeetingNotFound
	}
	return meeting, err
}

func (r *SQLiteMeetingRepository) ListByAttendee(ctx context.Context, attendee string) ([]*domain.Meeting, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, starts_at, ends_at, organizer, attendee, provider, external_id, status, created_at, updated_at
		FROM meetings WHERE attendee = ? ORDER BY starts_at`, attendee)
	if err != nil {
		return nil, fmt.Errorf("query meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*domain.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	return meetings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var (
		id         string
		title      string
		startsAt   string
		endsAt     string
		organizer  string
		attendee   string
		provider   string
		externalID sql.NullString
		status     string
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&id, &title, &startsAt, &endsAt, &organizer, &attendee,
		&provider, &externalID, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan meeting: %w", err)
	}

	meetingID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse meeting id: %w", err)
	}
	starts, err := time.Parse(timeFormat, startsAt)
	if err != nil {
		return nil, fmt.Errorf("parse starts_at: %w", err)
	}
	ends, err := time.Parse(timeFormat, endsAt)
	if err != nil {
		return nil, fmt.Errorf("parse ends_at: %w", err)
	}
	created, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := time.Parse(timeFormat, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return domain.RehydrateMeeting(meetingID, title, starts, ends, organizer, attendee,
		domain.Provider(provider), externalID.String, domain.Status(status), created, updated)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
