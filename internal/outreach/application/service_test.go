package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/outreach/domain"
	"github.com/fernwehr/salesloop/internal/outreach/infrastructure/sendgrid"
)

type fakeSender struct {
	sent []sendgrid.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, email sendgrid.Email) (sendgrid.SendResult, error) {
	if f.err != nil {
		return sendgrid.SendResult{}, f.err
	}
	f.sent = append(f.sent, email)
	return sendgrid.SendResult{MessageID: "m1", SentAt: time.Now()}, nil
}

type memoryEventRepo struct {
	events  []*domain.EmailEvent
	saveErr error
}

func (r *memoryEventRepo) Save(_ context.Context, event *domain.EmailEvent) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.events = append(r.events, event)
	return nil
}

func (r *memoryEventRepo) ListByRecipient(_ context.Context, recipient string) ([]*domain.EmailEvent, error) {
	var out []*domain.EmailEvent
	for _, e := range r.events {
		if e.Recipient == recipient {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService(sender Sender, events domain.EmailEventRepository) *Service {
	return NewService(sender, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendEmail(t *testing.T) {
	t.Run("delivers immediately without a send time", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newTestService(sender, &memoryEventRepo{})

		result, err := svc.SendEmail(context.Background(), "ada@tensor.io", "Hello", "<p>hi</p>")
		require.NoError(t, err)
		assert.Equal(t, "m1", result.MessageID)
		require.Len(t, sender.sent, 1)
		assert.True(t, sender.sent[0].SendAt.IsZero())
	})

	t.Run("delivery failure surfaces", func(t *testing.T) {
		svc := newTestService(&fakeSender{err: errors.New("rejected")}, &memoryEventRepo{})
		_, err := svc.SendEmail(context.Background(), "ada@tensor.io", "Hello", "<p>hi</p>")
		require.Error(t, err)
	})
}

func TestScheduleFollowUp(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("defers by the requested delay", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newTestService(sender, &memoryEventRepo{})
		svc.now = func() time.Time { return fixed }

		_, err := svc.ScheduleFollowUp(context.Background(), "ada@tensor.io", "Ping", "<p>still there?</p>", 24*time.Hour)
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, fixed.Add(24*time.Hour), sender.sent[0].SendAt)
	})

	t.Run("non-positive delay uses the default", func(t *testing.T) {
		sender := &fakeSender{}
		svc := newTestService(sender, &memoryEventRepo{})
		svc.now = func() time.Time { return fixed }

		_, err := svc.ScheduleFollowUp(context.Background(), "ada@tensor.io", "Ping", "", 0)
		require.NoError(t, err)
		assert.Equal(t, fixed.Add(DefaultFollowUpDelay), sender.sent[0].SendAt)
	})
}

func TestRecordEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("stores tracked event types", func(t *testing.T) {
		repo := &memoryEventRepo{}
		svc := newTestService(&fakeSender{}, repo)

		require.NoError(t, svc.RecordEvent(ctx, "m1", "ada@tensor.io", domain.EventOpen, now))
		require.Len(t, repo.events, 1)
		assert.Equal(t, domain.EventOpen, repo.events[0].Type)
	})

	t.Run("untracked types are dropped silently", func(t *testing.T) {
		repo := &memoryEventRepo{}
		svc := newTestService(&fakeSender{}, repo)

		require.NoError(t, svc.RecordEvent(ctx, "m1", "ada@tensor.io", "delivered", now))
		assert.Empty(t, repo.events)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		repo := &memoryEventRepo{saveErr: errors.New("disk full")}
		svc := newTestService(&fakeSender{}, repo)
		require.Error(t, svc.RecordEvent(ctx, "m1", "ada@tensor.io", domain.EventClick, now))
	})
}

func TestPlanFollowUp(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		events    []domain.EventType
		wantLevel domain.EngagementLevel
		wantDelay time.Duration
	}{
		{"clicker gets one day", []domain.EventType{domain.EventOpen, domain.EventClick}, domain.EngagementHigh, 24 * time.Hour},
		{"opener gets two days", []domain.EventType{domain.EventOpen}, domain.EngagementMedium, 48 * time.Hour},
		{"silence gets four days", nil, domain.EngagementNone, 96 * time.Hour},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memoryEventRepo{}
			for _, eventType := range tc.events {
				repo.events = append(repo.events,
					domain.NewEmailEvent("m1", "ada@tensor.io", eventType, fixed.Add(-time.Hour)))
			}
			svc := newTestService(&fakeSender{}, repo)
			svc.now = func() time.Time { return fixed }

			plan, err := svc.PlanFollowUp(ctx, "ada@tensor.io")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, plan.Engagement.Level)
			assert.Equal(t, fixed.Add(tc.wantDelay), plan.SendAt)
		})
	}
}
