package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/shared/domain"
	"github.com/fernwehr/salesloop/internal/shared/infrastructure/database"
)

type fakePublisher struct {
	published []string
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type grantRevoked struct {
	domain.BaseEvent
	AgentType string `json:"agent_type"`
}

func newTestEvent(t *testing.T) *grantRevoked {
	t.Helper()
	event := &grantRevoked{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "grant", "licensing.grant.revoked"),
		AgentType: "email_automation",
	}
	event.SetMetadata(domain.NewEventMetadata("u1"))
	return event
}

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func newTestProcessor(repo Repository, pub *fakePublisher, cfg ProcessorConfig) *Processor {
	return NewProcessor(repo, pub, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewMessage(t *testing.T) {
	event := newTestEvent(t)

	msg, err := NewMessage(event)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "licensing.grant.revoked", msg.RoutingKey)
	assert.Equal(t, "grant", msg.AggregateType)
	assert.Contains(t, string(msg.Payload), "email_automation")
	assert.Contains(t, string(msg.Metadata), "u1")
	assert.False(t, msg.IsPublished())
	assert.True(t, msg.CanRetry(1))
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save assigns an id and round-trips", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)

		require.NoError(t, repo.Save(ctx, msg))
		assert.NotZero(t, msg.ID)

		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, msg.EventID, got[0].EventID)
		assert.Equal(t, msg.RoutingKey, got[0].RoutingKey)
		assert.JSONEq(t, string(msg.Payload), string(got[0].Payload))
	})

	t.Run("published messages leave the unpublished set", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, msg))

		require.NoError(t, repo.MarkPublished(ctx, msg.ID))

		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("failed messages wait for their retry time", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, msg))

		require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(time.Hour)))
		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)

		require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(-time.Second)))
		got, err = repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].RetryCount)
		require.NotNil(t, got[0].LastError)
		assert.Equal(t, "broker down", *got[0].LastError)
	})

	t.Run("dead-lettered messages never return", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, msg))

		require.NoError(t, repo.MarkDead(ctx, msg.ID, "poison"))
		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("save batch is atomic and ordered", func(t *testing.T) {
		repo := newTestRepo(t)
		var msgs []*Message
		for range 3 {
			msg, err := NewMessage(newTestEvent(t))
			require.NoError(t, err)
			msgs = append(msgs, msg)
		}
		require.NoError(t, repo.SaveBatch(ctx, msgs))
		for _, msg := range msgs {
			assert.NotZero(t, msg.ID)
		}

		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("delete old removes only published history", func(t *testing.T) {
		repo := newTestRepo(t)
		published, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		pending, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, published))
		require.NoError(t, repo.Save(ctx, pending))
		require.NoError(t, repo.MarkPublished(ctx, published.ID))

		deleted, err := repo.DeleteOld(ctx, -time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes staged messages and marks them", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, msg))

		pub := &fakePublisher{}
		p := newTestProcessor(repo, pub, DefaultProcessorConfig())

		require.NoError(t, p.ProcessOnce(ctx))
		assert.Equal(t, []string{"licensing.grant.revoked"}, pub.published)

		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("failures back off and eventually dead-letter", func(t *testing.T) {
		repo := newTestRepo(t)
		msg, err := NewMessage(newTestEvent(t))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, msg))

		pub := &fakePublisher{err: errors.New("broker down")}
		cfg := DefaultProcessorConfig()
		cfg.MaxRetries = 2
		cfg.RetryBackoffBase = time.Nanosecond
		cfg.RetryBackoffMax = time.Nanosecond
		p := newTestProcessor(repo, pub, cfg)

		// First attempt fails and schedules a retry.
		require.NoError(t, p.ProcessOnce(ctx))
		time.Sleep(10 * time.Millisecond)
		got, err := repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].RetryCount)

		// Second attempt exhausts retries and dead-letters.
		require.NoError(t, p.ProcessOnce(ctx))
		got, err = repo.GetUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		repo := newTestRepo(t)
		p := newTestProcessor(repo, &fakePublisher{}, DefaultProcessorConfig())

		require.NoError(t, p.Start(ctx))
		require.NoError(t, p.Start(ctx))
		assert.True(t, p.IsRunning())
		p.Stop()
		p.Stop()
		assert.False(t, p.IsRunning())
	})
}

func TestRetryBackoff(t *testing.T) {
	p := newTestProcessor(nil, &fakePublisher{}, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  10 * time.Second,
	})

	assert.Equal(t, time.Second, p.retryBackoff(1))
	assert.Equal(t, 2*time.Second, p.retryBackoff(2))
	assert.Equal(t, 4*time.Second, p.retryBackoff(3))
	assert.Equal(t, 8*time.Second, p.retryBackoff(4))
	assert.Equal(t, 10*time.Second, p.retryBackoff(5))
	assert.Equal(t, 10*time.Second, p.retryBackoff(20))
}
