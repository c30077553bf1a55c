package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/leads/domain"
	"github.com/fernwehr/salesloop/internal/leads/infrastructure/cache"
)

type fakeSearch struct {
	criteria domain.SearchCriteria
	leads    []domain.Lead
	err      error
}

func (f *fakeSearch) Search(_ context.Context, criteria domain.SearchCriteria) ([]domain.Lead, error) {
	f.criteria = criteria
	return f.leads, f.err
}

type fakeEnricher struct {
	enrichment domain.Enrichment
	err        error
	calls      int
}

func (f *fakeEnricher) Enrich(_ context.Context, _ string) (domain.Enrichment, error) {
	f.calls++
	return f.enrichment, f.err
}

type mapCache struct {
	data   map[string]domain.Enrichment
	getErr error
	setErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string]domain.Enrichment)}
}

func (c *mapCache) Get(_ context.Context, email string) (domain.Enrichment, error) {
	if c.getErr != nil {
		return domain.Enrichment{}, c.getErr
	}
	enrichment, ok := c.data[email]
	if !ok {
		return domain.Enrichment{}, cache.ErrCacheMiss
	}
	return enrichment, nil
}

func (c *mapCache) Set(_ context.Context, email string, enrichment domain.Enrichment) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[email] = enrichment
	return nil
}

func newTestService(search SearchProvider, enricher Enricher, c EnrichmentCache) *Service {
	return NewService(search, enricher, c, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchLeads(t *testing.T) {
	t.Run("passes criteria through and returns leads", func(t *testing.T) {
		search := &fakeSearch{leads: []domain.Lead{{ID: "1", FirstName: "Ada", Company: "Tensor"}}}
		svc := newTestService(search, &fakeEnricher{}, nil)

		criteria := domain.SearchCriteria{
			Industry:    "software",
			CompanySize: "11-50",
			JobTitles:   []string{"CTO", "VP Engineering"},
			Limit:       25,
		}
		leads, err := svc.SearchLeads(context.Background(), criteria)
		require.NoError(t, err)
		require.Len(t, leads, 1)
		assert.Equal(t, criteria, search.criteria)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		svc := newTestService(&fakeSearch{err: errors.New("quota exceeded")}, &fakeEnricher{}, nil)
		_, err := svc.SearchLeads(context.Background(), domain.SearchCriteria{})
		require.Error(t, err)
	})
}

func TestEnrichLead(t *testing.T) {
	ctx := context.Background()
	profile := domain.Enrichment{Email: "ada@tensor.io", FullName: "Ada Lovelace", Title: "CTO"}

	t.Run("cache miss goes to the provider and populates the cache", func(t *testing.T) {
		enricher := &fakeEnricher{enrichment: profile}
		c := newMapCache()
		svc := newTestService(&fakeSearch{}, enricher, c)

		got, err := svc.EnrichLead(ctx, "ada@tensor.io")
		require.NoError(t, err)
		assert.Equal(t, profile, got)
		assert.Equal(t, 1, enricher.calls)
		assert.Equal(t, profile, c.data["ada@tensor.io"])
	})

	t.Run("cache hit skips the provider", func(t *testing.T) {
		enricher := &fakeEnricher{enrichment: profile}
		c := newMapCache()
		c.data["ada@tensor.io"] = profile
		svc := newTestService(&fakeSearch{}, enricher, c)

		got, err := svc.EnrichLead(ctx, "ada@tensor.io")
		require.NoError(t, err)
		assert.Equal(t, profile, got)
		assert.Zero(t, enricher.calls)
	})

	t.Run("empty enrichment is not cached", func(t *testing.T) {
		enricher := &fakeEnricher{}
		c := newMapCache()
		svc := newTestService(&fakeSearch{}, enricher, c)

		got, err := svc.EnrichLead(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
		assert.Empty(t, c.data)
	})

	t.Run("broken cache degrades to direct lookups", func(t *testing.T) {
		enricher := &fakeEnricher{enrichment: profile}
		c := newMapCache()
		c.getErr = errors.New("redis down")
		c.setErr = errors.New("redis down")
		svc := newTestService(&fakeSearch{}, enricher, c)

		got, err := svc.EnrichLead(ctx, "ada@tensor.io")
		require.NoError(t, err)
		assert.Equal(t, profile, got)
		assert.Equal(t, 1, enricher.calls)
	})

	t.Run("provider failure surfaces", func(t *testing.T) {
		svc := newTestService(&fakeSearch{}, &fakeEnricher{err: errors.New("upstream 500")}, nil)
		_, err := svc.EnrichLead(ctx, "ada@tensor.io")
		require.Error(t, err)
	})
}
