package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fernwehr/salesloop/internal/leads/domain"
	"github.com/fernwehr/salesloop/internal/leads/infrastructure/cache"
)

// SearchProvider finds prospects matching search criteria.
type SearchProvider interface {
	Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Lead, error)
}

// Enricher looks up supplementary profile data for an email.
type Enricher interface {
	Enrich(ctx context.Context, email string) (domain.Enrichment, error)
}

// EnrichmentCache stores enrichment results between lookups.
type EnrichmentCache interface {
	Get(ctx context.Context, email string) (domain.Enrichment, error)
	Set(ctx context.Context, email string, enrichment domain.Enrichment) error
}

// Service coordinates prospect search and enrichment. The cache is optional;
// without one every enrichment goes to the provider.
type Service struct {
	search   SearchProvider
	enricher Enricher
	cache    EnrichmentCache
	logger   *slog.Logger
}

func NewService(search SearchProvider, enricher Enricher, enrichmentCache EnrichmentCache, logger *slog.Logger) *Service {
	return &Service{
		search:   search,
		enricher: enricher,
		cache:    enrichmentCache,
		logger:   logger,
	}
}

// SearchLeads returns normalized leads matching the criteria.
func (s *Service) SearchLeads(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Lead, error) {
	leads, err := s.search.Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}

	s.logger.InfoContext(ctx, "lead search completed",
		slog.String("industry", criteria.Industry),
		slog.Int("results", len(leads)))
	return leads, nil
}

// EnrichLead returns profile data for an email, consulting the cache first.
// Cache write failures are logged, not returned: a broken cache degrades to
// direct lookups.
func (s *Service) EnrichLead(ctx context.Context, email string) (domain.Enrichment, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, email)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			s.logger.WarnContext(ctx, "enrichment cache read failed",
				slog.String("error", err.Error()))
		}
	}

	enrichment, err := s.enricher.Enrich(ctx, email)
	if err != nil {
		return domain.Enrichment{}, fmt.Errorf("enrich lead: %w", err)
	}

	if s.cache != nil && !enrichment.IsEmpty() {
		if err := s.cache.Set(ctx, email, enrichment); err != nil {
			s.logger.WarnContext(ctx, "enrichment cache write failed",
				slog.String("error", err.Error()))
		}
	}
	return enrichment, nil
}
