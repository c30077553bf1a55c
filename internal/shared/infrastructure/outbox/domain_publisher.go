package outbox

import (
	"context"
	"fmt"

	"github.com/fernwehr/salesloop/internal/shared/domain"
)

// DomainPublisher stores domain events in the outbox instead of publishing
// them directly. The processor delivers them with retries, so a publish
// survives broker downtime.
type DomainPublisher struct {
	repo Repository
}

func NewDomainPublisher(repo Repository) *DomainPublisher {
	return &DomainPublisher{repo: repo}
}

func (p *DomainPublisher) PublishDomainEvent(ctx context.Context, event domain.DomainEvent) error {
	msg, err := NewMessage(event)
	if err != nil {
		return fmt.Errorf("build outbox message: %w", err)
	}
	if err := p.repo.Save(ctx, msg); err != nil {
		return fmt.Errorf("save outbox message: %w", err)
	}
	return nil
}
