package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fernwehr/salesloop/internal/outreach/domain"
	"github.com/fernwehr/salesloop/internal/outreach/infrastructure/sendgrid"
)

// DefaultFollowUpDelay is used when no engagement history informs the delay.
const DefaultFollowUpDelay = 3 * 24 * time.Hour

// Sender delivers tracked email.
type Sender interface {
	Send(ctx context.Context, email sendgrid.Email) (sendgrid.SendResult, error)
}

// FollowUpPlan schedules the next touch for a recipient.
type FollowUpPlan struct {
	Engagement domain.Engagement
	SendAt     time.Time
}

// Service coordinates outbound email and delivery-event tracking.
type Service struct {
	sender Sender
	events domain.EmailEventRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(sender Sender, events domain.EmailEventRepository, logger *slog.Logger) *Service {
	return &Service{
		sender: sender,
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// SendEmail delivers a message immediately.
func (s *Service) SendEmail(ctx context.Context, to, subject, html string) (sendgrid.SendResult, error) {
	result, err := s.sender.Send(ctx, sendgrid.Email{To: to, Subject: subject, HTML: html})
	if err != nil {
		return sendgrid.SendResult{}, fmt.Errorf("send email: %w", err)
	}

	s.logger.InfoContext(ctx, "email sent",
		slog.String("recipient", to),
		slog.String("message_id", result.MessageID))
	return result, nil
}

// ScheduleFollowUp defers a message by delay. A non-positive delay falls
// back to the default.
func (s *Service) ScheduleFollowUp(ctx context.Context, to, subject, html string, delay time.Duration) (sendgrid.SendResult, error) {
	if delay <= 0 {
		delay = DefaultFollowUpDelay
	}
	sendAt := s.now().UTC().Add(delay)

	result, err := s.sender.Send(ctx, sendgrid.Email{To: to, Subject: subject, HTML: html, SendAt: sendAt})
	if err != nil {
		return sendgrid.SendResult{}, fmt.Errorf("schedule follow-up: %w", err)
	}

	s.logger.InfoContext(ctx, "follow-up scheduled",
		slog.String("recipient", to),
		slog.Time("send_at", sendAt))
	return result, nil
}

// RecordEvent stores a provider delivery event. Event types outside the
// tracked set are dropped silently, matching what the webhook receives for
// processed/delivered noise.
func (s *Service) RecordEvent(ctx context.Context, messageID, recipient string, eventType domain.EventType, occurredAt time.Time) error {
	if !eventType.IsValid() {
		s.logger.DebugContext(ctx, "ignoring untracked event type",
			slog.String("event_type", string(eventType)))
		return nil
	}

	event := domain.NewEmailEvent(messageID, recipient, eventType, occurredAt)
	if err := s.events.Save(ctx, event); err != nil {
		return fmt.Errorf("record email event: %w", err)
	}
	return nil
}

// PlanFollowUp derives the next-touch schedule from a recipient's history.
func (s *Service) PlanFollowUp(ctx context.Context, recipient string) (FollowUpPlan, error) {
	events, err := s.events.ListByRecipient(ctx, recipient)
	if err != nil {
		return FollowUpPlan{}, fmt.Errorf("load engagement history: %w", err)
	}

	engagement := domain.AnalyzeEngagement(events)
	return FollowUpPlan{
		Engagement: engagement,
		SendAt:     s.now().UTC().Add(engagement.Level.FollowUpDelay()),
	}, nil
}
