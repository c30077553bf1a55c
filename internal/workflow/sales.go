// Package workflow runs the outbound sales workflow with durable retries.
package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fernwehr/salesloop/internal/agency"
	sharedDomain "github.com/fernwehr/salesloop/internal/shared/domain"
)

// SalesCompleted is published when a workflow run finishes, successfully or
// not, so downstream consumers can pick up the outcome.
type SalesCompleted struct {
	sharedDomain.BaseEvent
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
	Tasks       int    `json:"tasks"`
	Failed      int    `json:"failed"`
}

func NewSalesCompleted(runID uuid.UUID, industry, companySize string, tasks, failed int) *SalesCompleted {
	return &SalesCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(runID, "workflow_run", "workflow.sales.completed"),
		Industry:    industry,
		CompanySize: companySize,
		Tasks:       tasks,
		Failed:      failed,
	}
}

// EventPublisher delivers domain events raised by workflow runs.
type EventPublisher interface {
	PublishDomainEvent(ctx context.Context, event sharedDomain.DomainEvent) error
}

// SalesWorkflow drives one user's agent crew through the outbound batch
// under the retry policy.
type SalesWorkflow struct {
	agency    *agency.Agency
	runner    *Runner
	publisher EventPublisher
	logger    *slog.Logger
}

func NewSalesWorkflow(crews *agency.Agency, runner *Runner, publisher EventPublisher, logger *slog.Logger) *SalesWorkflow {
	return &SalesWorkflow{agency: crews, runner: runner, publisher: publisher, logger: logger}
}

// Run executes the workflow for the user. Transient failures are retried per
// the runner's policy; the completion event carries how many tasks failed
// for good.
func (w *SalesWorkflow) Run(ctx context.Context, userID, industry, companySize string, jobTitles []string) ([]agency.TaskResult, error) {
	runID := uuid.New()
	logger := w.logger.With(slog.String("run_id", runID.String()), slog.String("user_id", userID))
	logger.InfoContext(ctx, "starting sales workflow", slog.String("industry", industry))

	var results []agency.TaskResult
	err := w.runner.Execute(ctx, "sales_workflow", func(ctx context.Context) error {
		var runErr error
		results, runErr = w.agency.ExecuteSalesWorkflow(ctx, userID, industry, companySize, jobTitles)
		return runErr
	})
	if err != nil {
		logger.ErrorContext(ctx, "sales workflow failed", slog.String("error", err.Error()))
		return nil, err
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}

	event := NewSalesCompleted(runID, industry, companySize, len(results), failed)
	event.SetMetadata(sharedDomain.NewEventMetadata(userID))
	if err := w.publisher.PublishDomainEvent(ctx, event); err != nil {
		// The run itself succeeded; a lost completion event is logged, not fatal.
		logger.WarnContext(ctx, "publish completion event failed", slog.String("error", err.Error()))
	}

	logger.InfoContext(ctx, "sales workflow completed",
		slog.Int("tasks", len(results)), slog.Int("failed", failed))
	return results, nil
}
