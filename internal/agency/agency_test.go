package agency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/agents/application"
	"github.com/fernwehr/salesloop/internal/agents/domain"
	licensing "github.com/fernwehr/salesloop/internal/licensing/application"
	"github.com/fernwehr/salesloop/internal/licensing/infrastructure/persistence"
)

type scriptedAgent struct {
	name     string
	tasks    []string
	failures int
}

func (a *scriptedAgent) Name() string { return a.name }

func (a *scriptedAgent) Execute(_ context.Context, task string) (string, error) {
	a.tasks = append(a.tasks, task)
	if a.failures > 0 {
		a.failures--
		return "", errors.New("transient")
	}
	return "done: " + task, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, ids []string) ([]domain.Tool, error) {
	tools := make([]domain.Tool, 0, len(ids))
	for range ids {
		tools = append(tools, nil)
	}
	return tools, nil
}

type stubModel struct{}

func (stubModel) Complete(_ context.Context, _ string) (string, error) { return "ok", nil }

func newTestAgency(t *testing.T) (*Agency, *licensing.Service, map[string]*scriptedAgent) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := licensing.NewService(persistence.NewMemoryGrantRepository(), logger)
	factory := application.NewFactory(svc, stubModel{}, stubResolver{}, logger)

	created := make(map[string]*scriptedAgent)
	for _, def := range Builtins(domain.ConstructorFunc(func(_ context.Context, spec domain.Spec) (domain.Agent, error) {
		agent := &scriptedAgent{name: spec.Name}
		created[spec.Name] = agent
		return agent, nil
	})) {
		factory.Register(def)
	}
	return New(factory, logger), svc, created
}

func TestAssembleFreshUserGetsLeadGeneratorOnly(t *testing.T) {
	agency, _, _ := newTestAgency(t)

	crew, err := agency.Assemble(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, crew.Agents(), 1)
	assert.Equal(t, "Lead Generator", crew.Agents()[0].Name())
}

func TestAssembleIncludesUnlockedPremiumAgents(t *testing.T) {
	agency, svc, _ := newTestAgency(t)
	ctx := context.Background()

	_, err := svc.UnlockAgent(ctx, "user-1", "email_automation")
	require.NoError(t, err)
	_, err = svc.UnlockAgent(ctx, "user-1", "crm")
	require.NoError(t, err)

	crew, err := agency.Assemble(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, crew.Agents(), 3)
	assert.Equal(t, "Lead Generator", crew.Agents()[0].Name())
	assert.Equal(t, "Email Manager", crew.Agents()[1].Name())
	assert.Equal(t, "CRM Manager", crew.Agents()[2].Name())
}

func TestExecuteSalesWorkflowTaskTexts(t *testing.T) {
	agency, svc, created := newTestAgency(t)
	ctx := context.Background()

	_, err := svc.UnlockAgent(ctx, "user-1", "email_automation")
	require.NoError(t, err)
	_, err = svc.UnlockAgent(ctx, "user-1", "crm")
	require.NoError(t, err)

	results, err := agency.ExecuteSalesWorkflow(ctx, "user-1",
		"software", "50-200", []string{"CTO", "VP Engineering"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t,
		[]string{"Find leads in software with company size 50-200 targeting CTO, VP Engineering"},
		created["Lead Generator"].tasks)
	assert.Equal(t,
		[]string{"Send personalized outreach emails to qualified leads"},
		created["Email Manager"].tasks)
	assert.Equal(t,
		[]string{"Update CRM with latest lead information and interaction data"},
		created["CRM Manager"].tasks)
	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.NotEmpty(t, result.Output)
	}
}

func TestSalesTasksRouteByTypeNotPersonaName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scout := &scriptedAgent{name: "Scout"}
	mailer := &scriptedAgent{name: "Mailer"}
	crew := &Crew{
		members: []crewMember{
			{agentType: "lead_generation", agent: scout},
			{agentType: "email_automation", agent: mailer},
		},
		maxIterations: DefaultMaxIterations,
		logger:        logger,
	}

	tasks := crew.SalesTasks("retail", "1-10", []string{"Owner"})
	require.Len(t, tasks, 2)
	assert.Same(t, scout, tasks[0].Agent)
	assert.Equal(t, "Find leads in retail with company size 1-10 targeting Owner", tasks[0].Text)
	assert.Same(t, mailer, tasks[1].Agent)
	assert.Equal(t, "Send personalized outreach emails to qualified leads", tasks[1].Text)
}

func TestRunRetriesTransientFailures(t *testing.T) {
	agency, _, created := newTestAgency(t)
	ctx := context.Background()

	crew, err := agency.Assemble(ctx, "user-1")
	require.NoError(t, err)
	created["Lead Generator"].failures = 2

	results := crew.Run(ctx, crew.SalesTasks("fintech", "10-50", []string{"CFO"}))
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.Len(t, created["Lead Generator"].tasks, 3)
}

func TestRunRecordsPersistentFailureAndContinues(t *testing.T) {
	agency, svc, created := newTestAgency(t)
	ctx := context.Background()

	_, err := svc.UnlockAgent(ctx, "user-1", "crm")
	require.NoError(t, err)

	crew, err := agency.Assemble(ctx, "user-1")
	require.NoError(t, err)
	created["Lead Generator"].failures = DefaultMaxIterations + 1

	results := crew.Run(ctx, crew.SalesTasks("fintech", "10-50", []string{"CFO"}))
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, created["Lead Generator"].tasks, DefaultMaxIterations)
}
