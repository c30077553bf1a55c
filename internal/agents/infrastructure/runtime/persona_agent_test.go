package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/agents/domain"
)

type fakeModel struct {
	prompt string
	out    string
}

func (m *fakeModel) Complete(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.out, nil
}

type fakeTool string

func (t fakeTool) Name() string { return string(t) }

func (t fakeTool) Invoke(_ context.Context, _ string) (string, error) { return "", nil }

func TestConstructor(t *testing.T) {
	t.Run("requires a model", func(t *testing.T) {
		_, err := Constructor().New(context.Background(), domain.Spec{Name: "Scout"})
		require.Error(t, err)
	})

	t.Run("builds a named agent", func(t *testing.T) {
		agent, err := Constructor().New(context.Background(), domain.Spec{
			Name:  "Scout",
			Model: &fakeModel{},
		})
		require.NoError(t, err)
		assert.Equal(t, "Scout", agent.Name())
	})
}

func TestPersonaAgentExecute(t *testing.T) {
	model := &fakeModel{out: "  found 3 leads \n"}
	agent, err := Constructor().New(context.Background(), domain.Spec{
		Name:      "Scout",
		Role:      "lead researcher",
		Goal:      "find qualified prospects",
		Backstory: "years of outbound experience",
		Model:     model,
		Tools:     []domain.Tool{fakeTool("search"), fakeTool("enrich")},
	})
	require.NoError(t, err)

	out, err := agent.Execute(context.Background(), "find SaaS companies in Berlin")
	require.NoError(t, err)
	assert.Equal(t, "found 3 leads", out)

	assert.Contains(t, model.prompt, "Scout, a lead researcher")
	assert.Contains(t, model.prompt, "Goal: find qualified prospects")
	assert.Contains(t, model.prompt, "Backstory: years of outbound experience")
	assert.Contains(t, model.prompt, "Available tools: search, enrich")
	assert.Contains(t, model.prompt, "Task: find SaaS companies in Berlin")
}
