// Package application generates outreach copy and classifies prospect
// replies using the shared language model.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/fernwehr/salesloop/internal/messaging/domain"
)

// Model produces completions for composed prompts.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const outreachTemplate = `Hi {{.LeadName}},

I noticed {{.Company}} is facing {{.PainPoint}}. We specialize in helping businesses like yours automate and optimize their sales processes.

I'd love to share how we've helped similar companies achieve significant improvements in their sales efficiency. Would you be open to a brief call to explore how we could help {{.Company}}?

Best regards`

const followUpTemplate = `Hi {{.LeadName}}, I wanted to follow up on my previous message regarding {{.PreviousContext}}. Would you be interested in learning more about how we can help?`

const classifyTemplate = `Classify the following sales prospect response as either 'positive' (showing clear interest), 'neutral' (needs more nurturing), or 'negative' (not interested):

{{.Response}}`

// OutreachInput parameterizes an initial outreach message.
type OutreachInput struct {
	LeadName  string
	Company   string
	PainPoint string
}

// FollowUpInput parameterizes a follow-up message.
type FollowUpInput struct {
	LeadName        string
	PreviousContext string
}

// Composer renders message prompts and runs them through the model.
type Composer struct {
	model    Model
	outreach *template.Template
	followUp *template.Template
	classify *template.Template
	logger   *slog.Logger
}

func NewComposer(model Model, logger *slog.Logger) *Composer {
	return &Composer{
		model:    model,
		outreach: template.Must(template.New("outreach").Parse(outreachTemplate)),
		followUp: template.Must(template.New("follow_up").Parse(followUpTemplate)),
		classify: template.Must(template.New("classify").Parse(classifyTemplate)),
		logger:   logger,
	}
}

// ComposeOutreach generates a personalized initial message for a lead.
func (c *Composer) ComposeOutreach(ctx context.Context, in OutreachInput) (string, error) {
	prompt, err := render(c.outreach, in)
	if err != nil {
		return "", err
	}
	out, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("compose outreach: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ComposeFollowUp generates a follow-up referencing the previous exchange.
func (c *Composer) ComposeFollowUp(ctx context.Context, in FollowUpInput) (string, error) {
	prompt, err := render(c.followUp, in)
	if err != nil {
		return "", err
	}
	out, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("compose follow-up: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ClassifyResponse buckets a prospect's reply as positive, neutral or
// negative. Model output that names no known sentiment counts as neutral.
func (c *Composer) ClassifyResponse(ctx context.Context, responseText string) (domain.Sentiment, error) {
	prompt, err := render(c.classify, struct{ Response string }{Response: responseText})
	if err != nil {
		return "", err
	}
	out, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("classify response: %w", err)
	}

	sentiment := domain.ParseSentiment(out)
	c.logger.DebugContext(ctx, "classified prospect response",
		slog.String("sentiment", string(sentiment)))
	return sentiment, nil
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return sb.String(), nil
}
