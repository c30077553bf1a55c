// Package application drafts marketing content and campaign plans with the
// shared language model. Content creation is open to every user; campaign
// planning requires the campaign_management grant.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
)

// CapabilityCampaignManagement is the licensing grant that unlocks campaign
// planning and analysis.
const CapabilityCampaignManagement = "campaign_management"

// DefaultTone is used when the caller does not pick one.
const DefaultTone = "professional"

// ErrPremiumRequired is returned when a user without the campaign grant asks
// for campaign planning.
var ErrPremiumRequired = errors.New("campaign management requires premium access")

// AccessControl is the slice of the licensing service the assistant needs.
type AccessControl interface {
	CheckAccess(ctx context.Context, userID, capability string) (bool, error)
}

// Model produces completions for rendered prompts.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const contentTemplate = `Create engaging {{.Platform}} content about {{.Topic}} with a {{.Tone}} tone.
The content should be informative, engaging, and aligned with our brand voice.
Include relevant hashtags and call-to-actions where appropriate.`

const campaignTemplate = `Design a marketing campaign for {{.TargetAudience}} with the objective of {{.Objective}}.
Consider the budget of {{.Budget}} and suggest optimal channel allocation and timing.`

// ContentInput parameterizes a piece of marketing content.
type ContentInput struct {
	Topic    string
	Platform string
	Tone     string
}

// CampaignInput parameterizes a campaign plan.
type CampaignInput struct {
	TargetAudience string
	Objective      string
	Budget         float64
}

// Assistant renders marketing prompts and runs them through the model.
type Assistant struct {
	access   AccessControl
	model    Model
	content  *template.Template
	campaign *template.Template
	logger   *slog.Logger
}

func NewAssistant(access AccessControl, model Model, logger *slog.Logger) *Assistant {
	return &Assistant{
		access:   access,
		model:    model,
		content:  template.Must(template.New("content").Parse(contentTemplate)),
		campaign: template.Must(template.New("campaign").Parse(campaignTemplate)),
		logger:   logger,
	}
}

// GenerateContent drafts platform-specific marketing copy. An empty tone
// falls back to DefaultTone.
func (a *Assistant) GenerateContent(ctx context.Context, in ContentInput) (string, error) {
	if in.Tone == "" {
		in.Tone = DefaultTone
	}
	prompt, err := render(a.content, in)
	if err != nil {
		return "", err
	}
	out, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CreateCampaignPlan drafts a campaign plan for users holding the campaign
// grant; everyone else gets ErrPremiumRequired.
func (a *Assistant) CreateCampaignPlan(ctx context.Context, userID string, in CampaignInput) (string, error) {
	ok, err := a.access.CheckAccess(ctx, userID, CapabilityCampaignManagement)
	if err != nil {
		return "", fmt.Errorf("check campaign access: %w", err)
	}
	if !ok {
		a.logger.WarnContext(ctx, "campaign planning locked",
			slog.String("user_id", userID))
		return "", ErrPremiumRequired
	}

	prompt, err := render(a.campaign, struct {
		TargetAudience string
		Objective      string
		Budget         string
	}{
		TargetAudience: in.TargetAudience,
		Objective:      in.Objective,
		Budget:         fmt.Sprintf("$%.2f", in.Budget),
	})
	if err != nil {
		return "", err
	}
	out, err := a.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("create campaign plan: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return sb.String(), nil
}
