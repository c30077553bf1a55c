// Package application forecasts demand from tracked engagement history and
// drafts pricing strategy with the shared language model.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/fernwehr/salesloop/internal/forecasting/domain"
	outreachDomain "github.com/fernwehr/salesloop/internal/outreach/domain"
)

// Default forecasting window: four weekly periods.
const (
	DefaultPeriodLength = 7 * 24 * time.Hour
	DefaultPeriodCount  = 4
)

// EventHistory is the slice of the outreach event store the forecaster reads.
type EventHistory interface {
	ListSince(ctx context.Context, since time.Time) ([]*outreachDomain.EmailEvent, error)
}

// Model produces completions for rendered prompts.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const forecastTemplate = `Analyze historical sales data for {{.Category}} over the past {{.Timeframe}}:
{{.Historical}}
Provide demand forecasts, identify trends, and suggest inventory levels.`

const pricingTemplate = `Optimize pricing strategy based on:
Product Data: {{.ProductData}}
Competitor Prices: {{.CompetitorPrices}}
Market Conditions: {{.MarketConditions}}
Suggest optimal price points and promotional timing.`

// ForecastInput parameterizes a demand forecast. Zero period values fall
// back to the four-week default window.
type ForecastInput struct {
	ProductCategory string
	PeriodLength    time.Duration
	PeriodCount     int
}

// Forecast is a demand forecast over the engagement series.
type Forecast struct {
	Category  string
	Series    domain.Series
	Trend     domain.Trend
	Projected int
	Narrative string
}

// PricingInput parameterizes a pricing strategy draft.
type PricingInput struct {
	ProductData      string
	CompetitorPrices []float64
	MarketConditions string
}

// Forecaster combines the stored engagement series with model analysis.
type Forecaster struct {
	history  EventHistory
	model    Model
	forecast *template.Template
	pricing  *template.Template
	now      func() time.Time
	logger   *slog.Logger
}

func NewForecaster(history EventHistory, model Model, logger *slog.Logger) *Forecaster {
	return &Forecaster{
		history:  history,
		model:    model,
		forecast: template.Must(template.New("forecast").Parse(forecastTemplate)),
		pricing:  template.Must(template.New("pricing").Parse(pricingTemplate)),
		now:      time.Now,
		logger:   logger,
	}
}

// ForecastDemand buckets the tracked events from the covered window into the
// period series, derives trend and projection, and asks the model for a
// narrative over the same history.
func (f *Forecaster) ForecastDemand(ctx context.Context, in ForecastInput) (*Forecast, error) {
	length := in.PeriodLength
	if length <= 0 {
		length = DefaultPeriodLength
	}
	count := in.PeriodCount
	if count <= 0 {
		count = DefaultPeriodCount
	}

	start := f.now().UTC().Add(-time.Duration(count) * length)
	events, err := f.history.ListSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("load engagement history: %w", err)
	}

	interactions := make([]domain.Interaction, 0, len(events))
	for _, event := range events {
		interactions = append(interactions, domain.Interaction{
			OccurredAt: event.OccurredAt,
			Kind:       string(event.Type),
		})
	}
	series := domain.BuildSeries(interactions, start, length, count)

	prompt, err := render(f.forecast, struct {
		Category   string
		Timeframe  string
		Historical string
	}{
		Category:   in.ProductCategory,
		Timeframe:  timeframe(length, count),
		Historical: historical(series),
	})
	if err != nil {
		return nil, err
	}
	narrative, err := f.model.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("forecast demand: %w", err)
	}

	forecast := &Forecast{
		Category:  in.ProductCategory,
		Series:    series,
		Trend:     series.Trend(),
		Projected: series.ProjectNext(),
		Narrative: strings.TrimSpace(narrative),
	}
	f.logger.InfoContext(ctx, "demand forecast generated",
		slog.String("category", in.ProductCategory),
		slog.String("trend", string(forecast.Trend)),
		slog.Int("projected", forecast.Projected))
	return forecast, nil
}

// OptimizePricing drafts a pricing strategy from product, competitor and
// market inputs.
func (f *Forecaster) OptimizePricing(ctx context.Context, in PricingInput) (string, error) {
	prices := make([]string, 0, len(in.CompetitorPrices))
	for _, p := range in.CompetitorPrices {
		prices = append(prices, fmt.Sprintf("$%.2f", p))
	}

	prompt, err := render(f.pricing, struct {
		ProductData      string
		CompetitorPrices string
		MarketConditions string
	}{
		ProductData:      in.ProductData,
		CompetitorPrices: strings.Join(prices, ", "),
		MarketConditions: in.MarketConditions,
	})
	if err != nil {
		return "", err
	}
	out, err := f.model.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("optimize pricing: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func timeframe(length time.Duration, count int) string {
	if length == DefaultPeriodLength {
		return fmt.Sprintf("%d weeks", count)
	}
	return fmt.Sprintf("%d periods of %s", count, length)
}

func historical(series domain.Series) string {
	lines := make([]string, 0, len(series.Periods))
	for _, p := range series.Periods {
		lines = append(lines, fmt.Sprintf("%s: %d opens, %d clicks, %d events total",
			p.Start.Format("2006-01-02"), p.Opens, p.Clicks, p.Events))
	}
	return strings.Join(lines, "\n")
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", t.Name(), err)
	}
	return sb.String(), nil
}
