package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwehr/salesloop/internal/forecasting/domain"
	outreachDomain "github.com/fernwehr/salesloop/internal/outreach/domain"
)

type fakeHistory struct {
	since  time.Time
	events []*outreachDomain.EmailEvent
	err    error
}

func (h *fakeHistory) ListSince(_ context.Context, since time.Time) ([]*outreachDomain.EmailEvent, error) {
	h.since = since
	return h.events, h.err
}

type recordingModel struct {
	prompt string
	reply  string
	err    error
}

func (m *recordingModel) Complete(_ context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.reply, m.err
}

func newTestForecaster(history *fakeHistory, model *recordingModel) *Forecaster {
	f := NewForecaster(history, model, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.now = func() time.Time {
		return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	}
	return f
}

func TestForecastDemand(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the series and prompts with the history", func(t *testing.T) {
		weekOne := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)
		history := &fakeHistory{events: []*outreachDomain.EmailEvent{
			outreachDomain.NewEmailEvent("m1", "ada@tensor.io", outreachDomain.EventOpen, weekOne),
			outreachDomain.NewEmailEvent("m1", "ada@tensor.io", outreachDomain.EventClick, weekOne.Add(time.Hour)),
			outreachDomain.NewEmailEvent("m2", "bob@vector.dev", outreachDomain.EventOpen, weekOne.Add(21*24*time.Hour)),
		}}
		model := &recordingModel{reply: "  demand is holding steady  "}

		forecast, err := newTestForecaster(history, model).ForecastDemand(ctx, ForecastInput{
			ProductCategory: "automation suite",
		})
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), history.since)
		require.Len(t, forecast.Series.Periods, DefaultPeriodCount)
		assert.Equal(t, 2, forecast.Series.Periods[0].Events)
		assert.Equal(t, 1, forecast.Series.Periods[3].Events)
		assert.Equal(t, "demand is holding steady", forecast.Narrative)

		assert.Contains(t, model.prompt, "Analyze historical sales data for automation suite over the past 4 weeks:")
		assert.Contains(t, model.prompt, "2026-08-03: 1 opens, 1 clicks, 2 events total")
		assert.Contains(t, model.prompt, "suggest inventory levels")
	})

	t.Run("derives trend and projection from the series", func(t *testing.T) {
		now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		var events []*outreachDomain.EmailEvent
		// 1, 2, 3, 4 opens across the four covered weeks.
		for week := 0; week < 4; week++ {
			for i := 0; i <= week; i++ {
				occurred := now.Add(-time.Duration(4-week)*7*24*time.Hour + time.Duration(i+1)*time.Hour)
				events = append(events, outreachDomain.NewEmailEvent("m", "ada@tensor.io", outreachDomain.EventOpen, occurred))
			}
		}
		model := &recordingModel{reply: "up and to the right"}

		forecast, err := newTestForecaster(&fakeHistory{events: events}, model).ForecastDemand(ctx, ForecastInput{
			ProductCategory: "automation suite",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TrendRising, forecast.Trend)
		assert.Equal(t, 5, forecast.Projected)
	})

	t.Run("history failure is wrapped", func(t *testing.T) {
		history := &fakeHistory{err: errors.New("db gone")}

		_, err := newTestForecaster(history, &recordingModel{}).ForecastDemand(ctx, ForecastInput{
			ProductCategory: "automation suite",
		})
		require.ErrorContains(t, err, "load engagement history")
	})

	t.Run("model failure is wrapped", func(t *testing.T) {
		model := &recordingModel{err: errors.New("model offline")}

		_, err := newTestForecaster(&fakeHistory{}, model).ForecastDemand(ctx, ForecastInput{
			ProductCategory: "automation suite",
		})
		require.ErrorContains(t, err, "forecast demand")
	})
}

func TestOptimizePricing(t *testing.T) {
	model := &recordingModel{reply: "anchor at $49"}

	strategy, err := newTestForecaster(&fakeHistory{}, model).OptimizePricing(context.Background(), PricingInput{
		ProductData:      "starter plan, $40 unit cost",
		CompetitorPrices: []float64{49, 59.5},
		MarketConditions: "seasonal slowdown",
	})
	require.NoError(t, err)
	assert.Equal(t, "anchor at $49", strategy)

	assert.Contains(t, model.prompt, "Product Data: starter plan, $40 unit cost")
	assert.Contains(t, model.prompt, "Competitor Prices: $49.00, $59.50")
	assert.Contains(t, model.prompt, "Market Conditions: seasonal slowdown")
}
