package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	forecastingApp "github.com/fernwehr/salesloop/internal/forecasting/application"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast demand and draft pricing strategy",
}

var forecastDemandCmd = &cobra.Command{
	Use:   "demand",
	Short: "Forecast demand from tracked engagement history",
	Example: `  salesloop forecast demand --category "automation suite"
  salesloop forecast demand --category "starter plan" --weeks 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		category, _ := cmd.Flags().GetString("category")
		weeks, _ := cmd.Flags().GetInt("weeks")

		forecast, err := app.Forecaster.ForecastDemand(cmd.Context(), forecastingApp.ForecastInput{
			ProductCategory: category,
			PeriodCount:     weeks,
		})
		if err != nil {
			return fmt.Errorf("forecast demand: %w", err)
		}

		for _, period := range forecast.Series.Periods {
			fmt.Printf("week of %s: %d opens, %d clicks, %d events\n",
				period.Start.Format(time.DateOnly), period.Opens, period.Clicks, period.Events)
		}
		fmt.Printf("\nTrend:     %s\n", forecast.Trend)
		fmt.Printf("Projected: %d events next week\n", forecast.Projected)
		if forecast.Narrative != "" {
			fmt.Printf("\n%s\n", forecast.Narrative)
		}
		return nil
	},
}

var forecastPricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Draft a pricing strategy from market inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return errNotWired
		}

		product, _ := cmd.Flags().GetString("product")
		rawPrices, _ := cmd.Flags().GetString("competitor-prices")
		conditions, _ := cmd.Flags().GetString("conditions")

		var prices []float64
		for _, raw := range splitList(rawPrices) {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("parse competitor price %q: %w", raw, err)
			}
			prices = append(prices, price)
		}

		strategy, err := app.Forecaster.OptimizePricing(cmd.Context(), forecastingApp.PricingInput{
			ProductData:      product,
			CompetitorPrices: prices,
			MarketConditions: conditions,
		})
		if err != nil {
			return fmt.Errorf("optimize pricing: %w", err)
		}
		fmt.Println(strategy)
		return nil
	},
}

func init() {
	forecastDemandCmd.Flags().String("category", "", "product category to analyze")
	forecastDemandCmd.Flags().Int("weeks", 0, "weeks of history to cover (default 4)")

	forecastPricingCmd.Flags().String("product", "", "product details and costs")
	forecastPricingCmd.Flags().String("competitor-prices", "", "comma-separated competitor prices")
	forecastPricingCmd.Flags().String("conditions", "", "current market conditions")

	forecastCmd.AddCommand(forecastDemandCmd)
	forecastCmd.AddCommand(forecastPricingCmd)
	rootCmd.AddCommand(forecastCmd)
}
