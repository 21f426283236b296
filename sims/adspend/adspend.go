// Package adspend is a built-in simulation modelling paid-acquisition
// campaign returns across channels. It enables the business-context helper
// library, so its logic can use roi() and the derived budget constants.
package adspend

import (
	"github.com/vk/decisim/internal/registry"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
	"github.com/zclconf/go-cty/cty"
)

// Channel efficiency is expressed inline: video and social convert below the
// search baseline.
const logic = `{
  revenue      = (budget / (cpc * (0.85 + random() * 0.3))) * conversion_rate * avg_order_value * (channel == "video" ? 0.85 : channel == "social" ? 0.95 : 1.0)
  campaign_roi = roi((budget / (cpc * (0.85 + random() * 0.3))) * conversion_rate * avg_order_value * (channel == "video" ? 0.85 : channel == "social" ? 0.95 : 1.0), budget)
  monthly_conversions = (biz.budget_monthly / (cpc * (0.85 + random() * 0.3))) * conversion_rate
}`

// Entry returns the registry entry for this simulation.
func Entry() registry.Entry {
	cfg := config()
	return registry.Entry{
		Meta: cfg.Metadata(),
		Tags: []string{"marketing", "advertising", "roi", "acquisition"},
		Factory: func() (*sim.Simulation, error) {
			return sim.FromConfig(config())
		},
	}
}

func config() *schema.SimulationConfig {
	return &schema.SimulationConfig{
		ID:              "ad-spend",
		Name:            "Ad Spend ROI",
		Description:     "Campaign revenue, ROI and cost per acquisition for a paid channel under click-price volatility.",
		Category:        "marketing",
		Version:         "1.2.0",
		Tags:            []string{"marketing", "advertising", "roi", "acquisition"},
		BusinessContext: true,
		Logic:           logic,
		Parameters: []*schema.ParameterDefinition{
			{
				Key: "budget", Label: "Annual campaign budget", Type: "number",
				Default: cty.NumberIntVal(120000), Min: f(1000), Max: f(5000000),
				Description: "Total spend committed to the channel for the year.",
			},
			{
				Key: "cpc", Label: "Cost per click", Type: "number",
				Default: cty.NumberFloatVal(2.5), Min: f(0.1), Max: f(50),
				Description: "Expected auction price per click before volatility.",
			},
			{
				Key: "conversion_rate", Label: "Conversion rate", Type: "number",
				Default: cty.NumberFloatVal(0.025), Min: f(0.001), Max: f(0.5),
				Description: "Fraction of clicks that convert to an order.",
			},
			{
				Key: "avg_order_value", Label: "Average order value", Type: "number",
				Default: cty.NumberIntVal(90), Min: f(1), Max: f(100000),
				Description: "Revenue per converted order.",
			},
			{
				Key: "channel", Label: "Channel", Type: "select",
				Default: cty.StringVal("search"), Options: []string{"search", "social", "video"},
				Description: "Paid channel the budget is committed to.",
			},
		},
		Groups: []*schema.ParameterGroup{
			{Name: "spend", Description: "Budget and auction inputs.", Parameters: []string{"budget", "cpc", "channel"}},
			{Name: "funnel", Description: "Conversion economics.", Parameters: []string{"conversion_rate", "avg_order_value"}},
		},
		Outputs: []*schema.OutputDefinition{
			{Key: "revenue", Label: "Attributed revenue"},
			{Key: "campaign_roi", Label: "Campaign ROI"},
			{Key: "monthly_conversions", Label: "Conversions per month"},
		},
	}
}

func f(v float64) *float64 { return &v }
