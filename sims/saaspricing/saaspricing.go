// Package saaspricing is a built-in simulation modelling recurring-revenue
// unit economics under demand and churn uncertainty.
package saaspricing

import (
	"github.com/vk/decisim/internal/registry"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
	"github.com/zclconf/go-cty/cty"
)

const logic = `{
  mrr           = customers * monthly_price * (0.92 + random() * 0.16)
  net_new       = customers * (acquisition_rate * (0.8 + random() * 0.4) - monthly_churn * (0.8 + random() * 0.4))
  ltv           = monthly_price * gross_margin / monthly_churn * (0.9 + random() * 0.2)
  ltv_cac_ratio = (monthly_price * gross_margin / monthly_churn) * (0.9 + random() * 0.2) / cac
}`

// Entry returns the registry entry for this simulation. The factory builds a
// fresh instance per call.
func Entry() registry.Entry {
	cfg := config()
	return registry.Entry{
		Meta: cfg.Metadata(),
		Tags: []string{"saas", "pricing", "subscription", "churn"},
		Factory: func() (*sim.Simulation, error) {
			return sim.FromConfig(config())
		},
	}
}

func config() *schema.SimulationConfig {
	return &schema.SimulationConfig{
		ID:          "saas-pricing",
		Name:        "SaaS Pricing Model",
		Description: "Monthly recurring revenue, customer lifetime value and LTV:CAC under randomized demand and churn.",
		Category:    "pricing",
		Version:     "1.0.0",
		Tags:        []string{"saas", "pricing", "subscription", "churn"},
		Logic:       logic,
		Parameters: []*schema.ParameterDefinition{
			{
				Key: "monthly_price", Label: "Monthly price", Type: "number",
				Default: cty.NumberIntVal(49), Min: f(1), Max: f(499), Step: f(1),
				Description: "Subscription price per customer per month.",
			},
			{
				Key: "customers", Label: "Active customers", Type: "number",
				Default: cty.NumberIntVal(400), Min: f(1), Max: f(100000),
				Description: "Customer count at the start of the modelled month.",
			},
			{
				Key: "monthly_churn", Label: "Monthly churn rate", Type: "number",
				Default: cty.NumberFloatVal(0.03), Min: f(0.005), Max: f(0.5),
				Description: "Fraction of customers lost per month.",
			},
			{
				Key: "acquisition_rate", Label: "Monthly acquisition rate", Type: "number",
				Default: cty.NumberFloatVal(0.05), Min: f(0), Max: f(1),
				Description: "New customers per month as a fraction of the existing base.",
			},
			{
				Key: "cac", Label: "Customer acquisition cost", Type: "number",
				Default: cty.NumberIntVal(180), Min: f(1), Max: f(10000),
				Description: "Fully loaded cost of acquiring one customer.",
			},
			{
				Key: "gross_margin", Label: "Gross margin", Type: "number",
				Default: cty.NumberFloatVal(0.8), Min: f(0.1), Max: f(1),
				Description: "Gross margin applied to recurring revenue.",
			},
		},
		Groups: []*schema.ParameterGroup{
			{Name: "revenue", Description: "Demand-side inputs.", Parameters: []string{"monthly_price", "customers", "acquisition_rate"}},
			{Name: "retention", Description: "Churn and unit economics.", Parameters: []string{"monthly_churn", "cac", "gross_margin"}},
		},
		Outputs: []*schema.OutputDefinition{
			{Key: "mrr", Label: "Monthly recurring revenue"},
			{Key: "net_new", Label: "Net new customers per month"},
			{Key: "ltv", Label: "Customer lifetime value"},
			{Key: "ltv_cac_ratio", Label: "LTV to CAC ratio"},
		},
	}
}

func f(v float64) *float64 { return &v }
