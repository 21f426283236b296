// Package hiring is a built-in simulation modelling the return and cash
// impact of an engineering hiring plan, with ramp time and attrition drawn
// randomly per iteration.
package hiring

import (
	"github.com/vk/decisim/internal/registry"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
	"github.com/zclconf/go-cty/cty"
)

const logic = `{
  first_year_roi = roi(
    headcount * revenue_per_engineer * ((12 - ramp_months * (0.75 + random() * 0.5)) / 12) * (1 - attrition_rate * random()),
    headcount * fully_loaded_cost * (contract_buffer ? 1.1 : 1.0)
  )
  payback_months = payback_period(
    headcount * fully_loaded_cost / 12 * ramp_months,
    headcount * (revenue_per_engineer - fully_loaded_cost) / 12 * (0.7 + random() * 0.6)
  )
  runway_months = runway(cash_reserve, headcount * fully_loaded_cost / 12 * (0.95 + random() * 0.1))
}`

// Entry returns the registry entry for this simulation.
func Entry() registry.Entry {
	cfg := config()
	return registry.Entry{
		Meta: cfg.Metadata(),
		Tags: []string{"hiring", "headcount", "runway", "engineering"},
		Factory: func() (*sim.Simulation, error) {
			return sim.FromConfig(config())
		},
	}
}

func config() *schema.SimulationConfig {
	return &schema.SimulationConfig{
		ID:              "hiring-plan",
		Name:            "Engineering Hiring Plan",
		Description:     "First-year ROI, payback period and cash runway for a batch of engineering hires.",
		Category:        "headcount",
		Version:         "1.0.1",
		Tags:            []string{"hiring", "headcount", "runway", "engineering"},
		BusinessContext: true,
		Logic:           logic,
		Parameters: []*schema.ParameterDefinition{
			{
				Key: "headcount", Label: "Engineers to hire", Type: "number",
				Default: cty.NumberIntVal(5), Min: f(1), Max: f(100), Step: f(1),
				Description: "Number of engineers in the hiring batch.",
			},
			{
				Key: "fully_loaded_cost", Label: "Fully loaded cost", Type: "number",
				Default: cty.NumberIntVal(185000), Min: f(50000), Max: f(600000),
				Description: "Annual cost per engineer including benefits and overhead.",
			},
			{
				Key: "revenue_per_engineer", Label: "Revenue per engineer", Type: "number",
				Default: cty.NumberIntVal(260000), Min: f(50000), Max: f(2000000),
				Description: "Annual revenue attributable to one fully ramped engineer.",
			},
			{
				Key: "ramp_months", Label: "Ramp time (months)", Type: "number",
				Default: cty.NumberIntVal(4), Min: f(0), Max: f(12),
				Description: "Months before a hire reaches full productivity.",
			},
			{
				Key: "attrition_rate", Label: "Annual attrition rate", Type: "number",
				Default: cty.NumberFloatVal(0.12), Min: f(0), Max: f(1),
				Description: "Expected fraction of the batch lost within the first year.",
			},
			{
				Key: "cash_reserve", Label: "Cash reserve", Type: "number",
				Default: cty.NumberIntVal(2000000), Min: f(0), Max: f(100000000),
				Description: "Cash available to fund the batch.",
			},
			{
				Key: "contract_buffer", Label: "Contractor buffer", Type: "boolean",
				Default: cty.False,
				Description: "Whether to budget a 10% contractor buffer on top of the batch cost.",
			},
		},
		Groups: []*schema.ParameterGroup{
			{Name: "plan", Description: "Hiring batch size and ramp.", Parameters: []string{"headcount", "ramp_months", "contract_buffer"}},
			{Name: "economics", Description: "Cost and revenue assumptions.", Parameters: []string{"fully_loaded_cost", "revenue_per_engineer", "attrition_rate", "cash_reserve"}},
		},
		Outputs: []*schema.OutputDefinition{
			{Key: "first_year_roi", Label: "First-year ROI"},
			{Key: "payback_months", Label: "Payback period (months)"},
			{Key: "runway_months", Label: "Runway (months)"},
		},
	}
}

func f(v float64) *float64 { return &v }
