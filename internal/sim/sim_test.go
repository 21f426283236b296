package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/decisim/internal/eval"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

func testConfig() *schema.SimulationConfig {
	min, max := 0.0, 1000.0
	return &schema.SimulationConfig{
		ID:          "widget",
		Name:        "Widget",
		Description: "A minimal config for construction tests.",
		Category:    "testing",
		Version:     "0.1.0",
		Tags:        []string{"test"},
		Logic:       `{ y = x * random() }`,
		Parameters: []*schema.ParameterDefinition{
			{Key: "x", Type: "number", Default: cty.NumberIntVal(10), Min: &min, Max: &max},
		},
		Outputs: []*schema.OutputDefinition{{Key: "y"}},
	}
}

func TestFromConfig(t *testing.T) {
	s, err := FromConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, "widget", s.Metadata().ID)
	assert.Equal(t, []string{"y"}, s.OutputKeys())
	assert.False(t, s.Evaluator().BusinessContext())
}

func TestFromConfig_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Version = "one"
	cfg.Description = "nope"

	_, err := FromConfig(cfg)
	require.Error(t, err)

	var ce *validate.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Len(t, ce.Violations, 2)
}

func TestFromConfig_LogicSyntaxFault(t *testing.T) {
	cfg := testConfig()
	cfg.Logic = `{ y = x * }`

	_, err := FromConfig(cfg)
	require.Error(t, err)

	var ee *eval.Error
	assert.ErrorAs(t, err, &ee)
}

func TestFromConfig_BusinessContextFlag(t *testing.T) {
	cfg := testConfig()
	cfg.BusinessContext = true
	cfg.Logic = `{ y = roi(x * 2, x) }`

	s, err := FromConfig(cfg)
	require.NoError(t, err)
	require.True(t, s.Evaluator().BusinessContext())

	out, err := s.Evaluator().Evaluate(context.Background(), map[string]cty.Value{"x": cty.NumberIntVal(10)}, func() float64 { return 0 })
	require.NoError(t, err)
	assert.Equal(t, 1.0, out["y"])
}
