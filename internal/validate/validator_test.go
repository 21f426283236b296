package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/decisim/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func f(v float64) *float64 { return &v }

// baseConfig returns a minimal valid config: one number parameter x in
// [0, 1000] with default 100, one output y.
func baseConfig() *schema.SimulationConfig {
	return &schema.SimulationConfig{
		ID:          "test-sim",
		Name:        "Test Simulation",
		Description: "A minimal simulation used by the validator tests.",
		Category:    "testing",
		Version:     "1.0.0",
		Tags:        []string{"test"},
		Logic:       `{ y = x * (0.8 + random() * 0.4) }`,
		Parameters: []*schema.ParameterDefinition{
			{Key: "x", Label: "X", Type: "number", Default: cty.NumberIntVal(100), Min: f(0), Max: f(1000)},
		},
		Outputs: []*schema.OutputDefinition{
			{Key: "y", Label: "Y"},
		},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	require.NoError(t, ValidateConfig(baseConfig()))
}

func TestValidateConfig_AccumulatesAllViolations(t *testing.T) {
	cfg := baseConfig()
	cfg.Description = "too short"
	cfg.Version = "1.0"
	cfg.Tags = nil

	err := ValidateConfig(cfg)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Violations, 3, "every violation must be reported, not just the first")
	assert.Contains(t, err.Error(), "description")
	assert.Contains(t, err.Error(), "x.y.z")
	assert.Contains(t, err.Error(), "tag")
}

func TestValidateConfig_DefaultOutsideBounds(t *testing.T) {
	tests := []struct {
		name    string
		def     cty.Value
		min     *float64
		max     *float64
		wantErr bool
	}{
		{"within bounds", cty.NumberIntVal(100), f(0), f(1000), false},
		{"at min", cty.NumberIntVal(0), f(0), f(1000), false},
		{"at max", cty.NumberIntVal(1000), f(0), f(1000), false},
		{"below min", cty.NumberIntVal(-1), f(0), f(1000), true},
		{"above max", cty.NumberIntVal(1001), f(0), f(1000), true},
		{"min greater than max", cty.NumberIntVal(5), f(10), f(1), true},
		{"unbounded", cty.NumberIntVal(-999999), nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.Parameters[0].Default = tt.def
			cfg.Parameters[0].Min = tt.min
			cfg.Parameters[0].Max = tt.max

			err := ValidateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConfig_SelectInvariants(t *testing.T) {
	cfg := baseConfig()
	cfg.Parameters = append(cfg.Parameters, &schema.ParameterDefinition{
		Key: "channel", Type: "select", Default: cty.StringVal("search"),
		Options: []string{"search", "social"},
	})
	require.NoError(t, ValidateConfig(cfg))

	cfg.Parameters[1].Default = cty.StringVal("radio")
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not one of the declared options")

	cfg.Parameters[1].Options = nil
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty options")
}

func TestValidateConfig_GroupReferencesUnknownKey(t *testing.T) {
	cfg := baseConfig()
	cfg.Groups = []*schema.ParameterGroup{
		{Name: "inputs", Parameters: []string{"x", "nope"}},
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `references unknown parameter "nope"`)
}

func TestNormalizeOverrides_UnknownKeyRejected(t *testing.T) {
	v, err := New(baseConfig())
	require.NoError(t, err)

	_, err = v.NormalizeOverrides(map[string]string{"ghost": "1"})
	require.Error(t, err)

	var oe *OverrideError
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Violations[0], `unknown parameter key "ghost"`)
}

func TestNormalizeOverrides_Coercion(t *testing.T) {
	cfg := baseConfig()
	cfg.Parameters = append(cfg.Parameters,
		&schema.ParameterDefinition{Key: "enabled", Type: "boolean", Default: cty.False},
		&schema.ParameterDefinition{Key: "plan", Type: "select", Default: cty.StringVal("basic"), Options: []string{"basic", "pro"}},
		&schema.ParameterDefinition{Key: "region", Type: "string", Default: cty.StringVal("eu")},
	)
	v, err := New(cfg)
	require.NoError(t, err)

	out, err := v.NormalizeOverrides(map[string]string{
		"x":       "123",
		"enabled": "true",
		"plan":    "pro",
		"region":  "us",
	})
	require.NoError(t, err)
	assert.True(t, out["x"].RawEquals(cty.NumberIntVal(123)))
	assert.True(t, out["enabled"].RawEquals(cty.True))
	assert.True(t, out["plan"].RawEquals(cty.StringVal("pro")))
	assert.True(t, out["region"].RawEquals(cty.StringVal("us")))
}

func TestNormalizeOverrides_RejectsBadValues(t *testing.T) {
	cfg := baseConfig()
	cfg.Parameters = append(cfg.Parameters,
		&schema.ParameterDefinition{Key: "enabled", Type: "boolean", Default: cty.False},
		&schema.ParameterDefinition{Key: "plan", Type: "select", Default: cty.StringVal("basic"), Options: []string{"basic", "pro"}},
	)
	v, err := New(cfg)
	require.NoError(t, err)

	_, err = v.NormalizeOverrides(map[string]string{
		"x":       "not-a-number",
		"enabled": "maybe",
		"plan":    "enterprise",
	})
	require.Error(t, err)

	var oe *OverrideError
	require.ErrorAs(t, err, &oe)
	assert.Len(t, oe.Violations, 3)
}

func TestNormalizeOverrides_OutOfRangeRejectedNotClamped(t *testing.T) {
	v, err := New(baseConfig())
	require.NoError(t, err)

	_, err = v.NormalizeOverrides(map[string]string{"x": "2000"})
	require.Error(t, err)

	var oe *OverrideError
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Violations[0], "exceeds max 1000")

	_, err = v.NormalizeOverrides(map[string]string{"x": "-5"})
	require.Error(t, err)
	require.ErrorAs(t, err, &oe)
	assert.Contains(t, oe.Violations[0], "below min 0")
}

func TestMergeDefaults_ExactKeySet(t *testing.T) {
	cfg := baseConfig()
	cfg.Parameters = append(cfg.Parameters,
		&schema.ParameterDefinition{Key: "enabled", Type: "boolean", Default: cty.False},
	)
	v, err := New(cfg)
	require.NoError(t, err)

	overrides, err := v.NormalizeOverrides(map[string]string{"x": "250"})
	require.NoError(t, err)

	merged := v.MergeDefaults(overrides)
	require.Len(t, merged, 2, "result key set must be exactly the schema's parameter keys")
	assert.True(t, merged["x"].RawEquals(cty.NumberIntVal(250)))
	assert.True(t, merged["enabled"].RawEquals(cty.False))

	// No overrides at all: pure defaults.
	merged = v.MergeDefaults(nil)
	assert.True(t, merged["x"].RawEquals(cty.NumberIntVal(100)))
}
