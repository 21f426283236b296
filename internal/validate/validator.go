// Package validate is the single semantic authority over simulation configs
// and parameter overrides. The loader hands it syntactically decoded structs;
// everything else (bound invariants, type coercion, range checks) happens
// here, and every check accumulates violations instead of stopping at the
// first one.
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/decisim/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	minDescriptionLen = 10
	maxDescriptionLen = 500
	minLogicLen       = 10
)

var versionRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validator is bound to one validated simulation config and owns all type
// coercion for override inputs against that schema.
type Validator struct {
	cfg    *schema.SimulationConfig
	params map[string]*schema.ParameterDefinition
}

// New validates cfg and returns a Validator bound to it. A *ConfigError is
// returned when the config violates any invariant.
func New(cfg *schema.SimulationConfig) (*Validator, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	params := make(map[string]*schema.ParameterDefinition, len(cfg.Parameters))
	for _, p := range cfg.Parameters {
		params[p.Key] = p
	}
	return &Validator{cfg: cfg, params: params}, nil
}

// Config returns the validated config this Validator is bound to.
func (v *Validator) Config() *schema.SimulationConfig { return v.cfg }

// ValidateConfig checks every structural invariant of a simulation config and
// returns a *ConfigError carrying all violations, or nil.
func ValidateConfig(cfg *schema.SimulationConfig) error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if cfg.ID == "" {
		add("id must not be empty")
	}
	if cfg.Name == "" {
		add("name is required")
	}
	if n := len(cfg.Description); n < minDescriptionLen || n > maxDescriptionLen {
		add("description must be between %d and %d characters, got %d", minDescriptionLen, maxDescriptionLen, n)
	}
	if cfg.Category == "" {
		add("category is required")
	}
	if !versionRe.MatchString(cfg.Version) {
		add("version %q does not match the required x.y.z format", cfg.Version)
	}
	if len(cfg.Tags) == 0 {
		add("at least one tag is required")
	}
	if len(cfg.Parameters) == 0 {
		add("at least one parameter is required")
	}
	if len(cfg.Outputs) == 0 {
		add("at least one output is required")
	}
	if len(strings.TrimSpace(cfg.Logic)) < minLogicLen {
		add("logic must be at least %d characters of source text", minLogicLen)
	}

	seenParams := make(map[string]bool, len(cfg.Parameters))
	for _, p := range cfg.Parameters {
		if seenParams[p.Key] {
			add("parameter %q: duplicate key", p.Key)
			continue
		}
		seenParams[p.Key] = true
		errs = append(errs, validateParameter(p)...)
	}

	seenOutputs := make(map[string]bool, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		if o.Key == "" {
			add("output key must not be empty")
			continue
		}
		if seenOutputs[o.Key] {
			add("output %q: duplicate key", o.Key)
		}
		seenOutputs[o.Key] = true
	}

	for _, g := range cfg.Groups {
		if len(g.Parameters) == 0 {
			add("group %q: must reference at least one parameter", g.Name)
		}
		for _, key := range g.Parameters {
			if !seenParams[key] {
				add("group %q: references unknown parameter %q", g.Name, key)
			}
		}
	}

	if len(errs) > 0 {
		return &ConfigError{SimulationID: cfg.ID, Violations: errs}
	}
	return nil
}

// validateParameter checks one definition's internal invariants.
func validateParameter(p *schema.ParameterDefinition) []string {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("parameter %q: "+format, append([]any{p.Key}, args...)...))
	}

	if !schema.KnownParamType(p.Type) {
		add("unknown type %q (want number, boolean, string or select)", p.Type)
		return errs
	}
	if p.Default == cty.NilVal || p.Default.IsNull() {
		add("default value is required")
		return errs
	}

	switch schema.ParamType(p.Type) {
	case schema.ParamNumber:
		def, err := numberValue(p.Default)
		if err != nil {
			add("default is not a number: %v", err)
			return errs
		}
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			add("min %v is greater than max %v", *p.Min, *p.Max)
		}
		if p.Min != nil && def < *p.Min {
			add("default %v is below min %v", def, *p.Min)
		}
		if p.Max != nil && def > *p.Max {
			add("default %v is above max %v", def, *p.Max)
		}
		if p.Step != nil && *p.Step <= 0 {
			add("step must be positive, got %v", *p.Step)
		}
	case schema.ParamBoolean:
		if _, err := convert.Convert(p.Default, cty.Bool); err != nil {
			add("default is not a boolean: %v", err)
		}
	case schema.ParamString:
		if _, err := convert.Convert(p.Default, cty.String); err != nil {
			add("default is not a string: %v", err)
		}
	case schema.ParamSelect:
		if len(p.Options) == 0 {
			add("select requires a non-empty options list")
			return errs
		}
		def, err := convert.Convert(p.Default, cty.String)
		if err != nil {
			add("default is not a string: %v", err)
			return errs
		}
		if !containsOption(p.Options, def.AsString()) {
			add("default %q is not one of the declared options %v", def.AsString(), p.Options)
		}
	}

	if schema.ParamType(p.Type) != schema.ParamNumber && (p.Min != nil || p.Max != nil || p.Step != nil) {
		add("min/max/step only apply to number parameters")
	}
	if schema.ParamType(p.Type) != schema.ParamSelect && len(p.Options) > 0 {
		add("options only apply to select parameters")
	}
	return errs
}

// NormalizeOverrides coerces a flat string override map into typed values per
// the schema. Unknown keys, uncoercible values, out-of-range numbers and
// unlisted select values are all rejected (never clamped) and reported
// together as a *OverrideError before any iteration runs.
func (v *Validator) NormalizeOverrides(overrides map[string]string) (map[string]cty.Value, error) {
	var errs []string
	out := make(map[string]cty.Value, len(overrides))

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := overrides[key]
		def, ok := v.params[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown parameter key %q", key))
			continue
		}

		switch schema.ParamType(def.Type) {
		case schema.ParamNumber:
			val, err := convert.Convert(cty.StringVal(raw), cty.Number)
			if err != nil {
				errs = append(errs, fmt.Sprintf("parameter %q: value %q is not a number", key, raw))
				continue
			}
			f, _ := val.AsBigFloat().Float64()
			if def.Min != nil && f < *def.Min {
				errs = append(errs, fmt.Sprintf("parameter %q: value %v is below min %v", key, f, *def.Min))
				continue
			}
			if def.Max != nil && f > *def.Max {
				errs = append(errs, fmt.Sprintf("parameter %q: value %v exceeds max %v", key, f, *def.Max))
				continue
			}
			out[key] = val
		case schema.ParamBoolean:
			val, err := convert.Convert(cty.StringVal(raw), cty.Bool)
			if err != nil {
				errs = append(errs, fmt.Sprintf("parameter %q: value %q is not a boolean", key, raw))
				continue
			}
			out[key] = val
		case schema.ParamSelect:
			if !containsOption(def.Options, raw) {
				errs = append(errs, fmt.Sprintf("parameter %q: value %q is not one of the declared options %v", key, raw, def.Options))
				continue
			}
			out[key] = cty.StringVal(raw)
		default: // string
			out[key] = cty.StringVal(raw)
		}
	}

	if len(errs) > 0 {
		return nil, &OverrideError{Violations: errs}
	}
	return out, nil
}

// MergeDefaults builds the final binding set: the default for every defined
// parameter, replaced by an override where one is present. The result's key
// set is exactly the schema's parameter key set.
func (v *Validator) MergeDefaults(overrides map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value, len(v.cfg.Parameters))
	for _, p := range v.cfg.Parameters {
		out[p.Key] = typedDefault(p)
	}
	for key, val := range overrides {
		if _, ok := out[key]; ok {
			out[key] = val
		}
	}
	return out
}

// typedDefault converts a parameter's default literal to its declared type so
// bindings always carry uniform cty types (e.g. a default written as 100 for
// a number parameter stays cty.Number).
func typedDefault(p *schema.ParameterDefinition) cty.Value {
	var want cty.Type
	switch schema.ParamType(p.Type) {
	case schema.ParamNumber:
		want = cty.Number
	case schema.ParamBoolean:
		want = cty.Bool
	default:
		want = cty.String
	}
	val, err := convert.Convert(p.Default, want)
	if err != nil {
		// New() already proved convertibility.
		return p.Default
	}
	return val
}

func numberValue(v cty.Value) (float64, error) {
	conv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, err
	}
	f, _ := conv.AsBigFloat().Float64()
	return f, nil
}

func containsOption(options []string, val string) bool {
	for _, o := range options {
		if o == val {
			return true
		}
	}
	return false
}
