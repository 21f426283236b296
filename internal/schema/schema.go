// Package schema defines the declarative form of a simulation: parameter
// definitions, metadata, outputs, logic source, and scenario override layers.
// Structs here carry gohcl tags so the loader can decode them directly from
// configuration files; all semantic checks live in the validate package.
package schema

import (
	"github.com/zclconf/go-cty/cty"
)

// ParamType enumerates the value types a parameter may declare.
type ParamType string

const (
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamString  ParamType = "string"
	ParamSelect  ParamType = "select"
)

// KnownParamType reports whether t is one of the declared parameter types.
func KnownParamType(t string) bool {
	switch ParamType(t) {
	case ParamNumber, ParamBoolean, ParamString, ParamSelect:
		return true
	}
	return false
}

// ParameterDefinition describes a single tunable input of a simulation.
// Type drives how raw string overrides are coerced; Min/Max/Step only apply
// to number parameters and Options only to select parameters.
type ParameterDefinition struct {
	Key         string    `hcl:"key,label"`
	Label       string    `hcl:"label,optional"`
	Type        string    `hcl:"type,optional"`
	Default     cty.Value `hcl:"default,optional"`
	Min         *float64  `hcl:"min,optional"`
	Max         *float64  `hcl:"max,optional"`
	Step        *float64  `hcl:"step,optional"`
	Options     []string  `hcl:"options,optional"`
	Description string    `hcl:"description,optional"`
}

// ParameterGroup names an ordered subset of a simulation's parameter keys,
// used by presentation layers to cluster related inputs.
type ParameterGroup struct {
	Name        string   `hcl:"name,label"`
	Description string   `hcl:"description,optional"`
	Parameters  []string `hcl:"parameters"`
}

// OutputDefinition declares one value the simulation logic must produce
// per iteration.
type OutputDefinition struct {
	Key         string `hcl:"key,label"`
	Label       string `hcl:"label,optional"`
	Description string `hcl:"description,optional"`
}

// Metadata is the identifying subset of a simulation config, surfaced by the
// registry's List operation.
type Metadata struct {
	ID          string
	Name        string
	Description string
	Category    string
	Version     string
}

// SimulationConfig is the full declarative form of a simulation. Every field
// except the ID label is optional at decode time so that the validator, not
// the HCL decoder, is the single authority on well-formedness and can report
// all violations at once.
type SimulationConfig struct {
	ID              string                 `hcl:"id,label"`
	Name            string                 `hcl:"name,optional"`
	Description     string                 `hcl:"description,optional"`
	Category        string                 `hcl:"category,optional"`
	Version         string                 `hcl:"version,optional"`
	Tags            []string               `hcl:"tags,optional"`
	BusinessContext bool                   `hcl:"business_context,optional"`
	Logic           string                 `hcl:"logic,optional"`
	Parameters      []*ParameterDefinition `hcl:"parameter,block"`
	Groups          []*ParameterGroup      `hcl:"group,block"`
	Outputs         []*OutputDefinition    `hcl:"output,block"`
}

// Metadata returns the identifying subset of the config.
func (c *SimulationConfig) Metadata() Metadata {
	return Metadata{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Version:     c.Version,
	}
}

// Parameter returns the definition for key, or nil if the key is not part of
// this simulation's schema.
func (c *SimulationConfig) Parameter(key string) *ParameterDefinition {
	for _, p := range c.Parameters {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// OutputKeys returns the declared output keys in declaration order.
func (c *SimulationConfig) OutputKeys() []string {
	keys := make([]string, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		keys = append(keys, o.Key)
	}
	return keys
}

// Scenario is a named parameter-override layer sharing one simulation's
// schema and logic. Override values stay raw strings here; the validator
// owns all type coercion.
type Scenario struct {
	Name        string            `hcl:"name,label"`
	Description string            `hcl:"description,optional"`
	Overrides   map[string]string `hcl:"overrides,optional"`
}

// File is the top-level structure of a configuration file: any number of
// simulation and scenario blocks.
type File struct {
	Simulations []*SimulationConfig `hcl:"simulation,block"`
	Scenarios   []*Scenario         `hcl:"scenario,block"`
}
