// Package sim ties a validated simulation config to its validator and
// compiled evaluator. A Simulation is immutable after construction; registry
// factories build a fresh one per request so no instance is ever shared or
// mutated across callers.
package sim

import (
	"github.com/vk/decisim/internal/eval"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/validate"
)

// Simulation is a ready-to-run simulation: metadata, parameter schema,
// compiled logic.
type Simulation struct {
	cfg       *schema.SimulationConfig
	validator *validate.Validator
	evaluator *eval.Evaluator
}

// FromConfig validates cfg, compiles its logic and returns the ready
// instance. Validation violations and logic syntax faults both fail here,
// before any run.
func FromConfig(cfg *schema.SimulationConfig, evalOpts ...eval.Option) (*Simulation, error) {
	v, err := validate.New(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.BusinessContext {
		evalOpts = append(evalOpts, eval.WithBusinessContext())
	}
	ev, err := eval.New(cfg.Logic, cfg.OutputKeys(), evalOpts...)
	if err != nil {
		return nil, err
	}

	return &Simulation{cfg: cfg, validator: v, evaluator: ev}, nil
}

// Config returns the validated declarative config.
func (s *Simulation) Config() *schema.SimulationConfig { return s.cfg }

// Metadata returns the simulation's identifying metadata.
func (s *Simulation) Metadata() schema.Metadata { return s.cfg.Metadata() }

// Validator returns the validator bound to this simulation's schema.
func (s *Simulation) Validator() *validate.Validator { return s.validator }

// Evaluator returns the compiled logic evaluator.
func (s *Simulation) Evaluator() *eval.Evaluator { return s.evaluator }

// OutputKeys returns the declared output keys in declaration order.
func (s *Simulation) OutputKeys() []string { return s.cfg.OutputKeys() }
