// Package scenario resolves final parameter bindings per named scenario and
// drives comparable runs. Override layers merge with a fixed precedence,
// lowest to highest: schema defaults, scenario overrides, parameter-file
// overrides, explicit single-parameter overrides. Every layer is validated
// independently before the merge, so an unknown key or out-of-range value
// anywhere in the chain aborts before a single iteration runs.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vk/decisim/internal/ctxlog"
	"github.com/vk/decisim/internal/runner"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
	"github.com/vk/decisim/internal/validate"
	"github.com/zclconf/go-cty/cty"
)

// Layer is one named override layer handed in from an external source (a
// parameter file, explicit --set flags). Values stay raw strings; the
// validator owns coercion.
type Layer struct {
	Source    string
	Overrides map[string]string
}

// member is one named scenario known to the engine: an override layer over
// either the base simulation or a scenario-specific variant of it.
type member struct {
	sim       *sim.Simulation
	overrides map[string]string
}

// Engine resolves bindings and drives comparable runs for one base
// simulation and its named scenarios.
type Engine struct {
	base    *sim.Simulation
	members map[string]*member
}

// NewEngine returns an engine for the given base simulation.
func NewEngine(base *sim.Simulation) *Engine {
	return &Engine{base: base, members: make(map[string]*member)}
}

// AddScenario registers a named override layer sharing the base simulation's
// schema and logic. The overrides are normalized eagerly so unknown keys and
// out-of-range values reject at registration, before any run is requested.
func (e *Engine) AddScenario(s *schema.Scenario) error {
	if _, exists := e.members[s.Name]; exists {
		return fmt.Errorf("scenario %q already defined", s.Name)
	}
	if _, err := e.base.Validator().NormalizeOverrides(s.Overrides); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	e.members[s.Name] = &member{sim: e.base, overrides: s.Overrides}
	return nil
}

// AddVariant registers a named scenario backed by its own simulation
// instance, for scenario files that carry a full config of their own. The
// comparison's output-key check guards against variants drifting from the
// base's output set.
func (e *Engine) AddVariant(name string, variant *sim.Simulation, overrides map[string]string) error {
	if _, exists := e.members[name]; exists {
		return fmt.Errorf("scenario %q already defined", name)
	}
	if _, err := variant.Validator().NormalizeOverrides(overrides); err != nil {
		return fmt.Errorf("scenario %q: %w", name, err)
	}
	e.members[name] = &member{sim: variant, overrides: overrides}
	return nil
}

// Scenarios returns the registered scenario names, sorted.
func (e *Engine) Scenarios() []string {
	names := make([]string, 0, len(e.members))
	for name := range e.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bindings resolves the final parameter bindings for a scenario. An empty
// name resolves against the base simulation with no scenario layer. The
// extra layers apply on top in the order given (parameter file before
// explicit overrides, per the precedence contract). All layer violations are
// collected into a single error before anything runs.
func (e *Engine) Bindings(name string, extra ...Layer) (map[string]cty.Value, error) {
	target := e.base
	layers := make([]Layer, 0, len(extra)+1)
	if name != "" {
		m, ok := e.members[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (have: %s)", name, strings.Join(e.Scenarios(), ", "))
		}
		target = m.sim
		layers = append(layers, Layer{Source: "scenario " + name, Overrides: m.overrides})
	}
	layers = append(layers, extra...)

	var violations []string
	merged := make(map[string]cty.Value)
	for _, layer := range layers {
		normalized, err := target.Validator().NormalizeOverrides(layer.Overrides)
		if err != nil {
			if oe, ok := err.(*validate.OverrideError); ok {
				for _, v := range oe.Violations {
					violations = append(violations, fmt.Sprintf("%s: %s", layer.Source, v))
				}
				continue
			}
			return nil, err
		}
		// Later layers win per key; conflicts are precedence, not errors.
		for k, v := range normalized {
			merged[k] = v
		}
	}
	if len(violations) > 0 {
		return nil, &validate.OverrideError{Violations: violations}
	}

	return target.Validator().MergeDefaults(merged), nil
}

// Compare runs every named scenario with the same iteration options and
// returns their statistics side by side. The scenarios' output key sets are
// checked for exact equality first; a mismatch fails the comparison before
// any run executes, rather than silently aligning a subset. The runs are
// independent and execute concurrently.
func (e *Engine) Compare(ctx context.Context, names []string, extra []Layer, opts runner.Options) (map[string]*runner.Stats, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("comparison requires at least two scenarios, got %d", len(names))
	}
	members := make([]*member, len(names))
	for i, name := range names {
		m, ok := e.members[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (have: %s)", name, strings.Join(e.Scenarios(), ", "))
		}
		members[i] = m
	}

	if err := checkOutputParity(names, members); err != nil {
		return nil, err
	}

	// Resolve every scenario's bindings before starting any run, so a bad
	// override in the last scenario aborts the whole comparison up front.
	bindings := make([]map[string]cty.Value, len(names))
	for i, name := range names {
		b, err := e.Bindings(name, extra...)
		if err != nil {
			return nil, err
		}
		bindings[i] = b
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Comparison starting.", "scenarios", names, "iterations", opts.N)

	stats := make([]*runner.Stats, len(names))
	errs := make([]error, len(names))
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stats[i], errs[i] = runner.Run(ctx, members[i].sim.Evaluator(), bindings[i], opts)
		}(i)
	}
	wg.Wait()

	out := make(map[string]*runner.Stats, len(names))
	for i, name := range names {
		if errs[i] != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, errs[i])
		}
		out[name] = stats[i]
	}
	return out, nil
}

// checkOutputParity verifies all compared scenarios share the exact output
// key set.
func checkOutputParity(names []string, members []*member) error {
	want := sortedKeys(members[0].sim.OutputKeys())
	for i := 1; i < len(members); i++ {
		got := sortedKeys(members[i].sim.OutputKeys())
		if !equalStrings(want, got) {
			return &MismatchError{
				ScenarioA: names[0],
				OutputsA:  want,
				ScenarioB: names[i],
				OutputsB:  got,
			}
		}
	}
	return nil
}

func sortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
