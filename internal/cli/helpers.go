package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/decisim/internal/paramfile"
	"github.com/vk/decisim/internal/report"
	"github.com/vk/decisim/internal/scenario"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
)

// simFlags are the flags shared by run and compare for picking a simulation
// and assembling override layers.
type simFlags struct {
	simID      string
	paramsFile string
	sets       []string
}

// resolveSimulation picks the simulation to run: --sim selects from the
// built-in registry, a positional argument loads a config file. When a file
// holds several simulations, --sim disambiguates by id. Scenario blocks from
// the file come back alongside.
func (o *rootOptions) resolveSimulation(ctx context.Context, flags *simFlags, args []string) (*sim.Simulation, []*schema.Scenario, error) {
	if len(args) == 0 {
		if flags.simID == "" {
			return nil, nil, fmt.Errorf("either a config file argument or --sim is required")
		}
		s, err := o.app.Registry().Get(flags.simID)
		return s, nil, err
	}

	file, err := o.app.Loader().LoadPath(ctx, args[0])
	if err != nil {
		return nil, nil, err
	}
	if len(file.Simulations) == 0 {
		return nil, nil, fmt.Errorf("%s defines no simulation", args[0])
	}

	cfg := file.Simulations[0]
	if flags.simID != "" {
		cfg = nil
		for _, c := range file.Simulations {
			if c.ID == flags.simID {
				cfg = c
				break
			}
		}
		if cfg == nil {
			return nil, nil, fmt.Errorf("%s defines no simulation %q", args[0], flags.simID)
		}
	}

	s, err := sim.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s, file.Scenarios, nil
}

// buildEngine registers the file's scenario blocks on a fresh engine.
func buildEngine(s *sim.Simulation, scenarios []*schema.Scenario) (*scenario.Engine, error) {
	engine := scenario.NewEngine(s)
	for _, sc := range scenarios {
		if err := engine.AddScenario(sc); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// overrideLayers assembles the external layers in precedence order:
// parameter file first, explicit --set pairs last (highest).
func overrideLayers(flags *simFlags) ([]scenario.Layer, error) {
	var layers []scenario.Layer

	if flags.paramsFile != "" {
		overrides, err := paramfile.Load(flags.paramsFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, scenario.Layer{Source: "params file", Overrides: overrides})
	}

	if len(flags.sets) > 0 {
		overrides := make(map[string]string, len(flags.sets))
		for _, pair := range flags.sets {
			key, val, ok := strings.Cut(pair, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("--set expects key=value, got %q", pair)
			}
			overrides[key] = val
		}
		layers = append(layers, scenario.Layer{Source: "flag", Overrides: overrides})
	}
	return layers, nil
}

// reporterFor picks the output format.
func (o *rootOptions) reporterFor(format string) (report.Reporter, error) {
	switch format {
	case "json":
		return &report.JSON{W: o.outW}, nil
	case "table":
		return &report.Table{W: o.outW}, nil
	default:
		return nil, fmt.Errorf("invalid format %q: must be 'table' or 'json'", format)
	}
}
