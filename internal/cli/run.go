package cli

import (
	"github.com/spf13/cobra"
	"github.com/vk/decisim/internal/runner"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	flags := &simFlags{}
	var (
		iterations   int
		seed         uint64
		workers      int
		scenarioName string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "run [CONFIG.hcl]",
		Short: "Run a simulation and report aggregated statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.app.Context(cmd.Context())

			reporter, err := opts.reporterFor(format)
			if err != nil {
				return err
			}

			s, scenarios, err := opts.resolveSimulation(ctx, flags, args)
			if err != nil {
				return err
			}
			engine, err := buildEngine(s, scenarios)
			if err != nil {
				return err
			}
			layers, err := overrideLayers(flags)
			if err != nil {
				return err
			}

			bindings, err := engine.Bindings(scenarioName, layers...)
			if err != nil {
				return err
			}

			runOpts := runner.Options{N: iterations, Workers: workers}
			if cmd.Flags().Changed("seed") {
				runOpts.Seed = &seed
			}
			stats, err := runner.Run(ctx, s.Evaluator(), bindings, runOpts)
			if err != nil {
				return err
			}
			return reporter.Report(s.Metadata(), stats)
		},
	}

	cmd.Flags().StringVar(&flags.simID, "sim", "", "Id of a built-in simulation, or of a simulation within the config file.")
	cmd.Flags().StringVar(&flags.paramsFile, "params", "", "Path to a YAML parameter-override file.")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "Explicit key=value parameter override; repeatable, highest precedence.")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Number of iterations to run.")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fixed random seed for deterministic replay.")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of concurrent evaluation workers.")
	cmd.Flags().StringVar(&scenarioName, "scenario", "", "Named scenario from the config file to apply.")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json.")
	return cmd
}
