package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/decisim/internal/runner"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	flags := &simFlags{}
	var (
		iterations int
		seed       uint64
		workers    int
		scenarios  []string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "compare CONFIG.hcl --scenario NAME --scenario NAME [flags]",
		Short: "Run the same simulation under multiple named scenarios and report them side by side",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(scenarios) < 2 {
				return fmt.Errorf("compare requires at least two --scenario flags")
			}
			ctx := opts.app.Context(cmd.Context())

			reporter, err := opts.reporterFor(format)
			if err != nil {
				return err
			}

			s, fileScenarios, err := opts.resolveSimulation(ctx, flags, args)
			if err != nil {
				return err
			}
			engine, err := buildEngine(s, fileScenarios)
			if err != nil {
				return err
			}
			layers, err := overrideLayers(flags)
			if err != nil {
				return err
			}

			runOpts := runner.Options{N: iterations, Workers: workers}
			if cmd.Flags().Changed("seed") {
				runOpts.Seed = &seed
			}
			results, err := engine.Compare(ctx, scenarios, layers, runOpts)
			if err != nil {
				return err
			}
			return reporter.ReportComparison(s.Metadata(), results)
		},
	}

	cmd.Flags().StringVar(&flags.simID, "sim", "", "Id of a built-in simulation, or of a simulation within the config file.")
	cmd.Flags().StringVar(&flags.paramsFile, "params", "", "Path to a YAML parameter-override file.")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "Explicit key=value parameter override; repeatable, highest precedence.")
	cmd.Flags().StringArrayVar(&scenarios, "scenario", nil, "Named scenario to include; repeat for each.")
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1000, "Number of iterations per scenario.")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Fixed random seed for deterministic replay.")
	cmd.Flags().IntVar(&workers, "workers", 1, "Number of concurrent evaluation workers per scenario.")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json.")
	return cmd
}
