package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/decisim/internal/sim"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate CONFIG.hcl",
		Short: "Validate a simulation config file without running anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.app.Context(cmd.Context())

			file, err := opts.app.Loader().LoadPath(ctx, args[0])
			if err != nil {
				return err
			}
			if len(file.Simulations) == 0 {
				return fmt.Errorf("%s defines no simulation", args[0])
			}

			for _, cfg := range file.Simulations {
				s, err := sim.FromConfig(cfg)
				if err != nil {
					return err
				}
				// Scenario override layers are part of the file's contract;
				// registering them surfaces unknown keys and range violations.
				if _, err := buildEngine(s, file.Scenarios); err != nil {
					return err
				}
				fmt.Fprintf(opts.outW, "%s: ok (%d parameters, %d outputs, %d scenarios)\n",
					cfg.ID, len(cfg.Parameters), len(cfg.Outputs), len(file.Scenarios))
			}
			return nil
		},
	}
}
