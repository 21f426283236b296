// Package cli implements the decisim command tree. Commands are thin I/O
// glue: they resolve a simulation (from the built-in registry or a config
// file), collect override layers, and hand everything to the engine.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/decisim/internal/app"
)

// rootOptions carries shared state from the root command into subcommands.
type rootOptions struct {
	outW io.Writer
	logW io.Writer

	logLevel  string
	logFormat string

	app *app.App
}

// New builds the decisim root command. Results go to outW, logs to logW.
func New(outW, logW io.Writer) *cobra.Command {
	opts := &rootOptions{outW: outW, logW: logW}

	cmd := &cobra.Command{
		Use:           "decisim",
		Short:         "Run randomized business-decision simulations and report aggregate statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.app = app.New(opts.logW, app.Config{
				LogFormat: opts.logFormat,
				LogLevel:  opts.logLevel,
			})
		},
	}
	cmd.SetOut(outW)
	cmd.SetErr(logW)

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Logging level: debug, info, warn or error.")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log output format: text or json.")

	cmd.AddCommand(
		newListCmd(opts),
		newSearchCmd(opts),
		newValidateCmd(opts),
		newRunCmd(opts),
		newCompareCmd(opts),
	)
	return cmd
}
