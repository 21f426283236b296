package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in simulations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(opts.outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tVERSION\tDESCRIPTION")
			for _, meta := range opts.app.Registry().List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					meta.ID, meta.Name, meta.Category, meta.Version, meta.Description)
			}
			return tw.Flush()
		},
	}
}
