package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search the built-in simulations by id, name, category or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches := opts.app.Registry().Search(args[0])
			if len(matches) == 0 {
				fmt.Fprintf(opts.outW, "no simulations match %q\n", args[0])
				return nil
			}

			tw := tabwriter.NewWriter(opts.outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tTAGS\tSCORE")
			for _, m := range matches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n",
					m.Meta.ID, m.Meta.Name, strings.Join(m.Tags, ","), m.Score)
			}
			return tw.Flush()
		},
	}
}
