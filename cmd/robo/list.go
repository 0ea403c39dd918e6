package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anggasct/robo/internal/demos"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the demo machines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATES\tDESCRIPTION")
			for _, d := range demos.All() {
				fmt.Fprintf(w, "%s\t%d\t%s\n", d.Name(), len(d.Describe().States), d.Description())
			}
			return w.Flush()
		},
	}
}
