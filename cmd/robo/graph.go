package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anggasct/robo/internal/demos"
	"github.com/anggasct/robo/visualization"
)

func newGraphCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph <demo>",
		Short: "Export a demo machine's structure",
		Long:  `Outputs the states and transitions of a demo as a Graphviz DOT digraph, a Mermaid flowchart, YAML or JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := demos.Lookup(args[0])
			if err != nil {
				return err
			}
			return visualization.Render(cmd.OutOrStdout(), d.Describe(), visualization.Format(format))
		},
	}

	names := make([]string, 0, len(visualization.Formats()))
	for _, f := range visualization.Formats() {
		names = append(names, string(f))
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(visualization.FormatMermaid),
		fmt.Sprintf("Output format (%s)", strings.Join(names, "|")))
	return cmd
}
