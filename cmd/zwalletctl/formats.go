package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported wallet formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tFILE\tDESCRIPTION")
			for _, meta := range a.registry.ListMetadata() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.ID, meta.Name, meta.DefaultFile, meta.Description)
			}
			return w.Flush()
		},
	}
}
