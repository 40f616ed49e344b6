package main

import (
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/partab/table"
)

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the header, parameters and groups of a serialized table or hyperparameter blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return inspect(cmd.OutOrStdout(), data, c.tableOptions("inspect")...)
		},
	}
}

func inspect(w io.Writer, data []byte, opts ...table.Option) error {
	header, state, err := load(data, opts...)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	describeHeader(tw, header, len(data))
	state.describe(tw)

	return tw.Flush()
}
