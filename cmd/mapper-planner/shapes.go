package main

import (
	"github.com/spf13/cobra"

	"mapper-planner/internal/mapping"
)

func newShapesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the shapes of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mf, err := opts.loadMapping()
			if err != nil {
				return err
			}

			graph, err := mapping.Catalog(mf, opts.dir)
			if err != nil {
				return err
			}

			writeShapeTable(cmd.OutOrStdout(), graph)

			return nil
		},
	}
}
