package main

import (
	"github.com/spf13/cobra"
)

func newPlanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the mapping plans of every mapper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(opts.format); err != nil {
				return err
			}

			report, err := opts.run(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return writeReport(cmd.OutOrStdout(), report, opts.format)
		},
	}
}
