package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errPlanningFailed = errors.New("planning reported errors")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail if any mapping plan has an error diagnostic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := opts.run(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeDiagnostics(out, &report.Diagnostics)

			if report.Diagnostics.HasErrors() {
				return fmt.Errorf("%w: %d error(s) in %d mapper(s)",
					errPlanningFailed, len(report.Diagnostics.Errors), len(report.Mappers))
			}

			_, _ = fmt.Fprintf(out, "ok: %d mappers, %d warnings\n",
				len(report.Mappers), len(report.Diagnostics.Warnings))

			return nil
		},
	}
}
