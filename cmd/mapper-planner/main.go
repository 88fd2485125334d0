// Package main provides the CLI entrypoint for mapper-planner.
//
// mapper-planner reads a mapping file, builds the shape catalog of the
// types it names and resolves, for every mapper, how a destination value is
// created and populated from a source value:
//   - plan: print the mapping plans
//   - check: fail when any plan has an error diagnostic
//   - watch: re-plan whenever the mapping file changes
//   - shapes: list the shapes of the catalog
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
