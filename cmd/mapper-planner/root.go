package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"mapper-planner/internal/analyze"
	"mapper-planner/internal/ctxlog"
	"mapper-planner/internal/mapping"
	"mapper-planner/internal/metrics"
	"mapper-planner/internal/pipeline"
	"mapper-planner/internal/registry"
)

// options holds the flags shared by every command.
type options struct {
	mapping     string
	dir         string
	packages    []string
	format      string
	workers     int
	dump        bool
	logLevel    string
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mapper-planner",
		Short: "Resolve mapping plans between Go types",
		Long: `mapper-planner resolves, for every mapper declared in a mapping file,
how each destination value is created (constructor, static factory or
setters) and which source member populates each destination member.

Three plans are built per mapper:
  - projection    source -> destination
  - creation      destination -> source
  - modification  destination -> existing source`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLevel(opts.logLevel)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(ctxlog.WithLogger(contextOf(cmd), logger))

			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.mapping, "mapping", "m", "mappers.yaml", "mapping file")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "directory Go packages are loaded from")
	flags.StringSliceVarP(&opts.packages, "packages", "p", nil, "Go package patterns to load shapes from (overrides the mapping file)")
	flags.StringVarP(&opts.format, "format", "f", formatYAML, "output format: yaml, json or table")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "mappers planned concurrently (0 = GOMAXPROCS)")
	flags.BoolVar(&opts.dump, "dump", false, "dump the raw plans to stderr")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after each run")

	cmd.AddCommand(
		newPlanCmd(opts),
		newCheckCmd(opts),
		newWatchCmd(opts),
		newShapesCmd(opts),
	)

	return cmd
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return level, nil
}

// load reads the mapping file and builds its catalog and registry.
func (o *options) load() (*registry.Snapshot, *analyze.TypeGraph, error) {
	mf, err := o.loadMapping()
	if err != nil {
		return nil, nil, err
	}

	graph, err := mapping.Catalog(mf, o.dir)
	if err != nil {
		return nil, nil, err
	}

	snap, err := mapping.BuildRegistry(mf, graph)
	if err != nil {
		return nil, nil, err
	}

	return snap, graph, nil
}

func (o *options) loadMapping() (*mapping.MappingFile, error) {
	mf, err := mapping.LoadFile(o.mapping)
	if err != nil {
		return nil, err
	}

	if len(o.packages) > 0 {
		mf.Packages = o.packages
	}

	return mf, nil
}

// run loads the inputs and plans every mapper. Plan dumps go to dump.
func (o *options) run(ctx context.Context, dump io.Writer) (*pipeline.Report, error) {
	log := ctxlog.FromContext(ctx)

	snap, graph, err := o.load()
	if err != nil {
		return nil, err
	}

	log.Info("catalog loaded", "shapes", len(graph.Shapes), "mappers", snap.Len())

	var collector *metrics.Collector
	if o.metricsFile != "" {
		collector = metrics.NewCollector(nil)
	}

	report, err := pipeline.Run(ctx, snap, graph, pipeline.Options{Workers: o.workers, Metrics: collector})
	if err != nil {
		return nil, err
	}

	if o.dump {
		spew.Fdump(dump, report.Plans())
	}

	if collector != nil {
		if err := collector.WriteTextfile(o.metricsFile); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// watchedPath returns the absolute path of the mapping file.
func (o *options) watchedPath() (string, error) {
	return filepath.Abs(o.mapping)
}
