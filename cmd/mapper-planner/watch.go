package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"mapper-planner/internal/ctxlog"
)

// debounceInterval coalesces the burst of events editors produce on save.
const debounceInterval = 200 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-plan whenever the mapping file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validFormat(opts.format); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			replan := func(ctx context.Context) error {
				report, err := opts.run(ctx, cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				return writeReport(cmd.OutOrStdout(), report, opts.format)
			}

			if err := replan(ctx); err != nil {
				ctxlog.FromContext(ctx).Error("planning failed", "error", err)
			}

			path, err := opts.watchedPath()
			if err != nil {
				return err
			}

			return watchFile(ctx, path, replan)
		},
	}
}

// watchFile calls onChange after every debounced change of path until ctx is
// done. The parent directory is watched so that editors replacing the file
// are followed.
func watchFile(ctx context.Context, path string, onChange func(context.Context) error) error {
	log := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	log.Info("watching mapping file", "path", path)

	timer := time.NewTimer(debounceInterval)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !isChange(event, path) {
				continue
			}

			log.Debug("mapping file event", "op", event.Op.String())
			timer.Reset(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			log.Error("file watcher error", "error", err)

		case <-timer.C:
			if err := onChange(ctx); err != nil {
				log.Error("planning failed", "error", err)
			}
		}
	}
}

// isChange reports whether event modifies the watched file.
func isChange(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
