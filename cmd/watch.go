package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dqlens-cli/internal/dataset"
	"github.com/KaramelBytes/dqlens-cli/internal/ingest"
	"github.com/KaramelBytes/dqlens-cli/internal/report"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the overview whenever a report file changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := ingestOptions()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		store := dataset.NewStore()
		return watchSources(ctx, store, sources("", ""), opt, watchDebounce, func(snap dataset.Snapshot) {
			fmt.Fprintln(out, report.Overview(snap))
		})
	},
}

// watchSources loads every source, calls render, then reloads the kind of
// each changed file and calls render again until ctx is done. Changes within
// debounce of each other are reloaded once.
func watchSources(ctx context.Context, store *dataset.Store, srcs []ingest.Source, opt ingest.Options, debounce time.Duration, render func(dataset.Snapshot)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	byPath := make(map[string]ingest.Source, len(srcs))
	dirs := make(map[string]bool)
	for _, src := range srcs {
		abs, err := filepath.Abs(src.Path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src.Path, err)
		}
		byPath[abs] = src
		dirs[filepath.Dir(abs)] = true
	}
	// Watch directories, not files: editors and exporters replace files by rename.
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug().Str("dir", dir).Msg("watching")
	}

	ingest.LoadAll(store, srcs, opt, logger)
	render(store.Snapshot())

	pending := make(map[dataset.Kind]ingest.Source)
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			src, ok := byPath[abs]
			if !ok {
				continue
			}
			pending[src.Kind] = src
			if timer == nil {
				timer = time.After(debounce)
			}
		case <-timer:
			timer = nil
			batch := make([]ingest.Source, 0, len(pending))
			for _, k := range dataset.Kinds {
				if src, ok := pending[k]; ok {
					batch = append(batch, src)
				}
			}
			clear(pending)
			changed := 0
			for _, r := range ingest.LoadAll(store, batch, opt, logger) {
				if r.Err == nil {
					changed++
				}
			}
			if changed > 0 {
				render(store.Snapshot())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 200*time.Millisecond, "wait this long after a change before reloading")
}
