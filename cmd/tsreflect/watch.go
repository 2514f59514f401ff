package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsreflect/tsreflect/internal/logger"
	"github.com/tsreflect/tsreflect/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert projects and convert again whenever a source file changes",
		Long: `watch runs convert, then watches the directory of every tsconfig for .ts and
.tsx changes. Projects whose inputs did not change are skipped by the cache.
Conversion errors are reported and watching continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			poll, _ := cmd.Flags().GetBool("poll")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cmd, s, debounce, poll)
		},
	}
	addConversionFlags(cmd)
	cmd.Flags().Bool("poll", false, "poll for changes instead of using OS notifications")
	cmd.Flags().Duration("debounce", watcher.DefaultDebounce, "quiet period before a rerun")
	return cmd
}

func watch(ctx context.Context, cmd *cobra.Command, s *settings, debounce time.Duration, poll bool) error {
	log := logger.ComponentLogger("watch")
	p := newPipeline(s)
	w := cmd.ErrOrStderr()

	rerun := func() {
		start := time.Now()
		results, err := p.run(ctx)
		report(w, s, results, time.Since(start))
		if err != nil {
			printError(w, err)
		}
	}
	rerun()

	fw := watcher.New(watchDirs(s.cfg.TSConfig), []string{".ts", ".tsx", ".mts", ".cts"}, debounce,
		func(events []watcher.Event) {
			log.Infow("change detected", logger.FieldCount, len(events), logger.FieldFile, events[0].Path)
			rerun()
		})
	if poll {
		fw.UsePolling()
	}
	log.Infow("watching for changes", logger.FieldCount, len(s.cfg.TSConfig))
	return fw.Watch(ctx)
}

// watchDirs returns the directory of each tsconfig, dropping directories
// nested in another one.
func watchDirs(tsconfigs []string) []string {
	var dirs []string
	for _, tc := range tsconfigs {
		dirs = append(dirs, filepath.Dir(tc))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	var roots []string
	for _, d := range dirs {
		nested := slices.ContainsFunc(roots, func(root string) bool {
			rel, err := filepath.Rel(root, d)
			return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
		})
		if !nested {
			roots = append(roots, d)
		}
	}
	return roots
}
