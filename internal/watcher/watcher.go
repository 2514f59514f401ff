// Package watcher reports batches of source file changes so that watch mode
// can rerun conversion.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tsreflect/tsreflect/internal/logger"
)

// Op is the kind of change observed for a path.
type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   Op
}

// DefaultPollInterval is used when native notifications are unavailable.
const DefaultPollInterval = 500 * time.Millisecond

// DefaultDebounce groups the burst of writes an editor or formatter makes.
const DefaultDebounce = 150 * time.Millisecond

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// Watcher watches directory trees for changes to files with the given
// extensions and delivers them to onChange in debounced batches. onChange is
// never called concurrently with itself.
type Watcher struct {
	dirs         []string
	extensions   []string // e.g., [".ts", ".tsx"]
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	onChange     func(events []Event)
	log          *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]Op
	timer   *time.Timer
	fireMu  sync.Mutex
}

// New creates a new file watcher.
func New(dirs []string, extensions []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	return &Watcher{
		dirs:         dirs,
		extensions:   extensions,
		debounce:     debounce,
		pollInterval: DefaultPollInterval,
		onChange:     onChange,
		log:          logger.ComponentLogger("watcher"),
		pending:      make(map[string]Op),
	}
}

// SetPollInterval sets the polling interval for file change detection.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.pollInterval = d
}

// UsePolling disables native notifications.
func (w *Watcher) UsePolling() {
	w.forcePoll = true
}

// Watch blocks until ctx is done. It uses OS notifications and falls back to
// polling when they cannot be set up.
func (w *Watcher) Watch(ctx context.Context) error {
	if !w.forcePoll {
		fw, err := fsnotify.NewWatcher()
		if err == nil {
			defer fw.Close()
			if err = w.addTree(fw); err == nil {
				return w.notifyLoop(ctx, fw)
			}
		}
		w.log.Warnw("native file watching unavailable, polling instead", logger.FieldError, err)
	}
	return w.pollLoop(ctx)
}

func (w *Watcher) addTree(fw *fsnotify.Watcher) error {
	for _, dir := range w.dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return fw.Add(path)
		})
		if err != nil {
			return errors.Wrapf(err, "watching %s", dir)
		}
	}
	return nil
}

func (w *Watcher) notifyLoop(ctx context.Context, fw *fsnotify.Watcher) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			// new directories must be watched explicitly
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !skipDirs[info.Name()] {
					_ = fw.Add(ev.Name)
					continue
				}
			}
			if op, ok := translate(ev.Op); ok && w.matches(ev.Name) {
				w.record([]Event{{Path: ev.Name, Op: op}})
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("file watcher error", logger.FieldError, err)
		}
	}
}

func translate(op fsnotify.Op) (Op, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemove, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	}
	return "", false
}

func (w *Watcher) pollLoop(ctx context.Context) error {
	defer w.stopTimer()
	snapshot := w.buildSnapshot()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			next := w.buildSnapshot()
			if events := w.diff(snapshot, next); len(events) > 0 {
				w.record(events)
			}
			snapshot = next
		}
	}
}

// record queues events and restarts the debounce timer. A later event for
// the same path replaces an earlier one, except that create followed by write
// stays a create.
func (w *Watcher) record(events []Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, e := range events {
		if prev, ok := w.pending[e.Path]; ok && prev == OpCreate && e.Op == OpWrite {
			continue
		}
		w.pending[e.Path] = e.Op
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	batch := make([]Event, 0, len(w.pending))
	for path, op := range w.pending {
		batch = append(batch, Event{Path: path, Op: op})
	}
	clear(w.pending)
	w.mu.Unlock()

	if len(batch) == 0 || w.onChange == nil {
		return
	}
	slices.SortFunc(batch, func(a, b Event) int { return strings.Compare(a.Path, b.Path) })

	w.fireMu.Lock()
	defer w.fireMu.Unlock()
	w.onChange(batch)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) matches(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	return slices.Contains(w.extensions, filepath.Ext(path))
}

type fileInfo struct {
	modTime time.Time
	size    int64
}

func (w *Watcher) buildSnapshot() map[string]fileInfo {
	snap := make(map[string]fileInfo)
	for _, dir := range w.dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != dir && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !w.matches(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			snap[path] = fileInfo{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return snap
}

func (w *Watcher) diff(old, new map[string]fileInfo) []Event {
	var events []Event

	for path, newInfo := range new {
		if oldInfo, ok := old[path]; ok {
			if newInfo.modTime != oldInfo.modTime || newInfo.size != oldInfo.size {
				events = append(events, Event{Path: path, Op: OpWrite})
			}
		} else {
			events = append(events, Event{Path: path, Op: OpCreate})
		}
	}

	for path := range old {
		if _, ok := new[path]; !ok {
			events = append(events, Event{Path: path, Op: OpRemove})
		}
	}

	return events
}
