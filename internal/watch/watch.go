// Package watch re-runs a callback when files under a skill directory change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// DefaultIgnore lists directory names never watched.
var DefaultIgnore = []string{".git", "node_modules", "__pycache__", ".venv"}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last event before the handler runs.
	Debounce time.Duration
	// Ignore lists directory base names to skip. Nil means DefaultIgnore.
	Ignore []string
}

// Handler receives the sorted, slash-separated paths (relative to the watched
// directory) that changed since the previous call. A non-nil error stops Run.
type Handler func(ctx context.Context, changed []string) error

// Watcher watches a directory tree.
type Watcher struct {
	dir      string
	debounce time.Duration
	ignore   []string
	fsw      *fsnotify.Watcher
}

// New creates a Watcher and registers every directory under dir.
func New(dir string, opts Options) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		fsw:      fsw,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.ignore == nil {
		w.ignore = DefaultIgnore
	}

	if _, err := w.addTree(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers debounced changes to fn until ctx is cancelled, the watcher is
// closed, or fn returns an error. Cancellation is not an error.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			timer.Reset(w.debounce)
		}
		fire = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			changed := w.handleEvent(event)
			if len(changed) == 0 {
				continue
			}
			for _, p := range changed {
				pending[p] = struct{}{}
			}
			schedule()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				slog.Warn("File watcher overflowed, rescoring", "dir", w.dir)
				pending["."] = struct{}{}
				schedule()
				continue
			}
			slog.Warn("File watcher error", "error", err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)

			slog.Debug("Detected changes", "dir", w.dir, "paths", changed)
			if err := fn(ctx, changed); err != nil {
				return err
			}
		}
	}
}

// handleEvent returns the relative paths an event marks as changed.
func (w *Watcher) handleEvent(event fsnotify.Event) []string {
	if event.Op == fsnotify.Chmod {
		return nil
	}
	rel, ok := w.relative(event.Name)
	if !ok || w.ignored(rel) {
		return nil
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// Files written before the directory was registered produce no events.
			files, err := w.addTree(event.Name)
			if err != nil {
				slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
			}
			// An empty directory still changes the layout.
			return append(files, rel)
		}
	}
	return []string{rel}
}

// addTree registers root and every non-ignored directory below it, returning
// the relative paths of regular files found along the way.
func (w *Watcher) addTree(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, ok := w.relative(path)
		if !ok {
			return nil
		}
		if !d.IsDir() {
			if d.Type().IsRegular() {
				files = append(files, rel)
			}
			return nil
		}
		if rel != "." && w.ignored(rel) {
			return filepath.SkipDir
		}
		slog.Debug("Adding directory to watcher", "dir", path)
		return w.fsw.Add(path)
	})
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	return files, nil
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) ignored(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if slices.Contains(w.ignore, part) {
			return true
		}
	}
	return false
}
