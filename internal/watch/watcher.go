// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a project check whenever files under the project
// directory change.
//
// Events are coalesced: the callback fires once per quiet period with every
// path that changed since the previous call.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

var (
	// ErrAlreadyStarted is returned by a second call to Run.
	ErrAlreadyStarted = errors.New("watch: Run called more than once")

	// Directories that are never descended into, at any depth.
	skippedDirNames = []string{".git", ".hg", ".svn", "node_modules", ".cache"}

	// Editor and OS noise.
	ignoredSuffixes = []string{".swp", ".swo", "~", ".DS_Store"}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the project directory. Empty means the working directory.
		BaseDir string

		// Skip lists directories relative to BaseDir whose contents never
		// trigger the callback, typically the build output directory.
		Skip []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values use the default.
		Debounce time.Duration

		// OnChange receives the sorted, deduplicated changed paths relative
		// to BaseDir in slash form. Errors are logged, not fatal.
		OnChange func(ctx context.Context, changed []string) error
	}

	// Watcher monitors a project tree. Run must be called exactly once.
	Watcher struct {
		fsw      *fsnotify.Watcher
		baseDir  string
		skip     []string
		debounce time.Duration
		onChange func(ctx context.Context, changed []string) error
		started  atomic.Bool
	}
)

// New registers every directory under cfg.BaseDir that is not skipped.
func New(cfg Config) (*Watcher, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	skip := make([]string, 0, len(cfg.Skip))
	for _, s := range cfg.Skip {
		s = strings.Trim(filepath.ToSlash(filepath.Clean(s)), "/")
		if s != "" && s != "." && !strings.HasPrefix(s, "../") && s != ".." {
			skip = append(skip, s)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		baseDir:  absBase,
		skip:     skip,
		debounce: debounce,
		onChange: cfg.OnChange,
	}
	if err := w.addTree(absBase); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the underlying watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	// fire runs on the timer goroutine. A callback still in progress
	// reschedules instead of overlapping.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 || w.onChange == nil {
			return
		}
		slog.Debug("project changed", "paths", changed)
		if err := w.onChange(ctx, changed); err != nil {
			slog.Error("watch callback failed", "err", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			slog.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			rel, ok := w.relative(evt.Name)
			if !ok || w.ignored(rel) {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddTree(evt.Name)
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			slog.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skip unreadable path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, ok := w.relative(path); ok && rel != "." && w.ignored(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %q: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// maybeAddTree extends the watch to directories created after startup.
func (w *Watcher) maybeAddTree(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		slog.Warn("watch new directory", "path", path, "err", err)
	}
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// ignored reports whether a slash-separated path relative to the base
// directory lies in a skipped directory or is editor noise.
func (w *Watcher) ignored(rel string) bool {
	for _, s := range w.skip {
		if rel == s || strings.HasPrefix(rel, s+"/") {
			return true
		}
	}
	parts := strings.Split(rel, "/")
	for _, part := range parts {
		if slices.Contains(skippedDirNames, part) {
			return true
		}
	}
	base := parts[len(parts)-1]
	for _, suffix := range ignoredSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
