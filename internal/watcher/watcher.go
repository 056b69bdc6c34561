// Package watcher reports changes to the record files, batching bursts of
// writes into one Change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/packscheduler/internal/log"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 500 * time.Millisecond

// Change is one debounced batch. Files were written or replaced; Removed
// were deleted and not recreated within the window.
type Change struct {
	Files   []string
	Removed []string
}

// Watcher follows a fixed set of files.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

// New prepares a watcher for files. A debounce of zero means DefaultDebounce.
func New(debounce time.Duration, files ...string) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{fsw: fsw, files: make(map[string]bool, len(files)), debounce: debounce}
	for _, f := range files {
		w.files[filepath.Clean(f)] = true
	}
	return w, nil
}

// Run starts watching. The returned channel is closed when ctx ends or the
// watcher fails. Record files are replaced by rename, so the parent
// directories are watched and events filtered by name.
func (w *Watcher) Run(ctx context.Context) (<-chan Change, error) {
	watched := map[string]bool{}
	for f := range w.files {
		dir := filepath.Dir(f)
		if watched[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			_ = w.fsw.Close()
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		watched[dir] = true
		log.Debug(log.CatWatcher, "Watching directory", "dir", dir)
	}

	out := make(chan Change, 1)
	go w.loop(ctx, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, out chan<- Change) {
	defer close(out)
	defer func() { _ = w.fsw.Close() }()

	// Latest op per file within the window; true means it still exists.
	pending := map[string]bool{}
	quiet := time.NewTimer(w.debounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				pending[name] = true
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				pending[name] = false
			default:
				continue
			}
			quiet.Reset(w.debounce)

		case <-quiet.C:
			if len(pending) == 0 {
				continue
			}
			change := batch(pending)
			clear(pending)
			select {
			case out <- change:
				log.Debug(log.CatWatcher, "Record files changed", "files", change.Files, "removed", change.Removed)
			default:
				log.Debug(log.CatWatcher, "Change dropped, consumer busy", "files", change.Files)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watch error", err)
		}
	}
}

func batch(pending map[string]bool) Change {
	var c Change
	for name, exists := range pending {
		if exists {
			c.Files = append(c.Files, name)
		} else {
			c.Removed = append(c.Removed, name)
		}
	}
	slices.Sort(c.Files)
	slices.Sort(c.Removed)
	return c
}
