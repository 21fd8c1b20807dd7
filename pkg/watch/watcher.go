// Package watch monitors an input folder and hands newly arrived or
// rewritten .CAT files to a callback for extraction.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/catflow/catflow/pkg/ingest/sources"
)

// Watcher monitors a folder for .CAT file arrivals.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	files    map[string]*fileState
	mu       sync.RWMutex
	debounce time.Duration

	// OnFile is invoked once per settled file change.
	OnFile func(path string) error
	// OnError is invoked for watch or callback errors.
	OnError func(path string, err error)
}

type fileState struct {
	lastModified time.Time
	size         int64
	processing   bool
	pending      bool
}

// NewWatcher creates a watcher over a folder. debounce damps the burst
// of write events a file emits while it is still being copied in.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := fsWatcher.Add(absDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch folder: %w", err)
	}

	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		watcher:  fsWatcher,
		dir:      absDir,
		files:    make(map[string]*fileState),
		debounce: debounce,
	}, nil
}

// Run starts the watch loop. Blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	debounceTimers := make(map[string]*time.Timer)
	var timerMu sync.Mutex

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !sources.IsCatFile(event.Name) {
				continue
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			timerMu.Lock()
			if timer, exists := debounceTimers[absPath]; exists {
				timer.Stop()
			}
			debounceTimers[absPath] = time.AfterFunc(w.debounce, func() {
				w.handleChange(absPath)
			})
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	state, known := w.files[path]
	if !known {
		state = &fileState{}
		w.files[path] = state
	}
	if state.processing {
		// The file changed while its own extraction is running;
		// re-check once the current pass finishes instead of
		// dropping the event.
		state.pending = true
		w.mu.Unlock()
		return
	}
	state.processing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		state.processing = false
		rearm := state.pending
		state.pending = false
		w.mu.Unlock()
		if rearm {
			time.AfterFunc(w.debounce, func() { w.handleChange(path) })
		}
	}()

	stat, err := os.Stat(path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return
	}

	// Skip events that left the file unchanged.
	if known && stat.ModTime().Equal(state.lastModified) && stat.Size() == state.size {
		return
	}

	w.mu.Lock()
	state.lastModified = stat.ModTime()
	state.size = stat.Size()
	w.mu.Unlock()

	if w.OnFile != nil {
		if err := w.OnFile(path); err != nil {
			if w.OnError != nil {
				w.OnError(path, err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
