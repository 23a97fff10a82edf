// Package watch observes the persisted work index for external edits. Agents
// commit to the index from their own checkouts, so a long-running observer
// re-validates on every settle rather than assuming its in-memory view is
// current.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// IndexWatcher watches one work-index file and invokes a callback after
// changes settle. Editors and git checkouts replace the file rather than
// writing in place, so the watch is on the parent directory, filtered to the
// index path, with a debounce to batch rapid save sequences.
type IndexWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	indexPath   string // absolute path of the watched file
	onChange    func(ctx context.Context)
	logger      *zap.Logger
	lastEvent   time.Time
	pending     bool
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewIndexWatcher creates a watcher for indexPath. onChange fires once per
// settled burst of filesystem events.
func NewIndexWatcher(indexPath string, onChange func(ctx context.Context), logger *zap.Logger) (*IndexWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IndexWatcher{
		indexPath:   indexPath,
		onChange:    onChange,
		logger:      logger,
		debounceDur: 500 * time.Millisecond, // batches editor save + git checkout sequences
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine
// until Stop is called or ctx is cancelled. A stopped watcher can be started
// again; the underlying filesystem watch and the lifecycle channels are
// created fresh on each start.
func (w *IndexWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.indexPath)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		_ = watcher.Close()
		return err
	}
	w.logger.Debug("watching work index", zap.String("path", w.indexPath))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *IndexWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh, doneCh, watcher := w.stopCh, w.doneCh, w.watcher
	w.mu.Unlock()

	close(stopCh)
	<-doneCh

	if err := watcher.Close(); err != nil {
		w.logger.Warn("error closing watcher", zap.Error(err))
	}
}

func (w *IndexWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-debounceTicker.C:
			if w.takeSettled() {
				w.onChange(ctx)
			}
		}
	}
}

func (w *IndexWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.indexPath {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return // ignore chmod and removal noise
	}

	w.mu.Lock()
	w.lastEvent = time.Now()
	w.pending = true
	w.mu.Unlock()
}

// takeSettled reports whether a pending change has settled past the debounce
// window, consuming it if so.
func (w *IndexWatcher) takeSettled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || time.Since(w.lastEvent) < w.debounceDur {
		return false
	}
	w.pending = false
	return true
}
