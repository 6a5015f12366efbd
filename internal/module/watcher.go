package module

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kannan/replicant/internal/logger"
)

// Watcher reports changes to a modules directory. Bursts of events are
// collapsed into a single signal once they settle.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	changes  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	return &Watcher{
		watcher:  w,
		dir:      filepath.Clean(dir),
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Changes delivers a value each time the directory settles after a change.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching. It does not block. The parent directory is
// watched too so that a modules directory which is removed and created
// again gets picked back up. A directory that cannot be watched is
// logged and the watcher idles until it appears or the watcher stops.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	if parent := filepath.Dir(w.dir); parent != w.dir {
		if err := w.watcher.Add(parent); err != nil {
			logger.Debug("module watcher: cannot watch parent", "dir", parent, "error", err)
		}
	}
	if err := w.watcher.Add(w.dir); err != nil {
		logger.Warn("module watcher: cannot watch directory", "dir", w.dir, "error", err)
	} else {
		logger.Debug("module watcher: watching", "dir", w.dir)
	}

	go w.run(ctx)
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		logger.Error("module watcher: close failed", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		timer   *time.Timer
		settled <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

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
			if !w.relevant(event) {
				continue
			}
			logger.Debug("module watcher: event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			settled = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("module watcher: error", "error", err)

		case <-settled:
			settled = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}

// relevant reports whether event touches the modules directory. Events
// on the directory itself re-establish the watch after it is recreated.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if filepath.Clean(event.Name) != w.dir {
		return filepath.Dir(event.Name) == w.dir
	}
	switch {
	case event.Op&fsnotify.Create != 0:
		if err := w.watcher.Add(w.dir); err != nil {
			logger.Warn("module watcher: cannot watch recreated directory", "dir", w.dir, "error", err)
		} else {
			logger.Info("module watcher: directory recreated, watching again", "dir", w.dir)
		}
	default:
		logger.Warn("module watcher: directory removed, waiting for it to return", "dir", w.dir)
	}
	return true
}
