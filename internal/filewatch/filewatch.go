// Package filewatch provides debounced single-file change notification
// over fsnotify, adapted from a general directory-tree watcher down to
// the narrower shape pipelineyaml.Watch needs: one path, one callback,
// rapid writes coalesced into a single notification.
package filewatch

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the window within which successive write events to
// the watched file are coalesced into a single callback invocation.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a single file and invokes a handler, debounced, after
// each write.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   func()
	debounce  time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Watch starts watching path, calling handler (debounced by d, or
// DefaultDebounce if d is zero) after each write event.
func Watch(path string, d time.Duration, handler func()) (*Watcher, error) {
	if d == 0 {
		d = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(path); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		debounce:  d,
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				w.trigger()
			}
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.handler)
}

// Close stops the watcher and releases its fsnotify resources.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsWatcher.Close()
}
