// Package watcher reports changes to the compleet config file.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/compleet/internal/log"
	"github.com/zjrosen/compleet/internal/pubsub"
)

// Watcher monitors one file and publishes a debounced event each time it is
// written, recreated or removed. The payload is the watched path.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	broker    *pubsub.Broker[string]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		DebounceDur: 200 * time.Millisecond,
	}
}

// New creates a watcher for cfg.Path. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      filepath.Clean(cfg.Path),
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[string](1),
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a subscription to change events for the watched file.
func (w *Watcher) Subscribe(ctx context.Context) *pubsub.Subscription[string] {
	return w.broker.Subscribe(ctx)
}

// Start begins watching. The parent directory is watched rather than the
// file so that editors which save by renaming are still seen.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	log.Debug(log.CatWatcher, "Watching config", "path", w.path)
	go w.loop()
	return nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	w.broker.Close()
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending pubsub.EventType
	)

	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			kind, relevant := w.classify(event)
			if !relevant {
				continue
			}
			pending = kind

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC():
			if pending != "" {
				log.Debug(log.CatWatcher, "Config changed", "path", w.path, "event", pending)
				w.broker.Publish(pending, w.path)
				pending = ""
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatcher, "Watch error", "path", w.path, "error", err)
			w.broker.Publish(pubsub.ErrorEvent, err.Error())

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// classify maps an fsnotify event on the watched file to an event type.
func (w *Watcher) classify(event fsnotify.Event) (pubsub.EventType, bool) {
	if filepath.Clean(event.Name) != w.path {
		return "", false
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return pubsub.UpdatedEvent, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return pubsub.DeletedEvent, true
	default:
		return "", false
	}
}
