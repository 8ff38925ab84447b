// Package watcher watches template catalog files for changes with
// debouncing, so bursts of editor writes trigger one revalidation.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents one catalog file change.
type ChangeEvent struct {
	Type    EventType
	Path    string
	ModTime time.Time
}

// EventType represents the type of file change.
type EventType int

const (
	EventTypeCreated EventType = iota
	EventTypeModified
	EventTypeDeleted
	EventTypeRenamed
)

// String returns the string representation of the EventType.
func (e EventType) String() string {
	switch e {
	case EventTypeCreated:
		return "created"
	case EventTypeModified:
		return "modified"
	case EventTypeDeleted:
		return "deleted"
	case EventTypeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// FileFilter determines whether a changed path is interesting.
type FileFilter func(path string) bool

// ChangeHandler handles a debounced batch of change events.
type ChangeHandler func(events []ChangeEvent) error

// ErrorHandler receives watcher errors; watching continues afterwards.
type ErrorHandler func(err error)

// CatalogWatcher watches catalog paths and delivers debounced change
// batches to registered handlers.
type CatalogWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	filters   []FileFilter
	handlers  []ChangeHandler
	onError   ErrorHandler
	mu        sync.RWMutex
}

// New creates a catalog watcher that groups changes arriving within
// debounceDelay into one handler invocation.
func New(debounceDelay time.Duration) (*CatalogWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &CatalogWatcher{
		watcher: fsw,
		debouncer: &debouncer{
			delay:  debounceDelay,
			events: make(chan ChangeEvent, 100),
			output: make(chan []ChangeEvent, 10),
		},
	}, nil
}

// AddFilter adds a file filter; all filters must accept a path for it to
// be delivered.
func (w *CatalogWatcher) AddFilter(filter FileFilter) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler adds a change handler.
func (w *CatalogWatcher) AddHandler(handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// OnError sets the handler invoked for fsnotify and handler errors.
func (w *CatalogWatcher) OnError(handler ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = handler
}

// AddPath watches a file or directory. Directories are watched
// recursively.
func (w *CatalogWatcher) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch path %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}
	return filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(p)
		}
		return nil
	})
}

// Start launches the watch, debounce, and dispatch loops. They run until
// ctx is cancelled.
func (w *CatalogWatcher) Start(ctx context.Context) {
	go w.debouncer.run(ctx)
	go w.dispatch(ctx)
	go w.watchLoop(ctx)
}

// Stop closes the underlying fsnotify watcher.
func (w *CatalogWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *CatalogWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
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
			w.reportError(err)
		}
	}
}

func (w *CatalogWatcher) handleEvent(event fsnotify.Event) {
	w.mu.RLock()
	filters := w.filters
	w.mu.RUnlock()
	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	change := ChangeEvent{Path: event.Name}
	switch {
	case event.Op.Has(fsnotify.Create):
		change.Type = EventTypeCreated
	case event.Op.Has(fsnotify.Write):
		change.Type = EventTypeModified
	case event.Op.Has(fsnotify.Remove):
		change.Type = EventTypeDeleted
	case event.Op.Has(fsnotify.Rename):
		change.Type = EventTypeRenamed
	default:
		change.Type = EventTypeModified
	}
	if info, err := os.Stat(event.Name); err == nil {
		change.ModTime = info.ModTime()
	}

	select {
	case w.debouncer.events <- change:
	default:
		// Drop rather than block the fsnotify loop.
	}
}

func (w *CatalogWatcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-w.debouncer.output:
			if !ok {
				return
			}
			w.mu.RLock()
			handlers := w.handlers
			w.mu.RUnlock()
			for _, handler := range handlers {
				if err := handler(batch); err != nil {
					w.reportError(err)
				}
			}
		}
	}
}

func (w *CatalogWatcher) reportError(err error) {
	w.mu.RLock()
	onError := w.onError
	w.mu.RUnlock()
	if onError != nil {
		onError(err)
	}
}

// debouncer groups rapid file changes together.
type debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	pending []ChangeEvent
}

func (d *debouncer) run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.pending = append(d.pending, event)
			if timer == nil {
				timer = time.NewTimer(d.delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(d.delay)
			}
			fire = timer.C
		case <-fire:
			batch := d.pending
			d.pending = nil
			fire = nil
			select {
			case d.output <- batch:
			default:
			}
		}
	}
}
