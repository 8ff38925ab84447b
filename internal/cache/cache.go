// Package cache memoizes template parsing keyed by raw source string.
//
// Templates are typically reused across many call sites and parsing is the
// most expensive step, so the store guarantees at most one canonical parse
// per distinct raw string: concurrent callers racing on the same string
// share one result, and no two diverging Template instances for the same
// raw string are ever live at once. Grammar errors are remembered the same
// way; a failed parse never places a partial Template in the store.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/conneroisu/mtempl/internal/parser"
	"github.com/conneroisu/mtempl/internal/template"
)

// Event notifies watchers that a raw string was parsed for the first time.
type Event struct {
	// Template is the parsed template, nil when parsing failed.
	Template *template.Template
	// Raw is the source string the event is about.
	Raw string
	// Err is the grammar error for failed parses, nil on success.
	Err error
	// Timestamp records when the parse completed.
	Timestamp time.Time
}

// entry memoizes one parse. The once gate makes the parse itself
// single-flight: late arrivals block until the first caller finishes.
// done publishes the results to readers that bypass the once gate.
type entry struct {
	once sync.Once
	done atomic.Bool
	tmpl *template.Template
	err  error
}

// Store is the process-wide template cache. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	watchers []chan Event

	statsMu sync.Mutex
	hits    uint64
	misses  uint64
}

// NewStore creates an empty template store.
func NewStore() *Store {
	return &Store{entries: make(map[string]*entry)}
}

// GetOrParse returns the canonical Template for raw, parsing it on first
// use. Both outcomes are cached: a raw string that fails to parse keeps
// failing with the same grammar error without being re-scanned.
func (s *Store) GetOrParse(raw string) (*template.Template, error) {
	s.mu.RLock()
	e, ok := s.entries[raw]
	s.mu.RUnlock()

	if !ok {
		s.mu.Lock()
		// Double-checked: another caller may have inserted while we
		// upgraded the lock.
		e, ok = s.entries[raw]
		if !ok {
			e = &entry{}
			s.entries[raw] = e
		}
		s.mu.Unlock()
	}

	first := false
	e.once.Do(func() {
		first = true
		e.tmpl, e.err = parser.Parse(raw)
		e.done.Store(true)
	})

	s.statsMu.Lock()
	if first {
		s.misses++
	} else {
		s.hits++
	}
	s.statsMu.Unlock()

	if first {
		s.notify(Event{Template: e.tmpl, Raw: raw, Err: e.err, Timestamp: time.Now()})
	}
	return e.tmpl, e.err
}

// Get returns the cached Template for raw without parsing.
func (s *Store) Get(raw string) (*template.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[raw]
	if !ok || !e.done.Load() || e.tmpl == nil {
		return nil, false
	}
	return e.tmpl, true
}

// Len returns the number of distinct raw strings seen, including failures.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns cumulative hit and miss counts.
func (s *Store) Stats() (hits, misses uint64) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.hits, s.misses
}

// Watch registers a channel that receives an Event for every first parse.
// Slow watchers are skipped rather than blocking the parser.
func (s *Store) Watch(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers = append(s.watchers, ch)
}

// Unwatch removes a previously registered channel.
func (s *Store) Unwatch(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.watchers {
		if w == ch {
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			return
		}
	}
}

func (s *Store) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.watchers {
		select {
		case w <- ev:
		default:
			// Skip if the channel is full.
		}
	}
}
