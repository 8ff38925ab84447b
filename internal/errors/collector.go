package errors

import (
	"sync"
	"time"
)

// ValidationError records one grammar error found while validating a
// template catalog entry, annotated with where it came from.
type ValidationError struct {
	// Name is the catalog entry name the template was registered under.
	Name string
	// File is the catalog file the template was loaded from, if any.
	File string
	// Err is the underlying grammar error.
	Err *GrammarError
	// Timestamp records when the error was collected.
	Timestamp time.Time
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v.File != "" {
		return v.File + ": " + v.Name + ": " + v.Err.Error()
	}
	return v.Name + ": " + v.Err.Error()
}

// Unwrap returns the underlying grammar error.
func (v *ValidationError) Unwrap() error { return v.Err }

// Collector accumulates validation errors from concurrent catalog loads.
type Collector struct {
	mu     sync.RWMutex
	errors []*ValidationError
}

// NewCollector creates an empty error collector.
func NewCollector() *Collector {
	return &Collector{errors: make([]*ValidationError, 0)}
}

// Add records one validation error.
func (c *Collector) Add(name, file string, err *GrammarError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, &ValidationError{
		Name:      name,
		File:      file,
		Err:       err,
		Timestamp: time.Now(),
	})
}

// Errors returns a copy of the collected errors.
func (c *Collector) Errors() []*ValidationError {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*ValidationError, len(c.errors))
	copy(out, c.errors)
	return out
}

// HasErrors reports whether any errors were collected.
func (c *Collector) HasErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.errors) > 0
}

// Clear discards all collected errors.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = c.errors[:0]
}
