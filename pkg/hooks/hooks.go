// Package hooks implements named filter chains. Renderers pass their
// per-block output through the chain "<event>.<blockType>" so extensions
// can rewrite it.
package hooks

import (
	"sync"

	"github.com/rubiojr/blockpress/pkg/log"
)

// Render events.
const (
	EmailBlockHTML = "email.block_html"
	PageBlockHTML  = "page.block_html"
)

// Filter receives the current value plus the caller's extra arguments and
// returns the new value.
type Filter func(value string, args ...any) string

// Filters is a set of filter chains keyed by name.
type Filters struct {
	mu     sync.RWMutex
	chains map[string][]Filter
}

var (
	defaultFilters     *Filters
	defaultFiltersOnce sync.Once
)

// New returns an empty filter set.
func New() *Filters {
	return &Filters{chains: make(map[string][]Filter)}
}

// Default returns the process-wide filter set.
func Default() *Filters {
	defaultFiltersOnce.Do(func() {
		defaultFilters = New()
	})
	return defaultFilters
}

// Name builds the chain name for an event and a block type.
func Name(event, blockType string) string {
	return event + "." + blockType
}

// AddFilter appends fn to the chain called name.
func (f *Filters) AddFilter(name string, fn Filter) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chains[name] = append(f.chains[name], fn)
}

// HasFilters reports whether anything is registered under name.
func (f *Filters) HasFilters(name string) bool {
	if f == nil {
		return false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.chains[name]) > 0
}

// RemoveAll drops the chain called name.
func (f *Filters) RemoveAll(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.chains, name)
}

// ApplyFilters runs the chain called name in registration order, feeding
// each filter the previous filter's output. A panicking filter is logged
// and skipped. A nil receiver returns value unchanged.
func (f *Filters) ApplyFilters(name, value string, args ...any) string {
	if f == nil {
		return value
	}
	f.mu.RLock()
	chain := append([]Filter(nil), f.chains[name]...)
	f.mu.RUnlock()

	for i, fn := range chain {
		value = apply(name, i, fn, value, args)
	}
	return value
}

func apply(name string, i int, fn Filter, value string, args []any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.ForService("hooks").Errorf("filter %d of %s panicked: %v", i, name, r)
			out = value
		}
	}()
	return fn(value, args...)
}
