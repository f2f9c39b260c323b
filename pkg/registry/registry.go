// Package registry holds the block definitions known to an editor or
// renderer: labels, icons, categories, default props and optional per-target
// HTML generators that take precedence over the built-in formatting rules.
//
// Definitions are registered at start-up and read concurrently afterwards.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
)

// Generator renders one block for a single target.
type Generator func(b core.Block, opts core.RenderOptions) string

// Generators are the optional per-target overrides of a definition. Page is
// used by the web target.
type Generators struct {
	Email Generator
	Page  Generator
}

// BlockDefinition describes a block type.
type BlockDefinition struct {
	Type          string      `json:"type"`
	Label         string      `json:"label"`
	Icon          string      `json:"icon,omitempty"`
	Category      string      `json:"category,omitempty"`
	DefaultProps  core.Props  `json:"defaultProps,omitempty"`
	HTMLGenerator *Generators `json:"-"`
}

// ErrEmptyType is returned when registering a definition without a type.
var ErrEmptyType = errors.New("block definition has no type")

// CategoryOrder is the fixed priority of the well known categories.
var CategoryOrder = []string{"basic", "layout", "media", "content", "advanced"}

// Registry maps block types to definitions, remembering registration order.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]BlockDefinition
	order []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{defs: make(map[string]BlockDefinition)}
}

// Register adds def, replacing any previous definition of the same type
// while keeping its original position.
func (r *Registry) Register(def BlockDefinition) error {
	def.Type = strings.TrimSpace(def.Type)
	if def.Type == "" {
		return ErrEmptyType
	}
	if def.Label == "" {
		def.Label = labelFor(def.Type)
	}
	if def.Category == "" {
		def.Category = "advanced"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Type]; !exists {
		r.order = append(r.order, def.Type)
	}
	r.defs[def.Type] = def
	return nil
}

// MustRegister is Register for init-time tables; it panics on error.
func (r *Registry) MustRegister(defs ...BlockDefinition) {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(fmt.Sprintf("registering block %q: %v", def.Type, err))
		}
	}
}

// Get looks up a definition. Unknown types report false.
func (r *Registry) Get(blockType string) (BlockDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[blockType]
	return def, ok
}

// GetAll returns every definition in registration order.
func (r *Registry) GetAll() []BlockDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]BlockDefinition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t])
	}
	return out
}

// Category groups the definitions of one category.
type Category struct {
	Name   string            `json:"name"`
	Blocks []BlockDefinition `json:"blocks"`
}

// GetCategories groups definitions by category. Well known categories come
// first in CategoryOrder, the rest follow in the order they were first seen.
// Empty categories are omitted.
func (r *Registry) GetCategories() []Category {
	byName := map[string][]BlockDefinition{}
	var seen []string
	for _, def := range r.GetAll() {
		if _, ok := byName[def.Category]; !ok {
			seen = append(seen, def.Category)
		}
		byName[def.Category] = append(byName[def.Category], def)
	}

	var out []Category
	for _, name := range CategoryOrder {
		if defs, ok := byName[name]; ok {
			out = append(out, Category{Name: name, Blocks: defs})
			delete(byName, name)
		}
	}
	for _, name := range seen {
		if defs, ok := byName[name]; ok {
			out = append(out, Category{Name: name, Blocks: defs})
		}
	}
	return out
}

// Generator returns the registered override of blockType for target, if any.
func (r *Registry) Generator(blockType string, target blocks.Target) (Generator, bool) {
	def, ok := r.Get(blockType)
	if !ok || def.HTMLGenerator == nil {
		return nil, false
	}
	g := def.HTMLGenerator.Page
	if target == blocks.Email {
		g = def.HTMLGenerator.Email
	}
	return g, g != nil
}

// DefaultsFor returns a copy of the default props of blockType: the
// registered ones when present, otherwise the built-in defaults.
func (r *Registry) DefaultsFor(blockType string) core.Props {
	if def, ok := r.Get(blockType); ok && def.DefaultProps != nil {
		return core.Props{}.Merge(def.DefaultProps)
	}
	return blocks.DefaultProps(blockType)
}

// NewBlock creates a block of blockType seeded with its default props.
func (r *Registry) NewBlock(blockType string, props core.Props) core.Block {
	return core.NewBlock(blockType, r.DefaultsFor(blockType).Merge(props))
}

func labelFor(blockType string) string {
	words := strings.FieldsFunc(blockType, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, pre-loaded with the built-in
// definitions on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
		defaultReg.MustRegister(Builtins()...)
	})
	return defaultReg
}
