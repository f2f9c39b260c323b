// Package render turns block documents into HTML through target adapters.
//
// Both adapters share one dispatch path per block:
//
//  1. a generator registered for the type in the block registry, returned
//     verbatim;
//  2. otherwise the built-in formatting rule of the type, with nested blocks
//     rendered through this same path;
//  3. the "<event>.<type>" filter chain;
//  4. the block's layoutStyles wrapper.
//
// A panicking generator is logged and the built-in rule is used instead.
package render

import (
	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/registry"
)

// Adapter renders blocks for one output target.
type Adapter interface {
	Name() string
	DefaultSettings() core.CanvasSettings
	GenerateBlockHTML(b core.Block, opts core.RenderOptions) string
	WrapOutput(content string, settings core.CanvasSettings) string
}

// Option configures an adapter.
type Option func(*dispatcher)

// WithRegistry sets the registry consulted for per-type generators.
// Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(d *dispatcher) { d.registry = r }
}

// WithFilters sets the filter chains applied to block output. Defaults to
// hooks.Default().
func WithFilters(f *hooks.Filters) Option {
	return func(d *dispatcher) { d.filters = f }
}

// WithLogger overrides the adapter logger.
func WithLogger(l *log.Logger) Option {
	return func(d *dispatcher) { d.logger = l }
}

type dispatcher struct {
	target   blocks.Target
	event    string
	registry *registry.Registry
	filters  *hooks.Filters
	logger   *log.Logger
}

func newDispatcher(target blocks.Target, event string, opts []Option) dispatcher {
	d := dispatcher{
		target:   target,
		event:    event,
		registry: registry.Default(),
		filters:  hooks.Default(),
		logger:   log.ForService("render"),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func (d *dispatcher) generate(b core.Block, opts core.RenderOptions) string {
	if d.registry != nil {
		if g, ok := d.registry.Generator(b.Type, d.target); ok {
			if out, ok := d.custom(g, b, opts); ok {
				return out
			}
		}
	}

	out := blocks.Render(b, blocks.Context{
		Target:  d.target,
		Options: opts,
		Child: func(child core.Block) string {
			return d.generate(child, opts)
		},
	})
	out = d.filters.ApplyFilters(hooks.Name(d.event, b.Type), out, b, opts)
	return blocks.WrapLayout(out, b.Props["layoutStyles"], d.target)
}

func (d *dispatcher) custom(g registry.Generator, b core.Block, opts core.RenderOptions) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("%s generator for %s block %s panicked: %v", d.target, b.Type, b.ID, r)
			out, ok = "", false
		}
	}()
	return g(b, opts), true
}

// ForTarget returns the adapter of target.
func ForTarget(target blocks.Target, opts ...Option) Adapter {
	if target == blocks.Email {
		return NewEmailAdapter(opts...)
	}
	return NewWebAdapter(opts...)
}
