// Package static renders persisted block documents on the server, without
// the render adapters. It shares the formatting rules and document shells
// with package render, so both paths produce the same HTML for the same
// tree. Custom renderers found through a Resolver take precedence over the
// built-in rules.
package static

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
	"github.com/rubiojr/blockpress/pkg/log"
)

var logger = log.ForService("static")

// Renderer renders documents and single blocks. It is safe for concurrent
// use.
type Renderer struct {
	resolver Resolver
	filters  *hooks.Filters
	// cache maps block types to a cached resolution, misses included.
	cache sync.Map
}

type cached struct {
	fn CustomRenderer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithResolver sets where custom renderers come from.
func WithResolver(r Resolver) Option {
	return func(s *Renderer) { s.resolver = r }
}

// WithFilters sets the filter chains applied to built-in output. Defaults
// to hooks.Default().
func WithFilters(f *hooks.Filters) Option {
	return func(s *Renderer) { s.filters = f }
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{filters: hooks.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) custom(blockType string) CustomRenderer {
	if r.resolver == nil {
		return nil
	}
	if v, ok := r.cache.Load(blockType); ok {
		return v.(cached).fn
	}
	fn, _ := r.resolver.Resolve(blockType)
	v, _ := r.cache.LoadOrStore(blockType, cached{fn: fn})
	return v.(cached).fn
}

// RenderBlock renders one block: its custom renderer when there is one and
// it succeeds, the built-in rule otherwise. Unknown types render as "".
func (r *Renderer) RenderBlock(blockType string, props core.Props, ctx Context, blockID string) string {
	if fn := r.custom(blockType); fn != nil {
		out, err := r.runCustom(fn, props, ctx, blockID)
		if err == nil {
			return out
		}
		logger.Errorf("custom renderer for %s block %s failed: %v", blockType, blockID, err)
	}

	b := core.Block{ID: blockID, Type: blockType, Props: props}
	out := blocks.Render(b, blocks.Context{
		Target:  ctx.Target,
		Options: ctx.Options,
		Child: func(child core.Block) string {
			return r.RenderBlock(child.Type, child.Props, ctx, child.ID)
		},
	})
	out = r.filters.ApplyFilters(hooks.Name(eventFor(ctx.Target), blockType), out, b, ctx.Options)
	return blocks.WrapLayout(out, props["layoutStyles"], ctx.Target)
}

func (r *Renderer) runCustom(fn CustomRenderer, props core.Props, ctx Context, blockID string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn(props, ctx, blockID)
}

// RenderBlocks renders list in order and concatenates the results.
func (r *Renderer) RenderBlocks(list []core.Block, target blocks.Target, opts core.RenderOptions) string {
	ctx := Context{Target: target, Options: opts}
	var sb strings.Builder
	for _, b := range list {
		sb.WriteString(r.RenderBlock(b.Type, b.Props, ctx, b.ID))
	}
	return sb.String()
}

// RenderDocument renders doc for target and wraps it: a complete email
// document, or the web content container.
func (r *Renderer) RenderDocument(doc *core.Document, target blocks.Target, opts core.RenderOptions) string {
	settings := SettingsFor(doc, target)
	opts.Settings = settings
	var list []core.Block
	if doc != nil {
		list = doc.Blocks
	}
	content := r.RenderBlocks(list, target, opts)
	if target == blocks.Email {
		return blocks.EmailDocument(content, settings)
	}
	return blocks.WebContent(content, settings)
}

// RenderPage renders doc as a standalone web page.
func (r *Renderer) RenderPage(doc *core.Document, opts core.RenderOptions) string {
	return blocks.StandalonePage(r.RenderDocument(doc, blocks.Web, opts), SettingsFor(doc, blocks.Web))
}

// SettingsFor resolves the canvas settings of doc for target.
func SettingsFor(doc *core.Document, target blocks.Target) core.CanvasSettings {
	defaults := core.WebDefaults()
	if target == blocks.Email {
		defaults = core.EmailDefaults()
	}
	if doc == nil {
		return defaults
	}
	return doc.CanvasSettings.WithDefaults(defaults)
}

func eventFor(target blocks.Target) string {
	if target == blocks.Email {
		return hooks.EmailBlockHTML
	}
	return hooks.PageBlockHTML
}
