package render

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/registry"
)

func testOptions() core.RenderOptions {
	return core.RenderOptions{
		Now:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		NewID: core.SequentialIDs(),
	}
}

func adapters(opts ...Option) []Adapter {
	return []Adapter{NewEmailAdapter(opts...), NewWebAdapter(opts...)}
}

func TestUnknownTypeRendersEmpty(t *testing.T) {
	for _, a := range adapters(WithRegistry(registry.New()), WithFilters(hooks.New())) {
		t.Run(a.Name(), func(t *testing.T) {
			out := a.GenerateBlockHTML(core.Block{ID: "x", Type: "mystery", Props: core.Props{
				"layoutStyles": map[string]any{"padding": 10.0},
			}}, testOptions())
			assert.Equal(t, "", out)
		})
	}
}

func TestRegistryGeneratorWins(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.BlockDefinition{
		Type: core.TypeHeading,
		HTMLGenerator: &registry.Generators{
			Email: func(b core.Block, _ core.RenderOptions) string { return "<h1>custom " + b.ID + "</h1>" },
			Page:  func(b core.Block, _ core.RenderOptions) string { return "<h1>page</h1>" },
		},
	})
	filters := hooks.New()
	filters.AddFilter(hooks.Name(hooks.EmailBlockHTML, core.TypeHeading), func(v string, _ ...any) string {
		return v + "<!-- filtered -->"
	})

	b := core.Block{ID: "h1", Type: core.TypeHeading, Props: core.Props{
		"text":         "ignored",
		"layoutStyles": map[string]any{"padding": 10.0},
	}}

	email := NewEmailAdapter(WithRegistry(reg), WithFilters(filters))
	assert.Equal(t, "<h1>custom h1</h1>", email.GenerateBlockHTML(b, testOptions()), "generator output is returned verbatim")

	web := NewWebAdapter(WithRegistry(reg), WithFilters(filters))
	assert.Equal(t, "<h1>page</h1>", web.GenerateBlockHTML(b, testOptions()))
}

func TestPanickingGeneratorFallsBack(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	reg := registry.New()
	reg.MustRegister(registry.BlockDefinition{
		Type: core.TypeSpacer,
		HTMLGenerator: &registry.Generators{
			Page: func(core.Block, core.RenderOptions) string { panic("boom") },
		},
	})
	web := NewWebAdapter(WithRegistry(reg), WithFilters(hooks.New()))
	out := web.GenerateBlockHTML(core.Block{ID: "s", Type: core.TypeSpacer}, testOptions())
	assert.Contains(t, out, "lb-spacer")
}

func TestBlankSocialPlatformDoesNotAbortDocument(t *testing.T) {
	doc := core.NewDocument(
		core.Block{ID: "s", Type: core.TypeSocial, Props: core.Props{"links": map[string]any{"": "https://x.test"}}},
		core.Block{ID: "h", Type: core.TypeHeading, Props: core.Props{"text": "Still here"}},
	)
	for _, a := range adapters(WithRegistry(registry.New()), WithFilters(hooks.New())) {
		t.Run(a.Name(), func(t *testing.T) {
			var out string
			require.NotPanics(t, func() {
				out = a.GenerateBlockHTML(doc.Blocks[0], testOptions())
			})
			assert.Equal(t, "", out)
			assert.Contains(t, Document(a, doc, testOptions()), "Still here")
		})
	}
}

func TestFiltersRunInOrderThenLayoutWraps(t *testing.T) {
	filters := hooks.New()
	name := hooks.Name(hooks.PageBlockHTML, core.TypeText)
	filters.AddFilter(name, func(v string, args ...any) string {
		b := args[0].(core.Block)
		return v + "<i>" + b.ID + "</i>"
	})
	filters.AddFilter(name, func(v string, _ ...any) string {
		return strings.ReplaceAll(v, "<i>", "<em>")
	})

	web := NewWebAdapter(WithRegistry(registry.New()), WithFilters(filters))
	out := web.GenerateBlockHTML(core.Block{ID: "t1", Type: core.TypeText, Props: core.Props{
		"content":      "Hi",
		"layoutStyles": map[string]any{"margin": map[string]any{"top": "10px", "right": "auto", "bottom": "20px", "left": "auto"}},
	}}, testOptions())

	assert.True(t, strings.HasPrefix(out, `<div style="margin: 10px auto 20px auto"><div class="lb-block lb-text"`), out)
	assert.True(t, strings.HasSuffix(out, "<em>t1</i></div>"), out)
}

func TestNestedBlocksUseFullDispatch(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(registry.BlockDefinition{
		Type: "badge",
		HTMLGenerator: &registry.Generators{
			Email: func(b core.Block, _ core.RenderOptions) string { return "[badge " + b.Props.String("label", "") + "]" },
		},
	})
	filters := hooks.New()
	filters.AddFilter(hooks.Name(hooks.EmailBlockHTML, core.TypeText), func(v string, _ ...any) string {
		return "<!--t-->" + v
	})

	cols := core.Block{ID: "c", Type: core.TypeColumns, Props: core.Props{
		"columns": 2.0,
		"children": [][]core.Block{
			{{ID: "b", Type: "badge", Props: core.Props{"label": "new"}}},
			{{ID: "t", Type: core.TypeText, Props: core.Props{"content": "right"}}, {ID: "u", Type: "unknown"}},
		},
	}}
	out := NewEmailAdapter(WithRegistry(reg), WithFilters(filters)).GenerateBlockHTML(cols, testOptions())

	left := strings.Index(out, "[badge new]")
	right := strings.Index(out, "<!--t--><div")
	require.GreaterOrEqual(t, left, 0, out)
	require.GreaterOrEqual(t, right, 0, out)
	assert.Less(t, left, right)
}

func TestDocumentEmail(t *testing.T) {
	doc := core.NewDocument(
		core.Block{ID: "h", Type: core.TypeHeading, Props: core.Props{"text": "Hello"}},
		core.Block{ID: "v", Type: core.TypeVideo, Props: core.Props{"videoUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}},
	)
	doc.CanvasSettings.Width = "600px"

	out := Document(NewEmailAdapter(WithRegistry(registry.New()), WithFilters(hooks.New())), doc, testOptions())
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `width="600"`)
	assert.Contains(t, out, "font-family: Arial", "email default font reaches the blocks")
	assert.Less(t, strings.Index(out, "Hello"), strings.Index(out, "hqdefault.jpg"))
	assert.NotContains(t, out, "<iframe")
}

func TestDocumentWeb(t *testing.T) {
	doc := core.NewDocument(core.Block{ID: "v", Type: core.TypeVideo, Props: core.Props{"videoUrl": "https://youtu.be/dQw4w9WgXcQ"}})
	web := NewWebAdapter(WithRegistry(registry.New()), WithFilters(hooks.New()))

	out := Document(web, doc, testOptions())
	assert.True(t, strings.HasPrefix(out, `<div class="lb-content"`), out)
	assert.Contains(t, out, `src="https://www.youtube.com/embed/dQw4w9WgXcQ`)
	assert.NotContains(t, out, "<html")

	page := web.GenerateStandalonePage(doc, testOptions())
	assert.Contains(t, page, "<html")
	assert.Contains(t, page, "@media (max-width: 768px)")
	assert.Contains(t, page, `<div class="lb-content"`)
}

func TestRenderingIsDeterministic(t *testing.T) {
	doc := core.NewDocument(
		core.Block{ID: "cd", Type: core.TypeCountdown, Props: core.Props{"targetDate": "2025-02-01"}},
		core.Block{ID: "ac", Type: core.TypeAccordion, Props: core.Props{"items": []any{map[string]any{"title": "Q", "content": "A"}}}},
	)
	for _, a := range adapters() {
		first := Document(a, doc, testOptions())
		second := Document(a, doc, testOptions())
		assert.Equal(t, first, second, a.Name())
	}
}

func TestForTarget(t *testing.T) {
	assert.Equal(t, "email", ForTarget(blocks.Email).Name())
	assert.Equal(t, "web", ForTarget(blocks.Web).Name())
	assert.Equal(t, core.EmailDefaults(), ForTarget(blocks.Email).DefaultSettings())
}
