package static

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/registry"
	"github.com/rubiojr/blockpress/pkg/render"
)

func quiet(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
}

func testOptions() core.RenderOptions {
	return core.RenderOptions{
		Now:         time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		NewID:       core.SequentialIDs(),
		Placeholder: core.StaticPlaceholder("https://x/placeholder.png"),
	}
}

const sampleDocument = `{
  "version": 1,
  "canvasSettings": {"width": 640, "title": "News"},
  "blocks": [
    {"id": "h", "type": "heading", "props": {"text": "Hello", "level": "h1",
      "layoutStyles": {"padding": {"top": 8, "bottom": 8}}}},
    {"id": "cols", "type": "columns", "props": {"columns": 2, "children": [
      [{"id": "img", "type": "image", "props": {"src": "https://x/a.png", "link": "https://x"}}],
      [{"id": "sec", "type": "section", "props": {"children": [
        {"id": "q", "type": "quote", "props": {"text": "Nice", "author": "Ann"}},
        {"id": "u", "type": "mystery", "props": {}}
      ]}}]
    ]}},
    {"id": "v", "type": "video", "props": {"videoUrl": "https://vimeo.com/42"}},
    {"id": "cd", "type": "countdown", "props": {"targetDate": "2025-01-05", "expiredMessage": "Over"}},
    {"id": "acc", "type": "accordion", "props": {"items": [{"title": "Q", "content": "A"}]}},
    {"id": "tbl", "type": "table", "props": {"rows": [["a", "b"], [1, 2]]}},
    {"id": "f", "type": "footer", "props": {"companyName": "ACME"}}
  ]
}`

func TestMatchesAdapters(t *testing.T) {
	doc, err := core.DecodeDocument([]byte(sampleDocument))
	require.NoError(t, err)

	s := New(WithFilters(hooks.New()))
	adapterOpts := []render.Option{render.WithRegistry(registry.New()), render.WithFilters(hooks.New())}

	email := render.Document(render.NewEmailAdapter(adapterOpts...), doc, testOptions())
	assert.Equal(t, email, s.RenderDocument(doc, blocks.Email, testOptions()))

	webAdapter := render.NewWebAdapter(adapterOpts...)
	web := render.Document(webAdapter, doc, testOptions())
	assert.Equal(t, web, s.RenderDocument(doc, blocks.Web, testOptions()))

	assert.Equal(t, webAdapter.GenerateStandalonePage(doc, testOptions()), s.RenderPage(doc, testOptions()))
}

func TestCustomRendererPrecedence(t *testing.T) {
	s := New(WithFilters(hooks.New()), WithResolver(FuncResolver{
		core.TypeHeading: func(p core.Props, ctx Context, id string) (string, error) {
			return "<h1 data-id=\"" + id + "\">" + p.String("text", "") + " (" + string(ctx.Target) + ")</h1>", nil
		},
	}))
	out := s.RenderBlock(core.TypeHeading, core.Props{"text": "Hi"}, Context{Target: blocks.Web}, "h1")
	assert.Equal(t, `<h1 data-id="h1">Hi (web)</h1>`, out)

	out = s.RenderBlock(core.TypeSpacer, nil, Context{Target: blocks.Web}, "s")
	assert.Contains(t, out, "lb-spacer", "types without a custom renderer use the built-in rule")
}

func TestCustomRendererFailuresFallBack(t *testing.T) {
	quiet(t)
	s := New(WithFilters(hooks.New()), WithResolver(FuncResolver{
		core.TypeHeading: func(core.Props, Context, string) (string, error) { return "", errors.New("nope") },
		core.TypeSpacer:  func(core.Props, Context, string) (string, error) { panic("boom") },
	}))
	ctx := Context{Target: blocks.Email, Options: testOptions()}

	assert.Contains(t, s.RenderBlock(core.TypeHeading, core.Props{"text": "Fallback"}, ctx, "h"), "Fallback")
	assert.Contains(t, s.RenderBlock(core.TypeSpacer, nil, ctx, "s"), "height: 40px")
}

type countingResolver struct {
	calls atomic.Int32
	inner Resolver
}

func (c *countingResolver) Resolve(blockType string) (CustomRenderer, bool) {
	c.calls.Add(1)
	return c.inner.Resolve(blockType)
}

func TestResolutionsAreCached(t *testing.T) {
	res := &countingResolver{inner: FuncResolver{
		"badge": func(core.Props, Context, string) (string, error) { return "<b>badge</b>", nil },
	}}
	s := New(WithFilters(hooks.New()), WithResolver(res))
	ctx := Context{Target: blocks.Web}

	for i := 0; i < 3; i++ {
		assert.Equal(t, "<b>badge</b>", s.RenderBlock("badge", nil, ctx, "b"))
		assert.Equal(t, "", s.RenderBlock("unknown", nil, ctx, "u"))
	}
	assert.Equal(t, int32(2), res.calls.Load(), "hits and misses are both cached")
}

func TestDirResolver(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	tmpl := `<span class="badge" style="{{ layout .Props }}" data-target="{{ .Target }}">{{ prop .Props "label" "New" | upper }}</span>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badge.html"), []byte(tmpl), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.html"), []byte(`{{ .Nope`), 0o644))

	s := New(WithFilters(hooks.New()), WithResolver(DirResolver{Dir: dir}))
	ctx := Context{Target: blocks.Email}

	out := s.RenderBlock("badge", core.Props{
		"label":        "<sale>",
		"layoutStyles": map[string]any{"padding": 4.0},
	}, ctx, "b1")
	assert.Equal(t, `<span class="badge" style="padding-top: 4px; padding-right: 4px; padding-bottom: 4px; padding-left: 4px" data-target="email">&lt;SALE&gt;</span>`, out)

	assert.Equal(t, "", s.RenderBlock("broken", nil, ctx, "x"))
	assert.Equal(t, "", s.RenderBlock("../etc/passwd", nil, ctx, "x"))

	_, ok := DirResolver{}.Resolve("badge")
	assert.False(t, ok)
}

func TestResolversChain(t *testing.T) {
	first := FuncResolver{"a": func(core.Props, Context, string) (string, error) { return "first", nil }}
	second := FuncResolver{
		"a": func(core.Props, Context, string) (string, error) { return "second", nil },
		"b": func(core.Props, Context, string) (string, error) { return "b", nil },
	}
	s := New(WithFilters(hooks.New()), WithResolver(Resolvers{nil, first, second}))
	assert.Equal(t, "first", s.RenderBlock("a", nil, Context{}, ""))
	assert.Equal(t, "b", s.RenderBlock("b", nil, Context{}, ""))
}

func TestTemplateFuncs(t *testing.T) {
	funcs := TemplateFuncs()
	for _, name := range []string{"prop", "size", "layout", "safeHTML", "upper", "default", "trimAll"} {
		assert.Contains(t, funcs, name)
	}
	truncate := funcs["truncate"].(func(string, int) string)
	assert.Equal(t, "héllo", truncate("héllo", 10))
	assert.Equal(t, "hé...", truncate("héllo world", 5))
}

func TestSettingsFor(t *testing.T) {
	assert.Equal(t, core.EmailDefaults(), SettingsFor(nil, blocks.Email))
	doc := core.NewDocument()
	doc.CanvasSettings.TextColor = "#000000"
	s := SettingsFor(doc, blocks.Web)
	assert.Equal(t, "#000000", s.TextColor)
	assert.Equal(t, core.WebDefaults().Width, s.Width)
	assert.True(t, strings.HasPrefix(New().RenderDocument(nil, blocks.Web, testOptions()), `<div class="lb-content"`))
}
