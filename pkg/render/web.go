package render

import (
	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
)

// WebAdapter renders semantic HTML5 for web pages.
type WebAdapter struct {
	d dispatcher
}

// NewWebAdapter returns a web adapter.
func NewWebAdapter(opts ...Option) *WebAdapter {
	return &WebAdapter{d: newDispatcher(blocks.Web, hooks.PageBlockHTML, opts)}
}

func (a *WebAdapter) Name() string { return string(blocks.Web) }

func (a *WebAdapter) DefaultSettings() core.CanvasSettings { return core.WebDefaults() }

// GenerateBlockHTML renders a single block.
func (a *WebAdapter) GenerateBlockHTML(b core.Block, opts core.RenderOptions) string {
	return a.d.generate(b, opts)
}

// WrapOutput places content in the page content container. It does not
// produce a full document; see GenerateStandalonePage.
func (a *WebAdapter) WrapOutput(content string, settings core.CanvasSettings) string {
	return blocks.WebContent(content, settings.WithDefaults(a.DefaultSettings()))
}

// GenerateStandalonePage renders doc as a complete HTML5 page with the
// shared stylesheet, mobile breakpoint and the document's custom CSS.
func (a *WebAdapter) GenerateStandalonePage(doc *core.Document, opts core.RenderOptions) string {
	settings := doc.CanvasSettings.WithDefaults(a.DefaultSettings())
	return blocks.StandalonePage(Document(a, doc, opts), settings)
}
