package render

import (
	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/hooks"
)

// EmailAdapter renders table based, inline styled HTML for email clients.
type EmailAdapter struct {
	d dispatcher
}

// NewEmailAdapter returns an email adapter.
func NewEmailAdapter(opts ...Option) *EmailAdapter {
	return &EmailAdapter{d: newDispatcher(blocks.Email, hooks.EmailBlockHTML, opts)}
}

func (a *EmailAdapter) Name() string { return string(blocks.Email) }

func (a *EmailAdapter) DefaultSettings() core.CanvasSettings { return core.EmailDefaults() }

// GenerateBlockHTML renders a single block.
func (a *EmailAdapter) GenerateBlockHTML(b core.Block, opts core.RenderOptions) string {
	return a.d.generate(b, opts)
}

// WrapOutput places content in a complete email document.
func (a *EmailAdapter) WrapOutput(content string, settings core.CanvasSettings) string {
	return blocks.EmailDocument(content, settings.WithDefaults(a.DefaultSettings()))
}
