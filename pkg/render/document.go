package render

import (
	"strings"

	"github.com/rubiojr/blockpress/pkg/core"
)

// Settings resolves the canvas settings of doc against the adapter's
// defaults.
func Settings(a Adapter, doc *core.Document) core.CanvasSettings {
	if doc == nil {
		return a.DefaultSettings()
	}
	return doc.CanvasSettings.WithDefaults(a.DefaultSettings())
}

// Blocks renders list in order and concatenates the results.
func Blocks(a Adapter, list []core.Block, opts core.RenderOptions) string {
	var sb strings.Builder
	for _, b := range list {
		sb.WriteString(a.GenerateBlockHTML(b, opts))
	}
	return sb.String()
}

// Document renders every top-level block of doc and wraps the result with
// the adapter's output wrapper. The resolved canvas settings replace
// opts.Settings.
func Document(a Adapter, doc *core.Document, opts core.RenderOptions) string {
	settings := Settings(a, doc)
	opts.Settings = settings
	var list []core.Block
	if doc != nil {
		list = doc.Blocks
	}
	return a.WrapOutput(Blocks(a, list, opts), settings)
}
