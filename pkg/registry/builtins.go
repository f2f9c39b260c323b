package registry

import (
	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
)

var builtinMeta = []struct {
	blockType, label, icon, category string
}{
	{core.TypeHeading, "Heading", "heading", "basic"},
	{core.TypeText, "Text", "text", "basic"},
	{core.TypeImage, "Image", "image", "basic"},
	{core.TypeButton, "Button", "pointer", "basic"},
	{core.TypeDivider, "Divider", "minus", "layout"},
	{core.TypeSpacer, "Spacer", "move-vertical", "layout"},
	{core.TypeColumns, "Columns", "columns", "layout"},
	{core.TypeSection, "Section", "square", "layout"},
	{core.TypeVideo, "Video", "video", "media"},
	{core.TypeSocial, "Social Links", "share", "media"},
	{core.TypeQuote, "Quote", "quote", "content"},
	{core.TypeList, "List", "list", "content"},
	{core.TypeTable, "Table", "table", "content"},
	{core.TypeFooter, "Footer", "align-bottom", "content"},
	{core.TypeAccordion, "Accordion", "chevrons-down", "advanced"},
	{core.TypeCountdown, "Countdown", "timer", "advanced"},
	{core.TypeHTML, "Custom HTML", "code", "advanced"},
}

// Builtins returns fresh definitions for every built-in block type. They
// carry no generators: built-in types render through the shared rules.
func Builtins() []BlockDefinition {
	out := make([]BlockDefinition, 0, len(builtinMeta))
	for _, m := range builtinMeta {
		out = append(out, BlockDefinition{
			Type:         m.blockType,
			Label:        m.label,
			Icon:         m.icon,
			Category:     m.category,
			DefaultProps: blocks.DefaultProps(m.blockType),
		})
	}
	return out
}
