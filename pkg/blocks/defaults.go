package blocks

import (
	"github.com/rubiojr/blockpress/pkg/core"
)

var defaults = map[string]core.Props{
	core.TypeHeading: {
		"text":       "Your heading here",
		"level":      "h2",
		"align":      "left",
		"color":      "#1f2937",
		"fontWeight": "bold",
		"lineHeight": "1.3",
	},
	core.TypeText: {
		"content":    "<p>Write something here.</p>",
		"align":      "left",
		"color":      "#4b5563",
		"fontSize":   "16px",
		"lineHeight": "1.6",
	},
	core.TypeImage: {
		"src":          "",
		"alt":          "",
		"link":         "",
		"width":        "100%",
		"height":       "auto",
		"align":        "center",
		"borderRadius": "0",
	},
	core.TypeButton: {
		"text":            "Click here",
		"link":            "#",
		"backgroundColor": "#635bff",
		"textColor":       "#ffffff",
		"borderRadius":    "6px",
		"padding":         "12px 24px",
		"fontSize":        "16px",
		"fontWeight":      "bold",
		"align":           "center",
		"fullWidth":       false,
	},
	core.TypeDivider: {
		"style":     "solid",
		"color":     "#e5e7eb",
		"thickness": "1px",
		"width":     "100%",
		"margin":    "20px",
	},
	core.TypeSpacer: {
		"height": "40px",
	},
	core.TypeColumns: {
		"columns":       2,
		"gap":           "20px",
		"verticalAlign": "top",
	},
	core.TypeSocial: {
		"links":    []any{},
		"iconSize": "32px",
		"align":    "center",
		"gap":      "8px",
	},
	core.TypeHTML: {
		"code": "",
	},
	core.TypeQuote: {
		"text":            "",
		"author":          "",
		"borderColor":     "#635bff",
		"backgroundColor": "#f9fafb",
		"textColor":       "#374151",
		"align":           "left",
	},
	core.TypeList: {
		"items":      []any{},
		"listType":   "bullet",
		"color":      "#4b5563",
		"fontSize":   "16px",
		"lineHeight": "1.6",
	},
	core.TypeVideo: {
		"videoUrl":     "",
		"thumbnailUrl": "",
		"title":        "",
		"width":        "100%",
		"align":        "center",
		"playColor":    "rgba(0, 0, 0, 0.75)",
	},
	core.TypeFooter: {
		"companyName":     "",
		"address":         "",
		"phone":           "",
		"email":           "",
		"unsubscribeUrl":  "",
		"unsubscribeText": "Unsubscribe",
		"copyright":       "",
		"color":           "#9ca3af",
		"linkColor":       "#6b7280",
		"fontSize":        "12px",
		"align":           "center",
	},
	core.TypeCountdown: {
		"targetDate":      "",
		"targetTime":      "23:59",
		"title":           "",
		"expiredMessage":  "",
		"backgroundColor": "#1f2937",
		"textColor":       "#ffffff",
		"labelColor":      "#9ca3af",
		"align":           "center",
	},
	core.TypeTable: {
		"rows":                  []any{},
		"hasHeader":             true,
		"borderColor":           "#e5e7eb",
		"headerBackgroundColor": "#f3f4f6",
		"headerTextColor":       "#111827",
		"textColor":             "#374151",
		"cellPadding":           "10px",
		"fontSize":              "14px",
		"striped":               false,
		"stripeColor":           "#f9fafb",
	},
	core.TypeSection: {
		"backgroundColor": "",
		"padding":         "20px",
	},
	core.TypeAccordion: {
		"items":                 []any{},
		"allowMultiple":         false,
		"openFirst":             true,
		"headerBackgroundColor": "#f9fafb",
		"headerTextColor":       "#111827",
		"textColor":             "#4b5563",
		"borderColor":           "#e5e7eb",
	},
}

// DefaultProps returns a fresh copy of the default props of a built-in
// type, or nil for unknown types. Container types get empty children of
// the right shape.
func DefaultProps(blockType string) core.Props {
	def, ok := defaults[blockType]
	if !ok {
		return nil
	}
	out := core.Props{}.Merge(def)
	switch blockType {
	case core.TypeColumns:
		out["children"] = [][]core.Block{{}, {}}
	case core.TypeSection:
		out["children"] = []core.Block{}
	}
	return out
}
