package blocks

import (
	"github.com/rubiojr/blockpress/pkg/style"
)

// WrapLayout wraps rendered block html in a container carrying the block's
// layoutStyles: a one-cell table for email, a div for web. Without layout
// styles, or when html is empty, html is returned unchanged.
func WrapLayout(html string, layout any, target Target) string {
	if html == "" || layout == nil {
		return html
	}
	css := style.Compose(layout)
	if css == "" {
		return html
	}
	if target == Email {
		return emailRow(` style="`+attr(css)+`"`, html)
	}
	return `<div style="` + attr(css) + `">` + html + `</div>`
}
