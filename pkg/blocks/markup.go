package blocks

import (
	"html"
	"regexp"
	"strings"

	"github.com/gosimple/slug"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

var classToken = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

var attrReplacer = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

// attr escapes a value for a double quoted attribute.
func attr(s string) string {
	return attrReplacer.Replace(s)
}

// text escapes plain text content.
func text(s string) string {
	return html.EscapeString(s)
}

// styleAttr renders ` style="..."`, or nothing when d is empty.
func styleAttr(d style.Declarations) string {
	if len(d) == 0 {
		return ""
	}
	return ` style="` + attr(d.String()) + `"`
}

// classes returns the class list of a web block: "lb-block lb-<type>"
// followed by the author's customClass entries. Entries keep their case;
// anything that is not a plain class name is dropped.
func (c *Context) classes(p core.Props, extra ...string) string {
	out := []string{"lb-block", "lb-" + strings.ToLower(c.Type)}
	out = append(out, extra...)
	for _, cls := range strings.Fields(p.String("customClass", "")) {
		if classToken.MatchString(cls) {
			out = append(out, cls)
		}
	}
	return attr(strings.Join(out, " "))
}

// idAttr renders the author's anchor id, if any.
func idAttr(p core.Props) string {
	id := p.String("anchor", "")
	if id == "" {
		return ""
	}
	return ` id="` + attr(slug.Make(id)) + `"`
}

func align(p core.Props, def string) string {
	switch a := strings.ToLower(p.String("align", def)); a {
	case "left", "center", "right", "justify":
		return a
	}
	return def
}

// marginFor returns the margin that places a fixed width element according
// to the alignment.
func marginFor(alignment string) string {
	switch alignment {
	case "center":
		return "0 auto"
	case "right":
		return "0 0 0 auto"
	}
	return "0"
}

// emailTable opens a full width presentation table.
func emailTable(extra string) string {
	return `<table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0"` + extra + `>`
}

// emailRow wraps content in a single-cell full width table.
func emailRow(tdAttrs, content string) string {
	return emailTable("") + `<tr><td` + tdAttrs + `>` + content + `</td></tr></table>`
}

// widthAttr returns a numeric width attribute for px or percentage
// lengths, which Outlook honours where CSS widths are ignored.
func widthAttr(w string) string {
	w = strings.TrimSpace(w)
	switch {
	case strings.HasSuffix(w, "px"):
		return ` width="` + attr(strings.TrimSuffix(w, "px")) + `"`
	case strings.HasSuffix(w, "%"):
		return ` width="` + attr(w) + `"`
	}
	return ""
}
