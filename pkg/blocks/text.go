package blocks

import (
	"fmt"
	"strings"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

var headingSizes = map[string]string{
	"h1": "32px",
	"h2": "28px",
	"h3": "24px",
	"h4": "20px",
	"h5": "18px",
	"h6": "16px",
}

// headingLevel accepts "h1".."h6" or a bare number and falls back to h2.
func headingLevel(p core.Props) string {
	level := strings.ToLower(p.String("level", "h2"))
	if !strings.HasPrefix(level, "h") {
		level = "h" + level
	}
	if _, ok := headingSizes[level]; !ok {
		return "h2"
	}
	return level
}

func headingDecls(p core.Props, level string) style.Declarations {
	var d style.Declarations
	d.Add("margin", "0 0 16px 0")
	d.Add("text-align", align(p, "left"))
	d.Add("color", p.String("color", ""))
	d.Add("font-size", p.Size("fontSize", headingSizes[level]))
	d.Add("font-weight", p.String("fontWeight", "bold"))
	d.Add("line-height", p.String("lineHeight", ""))
	return d
}

func emailHeading(p core.Props, c *Context) string {
	level := headingLevel(p)
	d := headingDecls(p, level)
	d.Add("font-family", c.Options.Settings.FontFamily)
	return fmt.Sprintf("<%s%s>%s</%s>", level, styleAttr(d), p.String("text", ""), level)
}

func webHeading(p core.Props, c *Context) string {
	level := headingLevel(p)
	return fmt.Sprintf(`<%s class="%s"%s%s>%s</%s>`,
		level, c.classes(p), idAttr(p), styleAttr(headingDecls(p, level)), p.String("text", ""), level)
}

func textDecls(p core.Props) style.Declarations {
	var d style.Declarations
	d.Add("margin", "0 0 16px 0")
	d.Add("text-align", align(p, "left"))
	d.Add("color", p.String("color", ""))
	d.Add("font-size", p.Size("fontSize", ""))
	d.Add("line-height", p.String("lineHeight", ""))
	return d
}

func emailText(p core.Props, c *Context) string {
	d := textDecls(p)
	d.Add("font-family", c.Options.Settings.FontFamily)
	return "<div" + styleAttr(d) + ">" + p.String("content", "") + "</div>"
}

func webText(p core.Props, c *Context) string {
	return `<div class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(textDecls(p)) + ">" + p.String("content", "") + "</div>"
}

func emailQuote(p core.Props, c *Context) string {
	quote := p.String("text", "")
	if quote == "" {
		return ""
	}

	var cell style.Declarations
	cell.Add("border-left", "4px solid "+p.String("borderColor", ""))
	cell.Add("background-color", p.String("backgroundColor", ""))
	cell.Add("padding", "16px 20px")

	var body style.Declarations
	body.Add("margin", "0")
	body.Add("font-size", "18px")
	body.Add("font-style", "italic")
	body.Add("line-height", "1.5")
	body.Add("color", p.String("textColor", ""))
	body.Add("text-align", align(p, "left"))
	body.Add("font-family", c.Options.Settings.FontFamily)

	var sb strings.Builder
	sb.WriteString(emailTable(` style="margin: 0 0 16px 0;"`))
	sb.WriteString("<tr><td" + styleAttr(cell) + ">")
	sb.WriteString("<p" + styleAttr(body) + ">" + quote + "</p>")
	if author := p.String("author", ""); author != "" {
		sb.WriteString(`<p style="margin: 12px 0 0 0; font-size: 14px; color: #6b7280;">&mdash; ` + text(author) + "</p>")
	}
	sb.WriteString("</td></tr></table>")
	return sb.String()
}

func webQuote(p core.Props, c *Context) string {
	quote := p.String("text", "")
	if quote == "" {
		return ""
	}

	var d style.Declarations
	d.Add("margin", "0 0 16px 0")
	d.Add("padding", "16px 20px")
	d.Add("border-left", "4px solid "+p.String("borderColor", ""))
	d.Add("background-color", p.String("backgroundColor", ""))
	d.Add("color", p.String("textColor", ""))
	d.Add("text-align", align(p, "left"))

	out := `<blockquote class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(d) + `>` +
		`<p style="margin: 0; font-size: 18px; font-style: italic; line-height: 1.5;">` + quote + `</p>`
	if author := p.String("author", ""); author != "" {
		out += `<cite style="display: block; margin-top: 12px; font-size: 14px; font-style: normal; color: #6b7280;">&mdash; ` + text(author) + `</cite>`
	}
	return out + "</blockquote>"
}

func listTag(p core.Props) string {
	switch strings.ToLower(p.String("listType", "bullet")) {
	case "number", "numbered", "ordered", "ol":
		return "ol"
	}
	return "ul"
}

func listDecls(p core.Props) style.Declarations {
	var d style.Declarations
	d.Add("margin", "0 0 16px 0")
	d.Add("padding", "0 0 0 24px")
	d.Add("color", p.String("color", ""))
	d.Add("font-size", p.Size("fontSize", ""))
	d.Add("line-height", p.String("lineHeight", ""))
	return d
}

func emailList(p core.Props, c *Context) string {
	items := p.Strings("items")
	if len(items) == 0 {
		return ""
	}
	tag := listTag(p)
	d := listDecls(p)
	d.Add("font-family", c.Options.Settings.FontFamily)

	var sb strings.Builder
	sb.WriteString("<" + tag + styleAttr(d) + ">")
	for _, item := range items {
		sb.WriteString(`<li style="margin: 0 0 8px 0;">` + item + "</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func webList(p core.Props, c *Context) string {
	items := p.Strings("items")
	if len(items) == 0 {
		return ""
	}
	tag := listTag(p)

	var sb strings.Builder
	sb.WriteString("<" + tag + ` class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(listDecls(p)) + ">")
	for _, item := range items {
		sb.WriteString("<li>" + item + "</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func emailHTML(p core.Props, _ *Context) string {
	return p.String("code", "")
}

func webHTML(p core.Props, c *Context) string {
	code := p.String("code", "")
	if code == "" {
		return ""
	}
	return `<div class="` + c.classes(p) + `"` + idAttr(p) + `>` + code + `</div>`
}

// footerLines renders the footer paragraphs shared by both targets.
func footerLines(p core.Props, c *Context) string {
	linkColor := p.String("linkColor", "")
	var sb strings.Builder
	line := func(margin, content string) {
		sb.WriteString(`<p style="margin: ` + margin + `;">` + content + `</p>`)
	}

	if name := p.String("companyName", ""); name != "" {
		sb.WriteString(`<p style="margin: 0 0 4px 0; font-weight: bold;">` + text(name) + `</p>`)
	}
	if addr := p.String("address", ""); addr != "" {
		line("0 0 4px 0", strings.ReplaceAll(text(addr), "\n", "<br>"))
	}

	var contact []string
	if phone := p.String("phone", ""); phone != "" {
		contact = append(contact, text(phone))
	}
	if email := p.String("email", ""); email != "" {
		contact = append(contact, `<a href="mailto:`+attr(email)+`" style="color: `+attr(linkColor)+`; text-decoration: none;">`+text(email)+`</a>`)
	}
	if len(contact) > 0 {
		line("0 0 4px 0", strings.Join(contact, " &middot; "))
	}

	if u := p.String("unsubscribeUrl", ""); u != "" {
		line("8px 0 0 0", `<a href="`+attr(u)+`" style="color: `+attr(linkColor)+`; text-decoration: underline;">`+text(p.String("unsubscribeText", "Unsubscribe"))+`</a>`)
	}

	copyright := p.String("copyright", "")
	if copyright == "" {
		if name := p.String("companyName", ""); name != "" {
			copyright = fmt.Sprintf("© %d %s. All rights reserved.", c.Options.Clock().In(c.Options.Zone()).Year(), name)
		}
	}
	if copyright != "" {
		line("8px 0 0 0", text(copyright))
	}
	return sb.String()
}

func footerDecls(p core.Props) style.Declarations {
	var d style.Declarations
	d.Add("padding", "24px 0 0 0")
	d.Add("text-align", align(p, "center"))
	d.Add("color", p.String("color", ""))
	d.Add("font-size", p.Size("fontSize", ""))
	d.Add("line-height", "1.5")
	return d
}

func emailFooter(p core.Props, c *Context) string {
	d := footerDecls(p)
	d.Add("font-family", c.Options.Settings.FontFamily)
	return emailRow(` align="`+align(p, "center")+`"`+styleAttr(d), footerLines(p, c))
}

func webFooter(p core.Props, c *Context) string {
	return `<footer class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(footerDecls(p)) + `>` + footerLines(p, c) + `</footer>`
}
