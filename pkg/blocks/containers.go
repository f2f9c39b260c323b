package blocks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

type columnsShape struct {
	slots  [][]core.Block
	count  int
	gap    string
	valign string
}

func columnsFrom(p core.Props) columnsShape {
	s := columnsShape{
		slots:  core.ColumnSlots(p),
		gap:    p.Size("gap", "20px"),
		valign: strings.ToLower(p.String("verticalAlign", "top")),
	}
	s.count = p.Int("columns", len(s.slots))
	if s.count < 1 {
		s.count = len(s.slots)
	}
	if s.count < 1 {
		s.count = 1
	}
	switch s.valign {
	case "top", "middle", "bottom":
	default:
		s.valign = "top"
	}
	return s
}

// slot returns the blocks of column i; missing slots are empty.
func (s columnsShape) slot(i int) []core.Block {
	if i < len(s.slots) {
		return s.slots[i]
	}
	return nil
}

// ColumnWidth returns the width of one of n equal columns, e.g. "50%" or
// "33.33%".
func ColumnWidth(n int) string {
	if n < 1 {
		n = 1
	}
	w := strconv.FormatFloat(100/float64(n), 'f', 2, 64)
	return strings.TrimRight(strings.TrimRight(w, "0"), ".") + "%"
}

func emailColumns(p core.Props, c *Context) string {
	s := columnsFrom(p)
	width := ColumnWidth(s.count)

	var sb strings.Builder
	sb.WriteString(emailTable(` style="table-layout: fixed;"`))
	sb.WriteString("<tr>")
	for i := 0; i < s.count; i++ {
		var d style.Declarations
		d.Add("width", width)
		d.Add("vertical-align", s.valign)
		if i < s.count-1 {
			d.Add("padding-right", s.gap)
		}
		sb.WriteString(`<td class="lb-email-column" width="` + width + `" valign="` + s.valign + `"` + styleAttr(d) + `>`)
		sb.WriteString(c.children(s.slot(i)))
		sb.WriteString("</td>")
	}
	sb.WriteString("</tr></table>")
	return sb.String()
}

var flexAlign = map[string]string{
	"top":    "flex-start",
	"middle": "center",
	"bottom": "flex-end",
}

func webColumns(p core.Props, c *Context) string {
	s := columnsFrom(p)

	var d style.Declarations
	d.Add("display", "flex")
	d.Add("gap", s.gap)
	d.Add("align-items", flexAlign[s.valign])

	var sb strings.Builder
	sb.WriteString(`<div class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(d) + `>`)
	for i := 0; i < s.count; i++ {
		sb.WriteString(`<div class="lb-column" style="flex: 1; min-width: 0;">`)
		sb.WriteString(c.children(s.slot(i)))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func sectionDecls(p core.Props) style.Declarations {
	var d style.Declarations
	d.Add("padding", p.Size("padding", "20px"))
	d.Add("background-color", p.String("backgroundColor", ""))
	if img := p.String("backgroundImage", ""); img != "" {
		d.Add("background-image", "url('"+img+"')")
		d.Add("background-size", "cover")
		d.Add("background-position", "center")
	}
	d.Add("border-radius", p.Size("borderRadius", ""))
	return d
}

func emailSection(p core.Props, c *Context) string {
	return emailRow(styleAttr(sectionDecls(p)), c.children(core.ChildBlocks(p)))
}

func webSection(p core.Props, c *Context) string {
	d := sectionDecls(p)
	if mw := p.Size("maxWidth", ""); mw != "" {
		d.Add("max-width", mw)
		d.Add("margin", "0 auto")
	}
	return `<section class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(d) + `>` + c.children(core.ChildBlocks(p)) + `</section>`
}

type accordionItem struct {
	title, content string
}

func accordionItems(p core.Props) []accordionItem {
	var out []accordionItem
	for _, raw := range p.List("items") {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		ip := core.Props(m)
		item := accordionItem{title: ip.String("title", ""), content: ip.String("content", "")}
		if item.title != "" || item.content != "" {
			out = append(out, item)
		}
	}
	return out
}

// emailAccordion renders every item expanded since email clients cannot
// toggle them.
func emailAccordion(p core.Props, c *Context) string {
	items := accordionItems(p)
	if len(items) == 0 {
		return ""
	}
	border := "1px solid " + p.String("borderColor", "#e5e7eb")
	font := c.Options.Settings.FontFamily

	var sb strings.Builder
	sb.WriteString(emailTable(` style="margin: 0 0 16px 0; border: ` + attr(border) + `; border-collapse: collapse;"`))
	for _, item := range items {
		var head style.Declarations
		head.Add("padding", "12px 16px")
		head.Add("background-color", p.String("headerBackgroundColor", ""))
		head.Add("color", p.String("headerTextColor", ""))
		head.Add("font-size", "16px")
		head.Add("font-weight", "bold")
		head.Add("border-top", border)
		head.Add("font-family", font)

		var body style.Declarations
		body.Add("padding", "12px 16px")
		body.Add("color", p.String("textColor", ""))
		body.Add("font-size", "14px")
		body.Add("line-height", "1.6")
		body.Add("font-family", font)

		sb.WriteString("<tr><td" + styleAttr(head) + ">" + text(item.title) + "</td></tr>")
		sb.WriteString("<tr><td" + styleAttr(body) + ">" + item.content + "</td></tr>")
	}
	sb.WriteString("</table>")
	return sb.String()
}

const accordionScript = `<script>(function(){var root=document.getElementById(%q);if(!root)return;var multi=root.getAttribute("data-allow-multiple")==="true";var items=root.querySelectorAll(".lb-accordion-item");function set(item,open){item.querySelector(".lb-accordion-header").setAttribute("aria-expanded",open?"true":"false");item.querySelector(".lb-accordion-content").style.display=open?"block":"none";item.querySelector(".lb-accordion-icon").textContent=open?"−":"+";}items.forEach(function(item){item.querySelector(".lb-accordion-header").addEventListener("click",function(){var open=this.getAttribute("aria-expanded")==="true";if(!multi){items.forEach(function(other){set(other,false);});}set(item,!open);});});})();</script>`

func webAccordion(p core.Props, c *Context) string {
	items := accordionItems(p)
	if len(items) == 0 {
		return ""
	}
	id := c.Options.ElementID("accordion")
	border := "1px solid " + p.String("borderColor", "#e5e7eb")
	openFirst := p.Bool("openFirst", true)

	var root style.Declarations
	root.Add("margin", "0 0 16px 0")
	root.Add("border", border)
	root.Add("border-radius", "6px")
	root.Add("overflow", "hidden")

	var head style.Declarations
	head.Add("display", "flex")
	head.Add("justify-content", "space-between")
	head.Add("align-items", "center")
	head.Add("width", "100%")
	head.Add("padding", "12px 16px")
	head.Add("background-color", p.String("headerBackgroundColor", ""))
	head.Add("color", p.String("headerTextColor", ""))
	head.Add("font-size", "16px")
	head.Add("font-weight", "bold")
	head.Add("text-align", "left")
	head.Add("border", "0")
	head.Add("cursor", "pointer")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div id="%s" class="%s" data-allow-multiple="%t"%s>`,
		attr(id), c.classes(p), p.Bool("allowMultiple", false), styleAttr(root)))
	for i, item := range items {
		open := openFirst && i == 0
		icon, display := "+", "none"
		if open {
			icon, display = "&minus;", "block"
		}

		itemStyle := ""
		if i < len(items)-1 {
			itemStyle = ` style="border-bottom: ` + attr(border) + `;"`
		}

		var body style.Declarations
		body.Add("display", display)
		body.Add("padding", "12px 16px")
		body.Add("color", p.String("textColor", ""))
		body.Add("font-size", "14px")
		body.Add("line-height", "1.6")

		sb.WriteString(`<div class="lb-accordion-item"` + itemStyle + `>`)
		sb.WriteString(fmt.Sprintf(`<button type="button" class="lb-accordion-header" aria-expanded="%t"%s><span>%s</span><span class="lb-accordion-icon" aria-hidden="true">%s</span></button>`,
			open, styleAttr(head), text(item.title), icon))
		sb.WriteString(`<div class="lb-accordion-content"` + styleAttr(body) + `>` + item.content + `</div>`)
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(accordionScript, id))
	return sb.String()
}
