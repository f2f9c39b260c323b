package blocks

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

var widthPresets = map[string]string{
	"full":   "100%",
	"large":  "75%",
	"medium": "50%",
	"small":  "25%",
}

type imageShape struct {
	src, alt, link, caption string
	width, height           string
	align, radius           string
}

func imageFrom(p core.Props) imageShape {
	s := imageShape{
		src:     p.String("src", ""),
		alt:     p.String("alt", ""),
		link:    p.String("link", ""),
		caption: p.String("caption", ""),
		align:   align(p, "center"),
		radius:  p.Size("borderRadius", "0"),
	}

	s.width = p.Size("width", "100%")
	if s.width == "custom" {
		s.width = p.Size("customWidth", "100%")
	} else if preset, ok := widthPresets[s.width]; ok {
		s.width = preset
	}

	s.height = p.Size("height", "auto")
	if s.height == "custom" {
		s.height = p.Size("customHeight", "auto")
	}
	return s
}

func (s imageShape) imgDecls() style.Declarations {
	var d style.Declarations
	d.Add("display", "block")
	d.Add("width", s.width)
	d.Add("max-width", "100%")
	d.Add("height", s.height)
	d.Add("border", "0")
	d.Add("border-radius", s.radius)
	d.Add("margin", marginFor(s.align))
	return d
}

func emailImage(p core.Props, _ *Context) string {
	s := imageFrom(p)
	if s.src == "" {
		return ""
	}

	img := `<img src="` + attr(s.src) + `" alt="` + attr(s.alt) + `"` + widthAttr(s.width) + styleAttr(s.imgDecls()) + `>`
	if s.link != "" {
		img = `<a href="` + attr(s.link) + `" target="_blank" style="text-decoration: none;">` + img + `</a>`
	}
	if s.caption != "" {
		img += `<p style="margin: 8px 0 0 0; font-size: 13px; color: #6b7280; text-align: ` + s.align + `;">` + text(s.caption) + `</p>`
	}
	return emailRow(` align="`+s.align+`" style="padding: 0 0 16px 0;"`, img)
}

func webImage(p core.Props, c *Context) string {
	s := imageFrom(p)
	if s.src == "" {
		return ""
	}

	img := `<img src="` + attr(s.src) + `" alt="` + attr(s.alt) + `" loading="lazy"` + styleAttr(s.imgDecls()) + `>`
	if s.link != "" {
		img = `<a href="` + attr(s.link) + `" target="_blank" rel="noopener">` + img + `</a>`
	}
	if s.caption != "" {
		img += `<figcaption style="margin-top: 8px; font-size: 13px; color: #6b7280;">` + text(s.caption) + `</figcaption>`
	}
	return `<figure class="` + c.classes(p) + `"` + idAttr(p) + ` style="margin: 0 0 16px 0; text-align: ` + s.align + `;">` + img + `</figure>`
}

type buttonShape struct {
	label      string
	link       string
	bg         string
	fg         string
	radius     string
	padding    string
	fontSize   string
	fontWeight string
	align      string
	fullWidth  bool
}

func buttonFrom(p core.Props) buttonShape {
	return buttonShape{
		label:      p.String("text", "Click here"),
		link:       p.String("link", "#"),
		bg:         p.String("backgroundColor", ""),
		fg:         p.String("textColor", ""),
		radius:     p.Size("borderRadius", "0"),
		padding:    p.Size("padding", "12px 24px"),
		fontSize:   p.Size("fontSize", "16px"),
		fontWeight: p.String("fontWeight", "bold"),
		align:      align(p, "center"),
		fullWidth:  p.Bool("fullWidth", false),
	}
}

func (s buttonShape) linkDecls() style.Declarations {
	var d style.Declarations
	if s.fullWidth {
		d.Add("display", "block")
		d.Add("text-align", "center")
	} else {
		d.Add("display", "inline-block")
	}
	d.Add("padding", s.padding)
	d.Add("font-size", s.fontSize)
	d.Add("font-weight", s.fontWeight)
	d.Add("color", s.fg)
	d.Add("text-decoration", "none")
	d.Add("border-radius", s.radius)
	return d
}

// emailButton renders a table based button that keeps its background in
// clients which drop padding on links.
func emailButton(p core.Props, c *Context) string {
	s := buttonFrom(p)

	link := s.linkDecls()
	link.Add("font-family", c.Options.Settings.FontFamily)

	inner := emailTable("")
	if !s.fullWidth {
		inner = `<table role="presentation" cellpadding="0" cellspacing="0" border="0">`
	}
	inner += `<tr><td align="center" bgcolor="` + attr(s.bg) + `" style="border-radius: ` + attr(s.radius) + `; background-color: ` + attr(s.bg) + `;">` +
		`<a href="` + attr(s.link) + `" target="_blank"` + styleAttr(link) + `>` + text(s.label) + `</a>` +
		`</td></tr></table>`

	return emailRow(` align="`+s.align+`" style="padding: 0 0 16px 0;"`, inner)
}

func webButton(p core.Props, c *Context) string {
	s := buttonFrom(p)

	link := s.linkDecls()
	link.Add("background-color", s.bg)

	return `<div class="` + c.classes(p) + `"` + idAttr(p) + ` style="margin: 0 0 16px 0; text-align: ` + s.align + `;">` +
		`<a class="lb-button-link" href="` + attr(s.link) + `"` + styleAttr(link) + `>` + text(s.label) + `</a></div>`
}

func dividerBorder(p core.Props) string {
	lineStyle := strings.ToLower(p.String("style", "solid"))
	switch lineStyle {
	case "solid", "dashed", "dotted", "double":
	default:
		lineStyle = "solid"
	}
	return p.Size("thickness", "1px") + " " + lineStyle + " " + p.String("color", "#e5e7eb")
}

func emailDivider(p core.Props, _ *Context) string {
	width := p.Size("width", "100%")
	inner := `<table role="presentation" cellpadding="0" cellspacing="0" border="0" align="center"` + widthAttr(width) + ` style="width: ` + attr(width) + `;">` +
		`<tr><td style="border-top: ` + attr(dividerBorder(p)) + `; font-size: 1px; line-height: 1px;">&nbsp;</td></tr></table>`
	return emailRow(` style="padding: `+attr(p.Size("margin", "20px"))+` 0;"`, inner)
}

func webDivider(p core.Props, c *Context) string {
	var d style.Declarations
	d.Add("border", "none")
	d.Add("border-top", dividerBorder(p))
	d.Add("width", p.Size("width", "100%"))
	d.Add("margin", p.Size("margin", "20px")+" auto")
	return `<hr class="` + c.classes(p) + `"` + idAttr(p) + styleAttr(d) + `>`
}

func emailSpacer(p core.Props, _ *Context) string {
	h := attr(p.Size("height", "40px"))
	return `<div style="height: ` + h + `; line-height: ` + h + `; font-size: 1px;">&nbsp;</div>`
}

func webSpacer(p core.Props, c *Context) string {
	return `<div class="` + c.classes(p) + `"` + idAttr(p) + ` style="height: ` + attr(p.Size("height", "40px")) + `;" aria-hidden="true"></div>`
}

type socialLink struct {
	platform, url string
}

var socialPlatforms = map[string]struct {
	glyph, color string
}{
	"facebook":  {"f", "#1877f2"},
	"twitter":   {"X", "#000000"},
	"x":         {"X", "#000000"},
	"instagram": {"IG", "#e4405f"},
	"linkedin":  {"in", "#0a66c2"},
	"youtube":   {"YT", "#ff0000"},
	"tiktok":    {"TT", "#000000"},
	"pinterest": {"P", "#bd081c"},
	"github":    {"GH", "#181717"},
	"whatsapp":  {"WA", "#25d366"},
	"telegram":  {"TG", "#26a5e4"},
	"website":   {"www", "#4b5563"},
	"email":     {"@", "#4b5563"},
}

// platformLabel title-cases a platform name. Casers are stateful, so one is
// created per call.
func platformLabel(platform string) string {
	return cases.Title(language.English).String(platform)
}

// socialLinks accepts either a list of {platform, url} objects or a map of
// platform to url.
func socialLinks(p core.Props) []socialLink {
	var out []socialLink
	for _, item := range p.List("links") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		lp := core.Props(m)
		l := socialLink{
			platform: strings.ToLower(strings.TrimSpace(lp.String("platform", ""))),
			url:      lp.String("url", ""),
		}
		if l.platform != "" && l.url != "" {
			out = append(out, l)
		}
	}
	if byName := p.Map("links"); byName != nil {
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			platform := strings.ToLower(strings.TrimSpace(name))
			if u := core.Props(byName).String(name, ""); platform != "" && u != "" {
				out = append(out, socialLink{platform: platform, url: u})
			}
		}
	}
	return out
}

func socialIcon(l socialLink, size, gap string) (label string, d style.Declarations) {
	info, ok := socialPlatforms[l.platform]
	if !ok {
		if r, _ := utf8.DecodeRuneInString(l.platform); r != utf8.RuneError {
			info.glyph = strings.ToUpper(string(r))
		}
		info.color = "#4b5563"
	}
	d.Add("display", "inline-block")
	d.Add("width", size)
	d.Add("height", size)
	d.Add("line-height", size)
	d.Add("margin", "0 "+halfOf(gap))
	d.Add("border-radius", "50%")
	d.Add("background-color", info.color)
	d.Add("color", "#ffffff")
	d.Add("font-size", "13px")
	d.Add("font-weight", "bold")
	d.Add("text-align", "center")
	d.Add("text-decoration", "none")
	return info.glyph, d
}

func halfOf(gap string) string {
	n := core.Length(gap).Pixels(0)
	if n == 0 {
		return "0"
	}
	return core.SizeValue(float64(n)/2, "0")
}

func emailSocial(p core.Props, c *Context) string {
	links := socialLinks(p)
	if len(links) == 0 {
		return ""
	}
	size, gap := p.Size("iconSize", "32px"), p.Size("gap", "8px")

	var sb strings.Builder
	for _, l := range links {
		glyph, d := socialIcon(l, size, gap)
		d.Add("font-family", c.Options.Settings.FontFamily)
		sb.WriteString(`<a href="` + attr(l.url) + `" target="_blank" title="` + attr(platformLabel(l.platform)) + `"` + styleAttr(d) + `>` + text(glyph) + `</a>`)
	}
	a := align(p, "center")
	return emailRow(` align="`+a+`" style="padding: 0 0 16px 0; text-align: `+a+`;"`, sb.String())
}

func webSocial(p core.Props, c *Context) string {
	links := socialLinks(p)
	if len(links) == 0 {
		return ""
	}
	size, gap := p.Size("iconSize", "32px"), p.Size("gap", "8px")

	var sb strings.Builder
	sb.WriteString(`<div class="` + c.classes(p) + `"` + idAttr(p) + ` style="margin: 0 0 16px 0; text-align: ` + align(p, "center") + `;">`)
	for _, l := range links {
		glyph, d := socialIcon(l, size, gap)
		sb.WriteString(`<a class="lb-social-link lb-social-` + attr(l.platform) + `" href="` + attr(l.url) + `" target="_blank" rel="noopener" aria-label="` +
			attr(platformLabel(l.platform)) + `"` + styleAttr(d) + `>` + text(glyph) + `</a>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

type tableShape struct {
	header      []string
	rows        [][]string
	border      string
	headerBg    string
	headerColor string
	color       string
	padding     string
	fontSize    string
	striped     bool
	stripe      string
}

func tableFrom(p core.Props) tableShape {
	s := tableShape{
		border:      p.String("borderColor", "#e5e7eb"),
		headerBg:    p.String("headerBackgroundColor", ""),
		headerColor: p.String("headerTextColor", ""),
		color:       p.String("textColor", ""),
		padding:     p.Size("cellPadding", "10px"),
		fontSize:    p.Size("fontSize", "14px"),
		striped:     p.Bool("striped", false),
		stripe:      p.String("stripeColor", "#f9fafb"),
	}
	for _, row := range p.List("rows") {
		cells, ok := row.([]any)
		if !ok {
			continue
		}
		s.rows = append(s.rows, core.Props{"r": cells}.Strings("r"))
	}
	if headers := p.Strings("headers"); len(headers) > 0 {
		s.header = headers
	} else if p.Bool("hasHeader", true) && len(s.rows) > 0 {
		s.header, s.rows = s.rows[0], s.rows[1:]
	}
	return s
}

func (s tableShape) cellDecls(header bool, row int) style.Declarations {
	var d style.Declarations
	d.Add("padding", s.padding)
	d.Add("border", "1px solid "+s.border)
	d.Add("text-align", "left")
	if header {
		d.Add("background-color", s.headerBg)
		d.Add("color", s.headerColor)
		d.Add("font-weight", "bold")
	} else if s.striped && row%2 == 1 {
		d.Add("background-color", s.stripe)
	}
	return d
}

func (s tableShape) tableDecls() style.Declarations {
	var d style.Declarations
	d.Add("border-collapse", "collapse")
	d.Add("font-size", s.fontSize)
	d.Add("color", s.color)
	return d
}

func (s tableShape) rowsHTML() string {
	var sb strings.Builder
	for i, row := range s.rows {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td" + styleAttr(s.cellDecls(false, i)) + ">" + text(cell) + "</td>")
		}
		sb.WriteString("</tr>")
	}
	return sb.String()
}

func (s tableShape) headerHTML() string {
	var sb strings.Builder
	sb.WriteString("<tr>")
	for _, cell := range s.header {
		sb.WriteString(`<th align="left"` + styleAttr(s.cellDecls(true, 0)) + ">" + text(cell) + "</th>")
	}
	sb.WriteString("</tr>")
	return sb.String()
}

func emailDataTable(p core.Props, c *Context) string {
	s := tableFrom(p)
	if len(s.header) == 0 && len(s.rows) == 0 {
		return ""
	}
	d := s.tableDecls()
	d.Add("margin", "0 0 16px 0")
	d.Add("font-family", c.Options.Settings.FontFamily)

	out := emailTable(styleAttr(d))
	if len(s.header) > 0 {
		out += s.headerHTML()
	}
	return out + s.rowsHTML() + "</table>"
}

func webDataTable(p core.Props, c *Context) string {
	s := tableFrom(p)
	if len(s.header) == 0 && len(s.rows) == 0 {
		return ""
	}
	d := s.tableDecls()
	d.Add("width", "100%")

	out := `<div class="` + c.classes(p) + `"` + idAttr(p) + ` style="overflow-x: auto; margin: 0 0 16px 0;"><table` + styleAttr(d) + `>`
	if len(s.header) > 0 {
		out += "<thead>" + s.headerHTML() + "</thead>"
	}
	return out + "<tbody>" + s.rowsHTML() + "</tbody></table></div>"
}
