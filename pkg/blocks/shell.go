package blocks

import (
	"embed"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/style"
)

//go:embed shells/*.tmpl
var shellFS embed.FS

// MobileBreakpoint is the viewport width (px) below which web columns stack.
const MobileBreakpoint = 768

var shells = template.Must(template.New("shells").Funcs(sprig.TxtFuncMap()).ParseFS(shellFS, "shells/*.tmpl"))

type shellData struct {
	Settings       core.CanvasSettings
	Content        string
	WidthPx        int
	Breakpoint     int
	Margin         string
	BodyStyle      string
	OuterStyle     string
	ContainerStyle string
	ContentStyle   string
	CustomCSS      string
}

func execShell(name string, data shellData) string {
	var sb strings.Builder
	if err := shells.ExecuteTemplate(&sb, name, data); err != nil {
		log.ForService("render").Errorf("failed to render %s shell: %v", name, err)
		return data.Content
	}
	return sb.String()
}

func backgroundDecls(d *style.Declarations, s core.CanvasSettings) {
	d.Add("background-color", s.BackgroundColor)
	if s.BackgroundImage != "" {
		d.Add("background-image", "url('"+s.BackgroundImage+"')")
		d.Add("background-repeat", s.BackgroundRepeat)
		d.Add("background-position", s.BackgroundPosition)
		d.Add("background-size", s.BackgroundSize)
	}
}

func borderDecls(d *style.Declarations, s core.CanvasSettings) {
	if bw := s.BorderWidth.String(); bw != "" && bw != "0" {
		d.Add("border", strings.TrimSpace(bw+" "+s.BorderStyle+" "+s.BorderColor))
	}
	d.Add("border-radius", s.BorderRadius.String())
}

// EmailDocument wraps rendered email blocks in a complete HTML document:
// an outer background table, a centred content card of the canvas width
// and the conditional markup Outlook needs to respect that width.
func EmailDocument(content string, s core.CanvasSettings) string {
	width := s.Width.Pixels(700)

	var body, outer, container, inner style.Declarations
	body.Add("margin", "0")
	body.Add("padding", "0")
	body.Add("background-color", s.BackgroundColor)
	body.Add("font-family", s.FontFamily)

	backgroundDecls(&outer, s)

	container.Add("max-width", s.Width.String())
	container.Add("background-color", s.ContentBackgroundColor)
	borderDecls(&container, s)

	inner.Add("padding", s.ContentPadding.String())
	inner.Add("color", s.TextColor)
	inner.Add("font-family", s.FontFamily)

	return execShell("email.html.tmpl", shellData{
		Settings:       s,
		Content:        content,
		WidthPx:        width,
		Margin:         attr(orDefault(s.ContentMargin.String(), "0")),
		BodyStyle:      attr(body.String()),
		OuterStyle:     attr(outer.String()),
		ContainerStyle: attr(container.String()),
		ContentStyle:   attr(inner.String()),
		CustomCSS:      style.SanitizeStylesheet(s.CustomCSS),
	})
}

// WebContent wraps rendered web blocks in the page content container.
func WebContent(content string, s core.CanvasSettings) string {
	var d style.Declarations
	d.Add("max-width", s.Width.String())
	d.Add("margin", s.ContentMargin.String())
	d.Add("padding", s.ContentPadding.String())
	d.Add("background-color", s.ContentBackgroundColor)
	d.Add("color", s.TextColor)
	d.Add("font-family", s.FontFamily)
	borderDecls(&d, s)
	return `<div class="lb-content"` + styleAttr(d) + `>` + content + `</div>`
}

// StandalonePage embeds already wrapped web content in a full HTML5
// document with the shared stylesheet and the author's custom CSS.
func StandalonePage(content string, s core.CanvasSettings) string {
	var body style.Declarations
	backgroundDecls(&body, s)
	body.Add("color", s.TextColor)
	body.Add("font-family", s.FontFamily)

	bodyCSS := ""
	if len(body) > 0 {
		bodyCSS = style.SanitizeStylesheet(body.String() + ";")
	}

	return execShell("page.html.tmpl", shellData{
		Settings:   s,
		Content:    content,
		Breakpoint: MobileBreakpoint,
		BodyStyle:  bodyCSS,
		CustomCSS:  style.SanitizeStylesheet(s.CustomCSS),
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
