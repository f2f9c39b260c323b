package static

import (
	"encoding/json"
	"html/template"
	"strings"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/style"
)

// TemplateFuncs returns the functions available to custom renderer
// templates: the sprig HTML set plus block helpers.
//
//	{{ prop .Props "title" "Untitled" }}   string prop with default
//	{{ size .Props "width" "100%" }}        CSS length prop
//	{{ layout .Props }}                     layoutStyles as inline CSS
//	{{ safeHTML (prop .Props "body" "") }}  trusted markup
func TemplateFuncs() template.FuncMap {
	funcs := sprig.HtmlFuncMap()
	for name, fn := range blockFuncs {
		funcs[name] = fn
	}
	return funcs
}

var blockFuncs = template.FuncMap{
	"prop": func(p core.Props, key, def string) string { return p.String(key, def) },
	"size": func(p core.Props, key, def string) string { return p.Size(key, def) },
	"bool": func(p core.Props, key string) bool { return p.Bool(key, false) },
	"items": func(p core.Props, key string) []any {
		return p.List(key)
	},
	"layout": func(p core.Props) template.CSS {
		return template.CSS(style.Compose(p["layoutStyles"]))
	},
	"css":      func(s string) template.CSS { return template.CSS(s) },
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"safeURL":  func(s string) template.URL { return template.URL(s) },
	"truncate": func(s string, length int) string {
		r := []rune(s)
		if len(r) <= length {
			return s
		}
		if length <= 3 {
			return string(r[:length])
		}
		return string(r[:length-3]) + "..."
	},
	"parseJSON": func(s string) any {
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil
		}
		return out
	},
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
}
