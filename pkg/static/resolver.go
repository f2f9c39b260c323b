package static

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
)

// Context is what a custom renderer gets besides the props.
type Context struct {
	Target  blocks.Target
	Options core.RenderOptions
}

// CustomRenderer renders one block type. An error makes the renderer fall
// back to the built-in rule.
type CustomRenderer func(props core.Props, ctx Context, blockID string) (string, error)

// Resolver finds the custom renderer of a block type.
type Resolver interface {
	Resolve(blockType string) (CustomRenderer, bool)
}

// FuncResolver is an in-memory Resolver.
type FuncResolver map[string]CustomRenderer

func (r FuncResolver) Resolve(blockType string) (CustomRenderer, bool) {
	fn, ok := r[blockType]
	return fn, ok && fn != nil
}

var templateName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// DirResolver loads "<Dir>/<type>.html" templates. Templates are executed
// with TemplateData and TemplateFuncs.
type DirResolver struct {
	Dir string
}

// TemplateData is the dot value of custom renderer templates.
type TemplateData struct {
	Type     string
	BlockID  string
	Target   string
	Props    core.Props
	Settings core.CanvasSettings
	Preview  bool
}

func (r DirResolver) Resolve(blockType string) (CustomRenderer, bool) {
	if r.Dir == "" || !templateName.MatchString(blockType) {
		return nil, false
	}
	path := filepath.Join(r.Dir, blockType+".html")
	src, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warnf("reading renderer %s: %v", path, err)
		}
		return nil, false
	}

	tmpl, err := template.New(blockType).Funcs(TemplateFuncs()).Parse(string(src))
	if err != nil {
		logger.Errorf("parsing renderer %s: %v", path, err)
		return nil, false
	}
	logger.Debugf("loaded custom renderer %s", path)

	return func(props core.Props, ctx Context, blockID string) (string, error) {
		var sb strings.Builder
		err := tmpl.Execute(&sb, TemplateData{
			Type:     blockType,
			BlockID:  blockID,
			Target:   string(ctx.Target),
			Props:    props,
			Settings: ctx.Options.Settings,
			Preview:  ctx.Options.PreviewMode,
		})
		if err != nil {
			return "", fmt.Errorf("executing %s: %w", path, err)
		}
		return sb.String(), nil
	}, true
}

// Resolvers tries each resolver in order.
type Resolvers []Resolver

func (rs Resolvers) Resolve(blockType string) (CustomRenderer, bool) {
	for _, r := range rs {
		if r == nil {
			continue
		}
		if fn, ok := r.Resolve(blockType); ok {
			return fn, true
		}
	}
	return nil, false
}
