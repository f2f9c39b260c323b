// Package blocks holds the formatting rules for every built-in block type.
//
// Each type has one Rule with an email and a web formatter. The render
// adapters and the static renderer both dispatch through this table, so a
// block renders the same way no matter which path produced it.
//
// Formatters are pure: the output depends only on the props, the render
// options and the nested block renderer in the Context.
package blocks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
)

var ruleLog = log.ForService("render")

// Target selects the output flavour.
type Target string

const (
	Email Target = "email"
	Web   Target = "web"
)

// ParseTarget maps a user supplied name to a Target. "page" is accepted as
// an alias for web.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email", "mail":
		return Email, nil
	case "web", "page", "html":
		return Web, nil
	}
	return "", fmt.Errorf("unknown render target %q (want email or web)", s)
}

func (t Target) String() string { return string(t) }

// Func formats a single block.
type Func func(p core.Props, c *Context) string

// Rule pairs the formatters of a block type.
type Rule struct {
	Email Func
	Web   Func
}

// Context is handed to every formatter.
type Context struct {
	Target  Target
	Options core.RenderOptions
	// Type and BlockID identify the block being formatted.
	Type    string
	BlockID string
	// Child renders a nested block through the caller's full dispatch
	// path. When nil, nested blocks go through Render directly.
	Child func(b core.Block) string
}

func (c *Context) child(b core.Block) string {
	if c.Child != nil {
		return c.Child(b)
	}
	nested := *c
	return Render(b, nested)
}

func (c *Context) children(blocks []core.Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(c.child(b))
	}
	return sb.String()
}

// rules is filled in init: the container formatters recurse through Render,
// which reads rules.
var rules map[string]Rule

func init() {
	rules = map[string]Rule{
		core.TypeHeading:   {Email: emailHeading, Web: webHeading},
		core.TypeText:      {Email: emailText, Web: webText},
		core.TypeImage:     {Email: emailImage, Web: webImage},
		core.TypeButton:    {Email: emailButton, Web: webButton},
		core.TypeDivider:   {Email: emailDivider, Web: webDivider},
		core.TypeSpacer:    {Email: emailSpacer, Web: webSpacer},
		core.TypeColumns:   {Email: emailColumns, Web: webColumns},
		core.TypeSocial:    {Email: emailSocial, Web: webSocial},
		core.TypeHTML:      {Email: emailHTML, Web: webHTML},
		core.TypeQuote:     {Email: emailQuote, Web: webQuote},
		core.TypeList:      {Email: emailList, Web: webList},
		core.TypeVideo:     {Email: emailVideo, Web: webVideo},
		core.TypeFooter:    {Email: emailFooter, Web: webFooter},
		core.TypeCountdown: {Email: emailCountdown, Web: webCountdown},
		core.TypeTable:     {Email: emailDataTable, Web: webDataTable},
		core.TypeSection:   {Email: emailSection, Web: webSection},
		core.TypeAccordion: {Email: emailAccordion, Web: webAccordion},
	}
}

// Lookup returns the built-in formatter of blockType for target.
func Lookup(blockType string, target Target) (Func, bool) {
	r, ok := rules[blockType]
	if !ok {
		return nil, false
	}
	if target == Email {
		return r.Email, r.Email != nil
	}
	return r.Web, r.Web != nil
}

// Known reports whether blockType has a built-in rule.
func Known(blockType string) bool {
	_, ok := rules[blockType]
	return ok
}

// Types returns the built-in block types sorted by name.
func Types() []string {
	out := make([]string, 0, len(rules))
	for t := range rules {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Render formats b with its built-in rule. Unknown types render as "".
// Missing props are filled from DefaultProps. A rule that panics is logged
// and the block renders as "".
func Render(b core.Block, c Context) (out string) {
	fn, ok := Lookup(b.Type, c.Target)
	if !ok {
		return ""
	}
	c.Type = b.Type
	c.BlockID = b.ID
	defer func() {
		if r := recover(); r != nil {
			ruleLog.Errorf("%s rule for %s block %s panicked: %v", c.Target, b.Type, b.ID, r)
			out = ""
		}
	}()
	return fn(withDefaults(b.Type, b.Props), &c)
}

func withDefaults(blockType string, p core.Props) core.Props {
	def, ok := defaults[blockType]
	if !ok {
		return p
	}
	return def.Merge(p)
}
