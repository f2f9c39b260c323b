package style

import (
	"bytes"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// SanitizeStylesheet makes author supplied CSS safe to embed in a <style>
// element. @import rules are dropped, legacy expression() calls and
// javascript: URLs are neutralised, and "<" can no longer close the element.
func SanitizeStylesheet(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	l := css.NewLexer(parse.NewInputString(src))
	var out bytes.Buffer
	skipping := false
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}

		if skipping {
			if tt == css.SemicolonToken {
				skipping = false
			}
			continue
		}

		switch tt {
		case css.AtKeywordToken:
			if bytes.EqualFold(data, []byte("@import")) {
				skipping = true
				continue
			}
		case css.FunctionToken:
			if bytes.EqualFold(data, []byte("expression(")) {
				out.WriteString("invalid(")
				continue
			}
		case css.URLToken, css.BadURLToken:
			if bytes.Contains(bytes.ToLower(data), []byte("javascript:")) {
				out.WriteString("url()")
				continue
			}
		case css.CDOToken, css.CDCToken:
			continue
		}

		for _, c := range data {
			if c == '<' {
				out.WriteString(`\3c `)
				continue
			}
			out.WriteByte(c)
		}
	}
	return strings.TrimSpace(out.String())
}
