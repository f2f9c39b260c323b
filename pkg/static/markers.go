package static

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/net/html"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
)

// Marker attributes. Props hold HTML-escaped JSON.
const (
	AttrBlockType  = "data-block-type"
	AttrBlockProps = "data-block-props"
	AttrBlockID    = "data-block-id"
)

var markerLog = log.ForService("markers")

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Marker is an element standing in for a dynamic block.
type Marker struct {
	// Start and End delimit the whole element, end tag included.
	Start, End int
	Type       string
	Props      string
	ID         string
}

// FindMarkers returns the outermost markers of src in document order.
// Markers nested inside another marker are part of the outer one. A marker
// whose end tag is missing is reported in the error and skipped.
func FindMarkers(src string) ([]Marker, error) {
	return scanMarkers(src, 0)
}

func scanMarkers(src string, base int) ([]Marker, error) {
	var (
		found   []Marker
		open    *Marker
		openTag string
		openEnd int
		depth   int
	)

	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if open != nil {
				if tt == html.StartTagToken && tag == openTag {
					depth++
				}
				continue
			}
			if !hasAttr {
				continue
			}
			m, ok := markerAttrs(z)
			if !ok {
				continue
			}
			m.Start = base + start
			if tt == html.SelfClosingTagToken || voidElements[tag] {
				m.End = base + offset
				found = append(found, m)
				continue
			}
			open, openTag, openEnd, depth = &m, tag, offset, 1

		case html.EndTagToken:
			if open == nil {
				continue
			}
			name, _ := z.TagName()
			if string(name) != openTag {
				continue
			}
			depth--
			if depth == 0 {
				open.End = base + offset
				found = append(found, *open)
				open = nil
			}
		}
	}

	if open == nil {
		return found, nil
	}
	err := fmt.Errorf("unbalanced %s marker <%s> at offset %d", open.Type, openTag, open.Start)
	rest, restErr := scanMarkers(src[openEnd:], base+openEnd)
	return append(found, rest...), multierr.Append(err, restErr)
}

func markerAttrs(z *html.Tokenizer) (Marker, bool) {
	var m Marker
	hasProps := false
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case AttrBlockType:
			m.Type = strings.TrimSpace(string(val))
		case AttrBlockProps:
			m.Props = string(val)
			hasProps = true
		case AttrBlockID:
			m.ID = string(val)
		}
		if !more {
			break
		}
	}
	return m, m.Type != "" && hasProps
}

type replacement struct {
	start, end int
	html       string
}

// ReplaceMarkers swaps every marker element in src for its rendered block.
// Markers with malformed props, unknown types or missing end tags are left
// untouched; the returned error aggregates what went wrong and the output
// is usable either way.
func (r *Renderer) ReplaceMarkers(src string, target blocks.Target, opts core.RenderOptions) (string, error) {
	markers, errs := FindMarkers(src)
	for _, err := range multierr.Errors(errs) {
		markerLog.Warnf("%v", err)
	}
	ctx := Context{Target: target, Options: opts}

	var reps []replacement
	for _, m := range markers {
		props := core.Props{}
		if strings.TrimSpace(m.Props) != "" {
			if err := json.Unmarshal([]byte(m.Props), &props); err != nil {
				markerLog.Warnf("skipping %s marker at offset %d: %v", m.Type, m.Start, err)
				errs = multierr.Append(errs, fmt.Errorf("%s marker at offset %d: decoding props: %w", m.Type, m.Start, err))
				continue
			}
		}
		id := m.ID
		if id == "" {
			id = opts.ElementID("block")
		}
		out := r.RenderBlock(m.Type, props, ctx, id)
		if out == "" {
			markerLog.Debugf("%s marker at offset %d rendered nothing, left in place", m.Type, m.Start)
			continue
		}
		reps = append(reps, replacement{start: m.Start, end: m.End, html: out})
	}

	return applyReplacements(src, reps), errs
}

// applyReplacements splices reps into src from the last offset to the
// first so earlier offsets stay valid.
func applyReplacements(src string, reps []replacement) string {
	sort.Slice(reps, func(i, j int) bool { return reps[i].start > reps[j].start })
	for _, rep := range reps {
		src = src[:rep.start] + rep.html + src[rep.end:]
	}
	return src
}
