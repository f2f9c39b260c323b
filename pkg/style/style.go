// Package style composes the inline CSS applied around a block from its
// layoutStyles property.
//
// Only declarations for values actually present in the input are emitted,
// nothing is defaulted. Composition is a pure function of its input so
// repeated calls produce byte-identical output.
package style

import (
	"strings"

	"github.com/rubiojr/blockpress/pkg/core"
)

// Sides holds per-side values for padding, margin and border widths.
type Sides struct {
	Top    string
	Right  string
	Bottom string
	Left   string
}

func (s *Sides) empty() bool {
	return s == nil || (s.Top == "" && s.Right == "" && s.Bottom == "" && s.Left == "")
}

// Corners holds per-corner border radii.
type Corners struct {
	TopLeft     string
	TopRight    string
	BottomRight string
	BottomLeft  string
}

type Background struct {
	Color    string
	Image    string
	Size     string
	Position string
	Repeat   string
}

type Border struct {
	Width  *Sides
	Style  string
	Color  string
	Radius *Corners
}

type BoxShadow struct {
	X      string
	Y      string
	Blur   string
	Spread string
	Color  string
	Inset  bool
}

type Typography struct {
	FontFamily    string
	FontSize      string
	FontWeight    string
	LineHeight    string
	LetterSpacing string
	TextTransform string
	Color         string
	TextAlign     string
}

// LayoutStyles is the typed form of a block's layoutStyles property.
type LayoutStyles struct {
	Padding    *Sides
	Margin     *Sides
	Background *Background
	Border     *Border
	BoxShadow  *BoxShadow
	Typography *Typography
}

// IsZero reports whether InlineCSS would produce no declarations.
func (ls LayoutStyles) IsZero() bool {
	return InlineCSS(ls) == ""
}

// InlineCSS renders ls as "; " separated declarations in a fixed order:
// padding, margin, background, border, box-shadow, typography.
func InlineCSS(ls LayoutStyles) string {
	var d Declarations

	if p := ls.Padding; !p.empty() {
		d.Add("padding-top", p.Top)
		d.Add("padding-right", p.Right)
		d.Add("padding-bottom", p.Bottom)
		d.Add("padding-left", p.Left)
	}

	if m := ls.Margin; !m.empty() {
		if m.Left == "auto" && m.Right == "auto" {
			d.Add("margin", or(m.Top, "0")+" auto "+or(m.Bottom, "0")+" auto")
		} else {
			d.Add("margin-top", m.Top)
			d.Add("margin-right", m.Right)
			d.Add("margin-bottom", m.Bottom)
			d.Add("margin-left", m.Left)
		}
	}

	if bg := ls.Background; bg != nil {
		d.Add("background-color", bg.Color)
		if bg.Image != "" {
			img := bg.Image
			if !strings.HasPrefix(img, "url(") && !strings.Contains(img, "gradient(") {
				img = "url('" + img + "')"
			}
			d.Add("background-image", img)
		}
		d.Add("background-size", bg.Size)
		d.Add("background-position", bg.Position)
		d.Add("background-repeat", bg.Repeat)
	}

	if b := ls.Border; b != nil {
		if w := b.Width; !w.empty() {
			d.Add("border-top-width", w.Top)
			d.Add("border-right-width", w.Right)
			d.Add("border-bottom-width", w.Bottom)
			d.Add("border-left-width", w.Left)
		}
		d.Add("border-style", b.Style)
		d.Add("border-color", b.Color)
		if r := b.Radius; r != nil {
			d.Add("border-top-left-radius", r.TopLeft)
			d.Add("border-top-right-radius", r.TopRight)
			d.Add("border-bottom-right-radius", r.BottomRight)
			d.Add("border-bottom-left-radius", r.BottomLeft)
		}
	}

	if s := ls.BoxShadow; s != nil && (s.X != "" || s.Y != "" || s.Blur != "" || s.Spread != "" || s.Color != "") {
		parts := []string{or(s.X, "0"), or(s.Y, "0"), or(s.Blur, "0"), or(s.Spread, "0")}
		if s.Color != "" {
			parts = append(parts, s.Color)
		}
		if s.Inset {
			parts = append([]string{"inset"}, parts...)
		}
		d.Add("box-shadow", strings.Join(parts, " "))
	}

	if t := ls.Typography; t != nil {
		d.Add("font-family", t.FontFamily)
		d.Add("font-size", t.FontSize)
		d.Add("font-weight", t.FontWeight)
		d.Add("line-height", t.LineHeight)
		d.Add("letter-spacing", t.LetterSpacing)
		d.Add("text-transform", t.TextTransform)
		d.Add("color", t.Color)
		d.Add("text-align", t.TextAlign)
	}

	return d.String()
}

// FromProps converts a loosely typed layoutStyles value (as decoded from
// JSON) into LayoutStyles. Unknown shapes yield the zero value.
func FromProps(v any) LayoutStyles {
	switch ls := v.(type) {
	case LayoutStyles:
		return ls
	case *LayoutStyles:
		if ls != nil {
			return *ls
		}
		return LayoutStyles{}
	}

	m := asMap(v)
	if m == nil {
		return LayoutStyles{}
	}

	var ls LayoutStyles
	ls.Padding = sidesFrom(m["padding"])
	ls.Margin = sidesFrom(m["margin"])

	if bg := asMap(m["background"]); bg != nil {
		ls.Background = &Background{
			Color:    plain(bg["color"]),
			Image:    plain(bg["image"]),
			Size:     plain(bg["size"]),
			Position: plain(bg["position"]),
			Repeat:   plain(bg["repeat"]),
		}
	}

	if b := asMap(m["border"]); b != nil {
		ls.Border = &Border{
			Width: sidesFrom(b["width"]),
			Style: plain(b["style"]),
			Color: plain(b["color"]),
		}
		if r := asMap(b["radius"]); r != nil {
			ls.Border.Radius = &Corners{
				TopLeft:     length(r["topLeft"]),
				TopRight:    length(r["topRight"]),
				BottomRight: length(r["bottomRight"]),
				BottomLeft:  length(r["bottomLeft"]),
			}
		} else if r := length(b["radius"]); r != "" {
			ls.Border.Radius = &Corners{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
		}
	}

	if s := asMap(m["boxShadow"]); s != nil {
		inset, _ := s["inset"].(bool)
		ls.BoxShadow = &BoxShadow{
			X:      length(s["x"]),
			Y:      length(s["y"]),
			Blur:   length(s["blur"]),
			Spread: length(s["spread"]),
			Color:  plain(s["color"]),
			Inset:  inset,
		}
	}

	if t := asMap(m["typography"]); t != nil {
		ls.Typography = &Typography{
			FontFamily:    plain(t["fontFamily"]),
			FontSize:      length(t["fontSize"]),
			FontWeight:    plain(t["fontWeight"]),
			LineHeight:    plain(t["lineHeight"]),
			LetterSpacing: length(t["letterSpacing"]),
			TextTransform: plain(t["textTransform"]),
			Color:         plain(t["color"]),
			TextAlign:     plain(t["textAlign"]),
		}
	}

	return ls
}

// Compose is a shortcut for InlineCSS(FromProps(v)).
func Compose(v any) string {
	return InlineCSS(FromProps(v))
}

func sidesFrom(v any) *Sides {
	m := asMap(v)
	if m == nil {
		if all := length(v); all != "" {
			return &Sides{Top: all, Right: all, Bottom: all, Left: all}
		}
		return nil
	}
	return &Sides{
		Top:    length(m["top"]),
		Right:  length(m["right"]),
		Bottom: length(m["bottom"]),
		Left:   length(m["left"]),
	}
}

func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case core.Props:
		return m
	}
	return nil
}

// length formats a value that takes a CSS unit.
func length(v any) string {
	return core.SizeValue(v, "")
}

// plain formats a value that is used without a unit.
func plain(v any) string {
	return strings.TrimSpace(core.Props{"v": v}.String("v", ""))
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
