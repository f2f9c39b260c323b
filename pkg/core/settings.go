package core

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Length is a CSS length. It decodes from JSON strings or numbers; numbers
// get a px unit.
type Length string

func (l *Length) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Length(SizeValue(s, ""))
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		if string(data) == "null" {
			*l = ""
			return nil
		}
		return err
	}
	*l = Length(SizeValue(n, ""))
	return nil
}

func (l *Length) UnmarshalText(text []byte) error {
	*l = Length(SizeValue(string(text), ""))
	return nil
}

func (l Length) MarshalText() ([]byte, error) {
	return []byte(l), nil
}

func (l Length) String() string {
	return string(l)
}

// Pixels returns the numeric value of a px length, or def when l is not
// expressed in pixels.
func (l Length) Pixels(def int) int {
	s := strings.TrimSuffix(strings.TrimSpace(string(l)), "px")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return def
	}
	return int(n)
}

// CanvasSettings holds the document level presentation settings.
type CanvasSettings struct {
	Width                  Length `json:"width,omitempty" toml:"width,omitempty"`
	BackgroundColor        string `json:"backgroundColor,omitempty" toml:"background_color,omitempty"`
	BackgroundImage        string `json:"backgroundImage,omitempty" toml:"background_image,omitempty"`
	BackgroundRepeat       string `json:"backgroundRepeat,omitempty" toml:"background_repeat,omitempty"`
	BackgroundPosition     string `json:"backgroundPosition,omitempty" toml:"background_position,omitempty"`
	BackgroundSize         string `json:"backgroundSize,omitempty" toml:"background_size,omitempty"`
	ContentBackgroundColor string `json:"contentBackgroundColor,omitempty" toml:"content_background_color,omitempty"`
	ContentPadding         Length `json:"contentPadding,omitempty" toml:"content_padding,omitempty"`
	ContentMargin          Length `json:"contentMargin,omitempty" toml:"content_margin,omitempty"`
	BorderWidth            Length `json:"borderWidth,omitempty" toml:"border_width,omitempty"`
	BorderStyle            string `json:"borderStyle,omitempty" toml:"border_style,omitempty"`
	BorderColor            string `json:"borderColor,omitempty" toml:"border_color,omitempty"`
	BorderRadius           Length `json:"borderRadius,omitempty" toml:"border_radius,omitempty"`
	FontFamily             string `json:"fontFamily,omitempty" toml:"font_family,omitempty"`
	TextColor              string `json:"textColor,omitempty" toml:"text_color,omitempty"`
	Title                  string `json:"title,omitempty" toml:"title,omitempty"`
	Preheader              string `json:"preheader,omitempty" toml:"preheader,omitempty"`
	CustomCSS              string `json:"customCss,omitempty" toml:"custom_css,omitempty"`
}

// WithDefaults returns a copy of s where every empty field is taken from d.
func (s CanvasSettings) WithDefaults(d CanvasSettings) CanvasSettings {
	pickLen := func(v, def Length) Length {
		if strings.TrimSpace(string(v)) == "" {
			return def
		}
		return v
	}
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}

	return CanvasSettings{
		Width:                  pickLen(s.Width, d.Width),
		BackgroundColor:        pick(s.BackgroundColor, d.BackgroundColor),
		BackgroundImage:        pick(s.BackgroundImage, d.BackgroundImage),
		BackgroundRepeat:       pick(s.BackgroundRepeat, d.BackgroundRepeat),
		BackgroundPosition:     pick(s.BackgroundPosition, d.BackgroundPosition),
		BackgroundSize:         pick(s.BackgroundSize, d.BackgroundSize),
		ContentBackgroundColor: pick(s.ContentBackgroundColor, d.ContentBackgroundColor),
		ContentPadding:         pickLen(s.ContentPadding, d.ContentPadding),
		ContentMargin:          pickLen(s.ContentMargin, d.ContentMargin),
		BorderWidth:            pickLen(s.BorderWidth, d.BorderWidth),
		BorderStyle:            pick(s.BorderStyle, d.BorderStyle),
		BorderColor:            pick(s.BorderColor, d.BorderColor),
		BorderRadius:           pickLen(s.BorderRadius, d.BorderRadius),
		FontFamily:             pick(s.FontFamily, d.FontFamily),
		TextColor:              pick(s.TextColor, d.TextColor),
		Title:                  pick(s.Title, d.Title),
		Preheader:              pick(s.Preheader, d.Preheader),
		CustomCSS:              pick(s.CustomCSS, d.CustomCSS),
	}
}

// EmailDefaults are the canvas settings used for email output.
func EmailDefaults() CanvasSettings {
	return CanvasSettings{
		Width:                  "700px",
		BackgroundColor:        "#f4f4f5",
		ContentBackgroundColor: "#ffffff",
		ContentPadding:         "32px",
		ContentMargin:          "40px",
		BorderStyle:            "solid",
		BorderRadius:           "8px",
		FontFamily:             "Arial, Helvetica, sans-serif",
		TextColor:              "#333333",
	}
}

// WebDefaults are the canvas settings used for web pages.
func WebDefaults() CanvasSettings {
	return CanvasSettings{
		Width:                  "1200px",
		BackgroundColor:        "#ffffff",
		ContentBackgroundColor: "#ffffff",
		ContentPadding:         "20px",
		ContentMargin:          "0 auto",
		BorderStyle:            "solid",
		FontFamily:             "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif",
		TextColor:              "#1f2937",
	}
}
