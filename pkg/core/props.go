package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Props is the open property bag carried by every block. Values come from
// decoded JSON or YAML, so numbers usually arrive as float64 and nested
// structures as []any / map[string]any. The accessors below never panic and
// always fall back to the supplied default when a key is missing or holds
// an unusable value.
type Props map[string]any

// Has reports whether key is present with a non-nil value.
func (p Props) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value for key as a string. Numbers and booleans are
// formatted, empty strings fall back to def.
func (p Props) String(key, def string) string {
	switch v := p[key].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return def
}

// Size returns a CSS length. Bare numbers get a px unit, strings are used
// as-is.
func (p Props) Size(key, def string) string {
	return SizeValue(p[key], def)
}

// SizeValue converts a loosely typed value into a CSS length.
func SizeValue(v any, def string) string {
	switch n := v.(type) {
	case string:
		n = strings.TrimSpace(n)
		if n == "" {
			return def
		}
		if _, err := strconv.ParseFloat(n, 64); err == nil && n != "0" {
			return n + "px"
		}
		return n
	case float64, float32, int, int64, json.Number:
		s := fmt.Sprint(n)
		if s == "0" {
			return "0"
		}
		return s + "px"
	}
	return def
}

// Int returns the value for key as an int, accepting numeric strings.
func (p Props) Int(key string, def int) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// Float returns the value for key as a float64.
func (p Props) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if n, err := v.Float64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return n
		}
	}
	return def
}

// Bool returns the value for key as a bool. "true", "1", "yes" and "on" are
// truthy strings; non-zero numbers are true.
func (p Props) Bool(key string, def bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return def
}

// Map returns a nested object for key, or nil.
func (p Props) Map(key string) map[string]any {
	switch v := p[key].(type) {
	case map[string]any:
		return v
	case Props:
		return v
	}
	return nil
}

// List returns a nested array for key, or nil.
func (p Props) List(key string) []any {
	switch v := p[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out
	}
	return nil
}

// Strings returns the array for key as strings. Object entries contribute
// their "text" (or "content") field; other values are skipped.
func (p Props) Strings(key string) []string {
	var out []string
	for _, item := range p.List(key) {
		switch v := item.(type) {
		case string:
			out = append(out, v)
		case map[string]any:
			if s := Props(v).String("text", Props(v).String("content", "")); s != "" {
				out = append(out, s)
			}
		case float64, int, bool:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// Merge returns a new Props holding p overlaid with over. Nil values and
// blank strings in over do not replace existing entries.
func (p Props) Merge(over Props) Props {
	out := make(Props, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			if _, exists := out[k]; exists {
				continue
			}
		}
		out[k] = v
	}
	return out
}
