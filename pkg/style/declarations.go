package style

import "strings"

// Declarations accumulates CSS declarations in insertion order, skipping
// empty values.
type Declarations []string

// Add appends "prop: value" when value is not empty.
func (d *Declarations) Add(prop, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	*d = append(*d, prop+": "+value)
}

func (d Declarations) String() string {
	return strings.Join(d, "; ")
}
