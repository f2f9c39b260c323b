package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RenderOptions carries everything a renderer needs beyond the block tree.
// The zero value is usable: it renders against the wall clock in UTC, with
// random element ids and no video placeholder.
type RenderOptions struct {
	// Settings are the resolved canvas settings of the document.
	Settings CanvasSettings
	// PreviewMode enables interactive output meant for the editor canvas.
	PreviewMode bool
	// Now overrides the render clock.
	Now time.Time
	// Location is used to interpret dates without an explicit zone.
	Location *time.Location
	// NewID generates ids for scripted widgets.
	NewID func(prefix string) string
	// Placeholder returns a thumbnail image for a video without one.
	Placeholder func(videoURL string) string
}

// Clock returns the render time.
func (o RenderOptions) Clock() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// Zone returns the location used for zone-less dates.
func (o RenderOptions) Zone() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// ElementID returns a unique DOM id such as "countdown-1700000000000-1a2b3c4d".
func (o RenderOptions) ElementID(prefix string) string {
	if o.NewID != nil {
		return o.NewID(prefix)
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, o.Clock().UnixMilli(), suffix)
}

// PlaceholderFor returns the placeholder thumbnail for videoURL, or "".
func (o RenderOptions) PlaceholderFor(videoURL string) string {
	if o.Placeholder == nil {
		return ""
	}
	return o.Placeholder(videoURL)
}

// StaticPlaceholder returns a Placeholder func that always yields url. An
// empty url disables placeholders.
func StaticPlaceholder(url string) func(string) string {
	if url == "" {
		return nil
	}
	return func(string) string { return url }
}

// SequentialIDs returns a NewID func producing "prefix-1", "prefix-2", ...
// It is meant for reproducible output. The returned func is not safe for
// concurrent use.
func SequentialIDs() func(prefix string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
