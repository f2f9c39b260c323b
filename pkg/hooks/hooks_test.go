package hooks

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rubiojr/blockpress/pkg/log"
)

func TestApplyFiltersInOrder(t *testing.T) {
	f := New()
	name := Name(EmailBlockHTML, "heading")
	if name != "email.block_html.heading" {
		t.Fatalf("unexpected chain name %q", name)
	}

	f.AddFilter(name, func(v string, _ ...any) string { return v + "-a" })
	f.AddFilter(name, func(v string, args ...any) string {
		return v + "-b" + args[0].(string)
	})

	if got := f.ApplyFilters(name, "x", "!"); got != "x-a-b!" {
		t.Errorf("expected x-a-b!, got %q", got)
	}
	if got := f.ApplyFilters(Name(PageBlockHTML, "heading"), "x"); got != "x" {
		t.Errorf("unrelated chain should not run, got %q", got)
	}
	if !f.HasFilters(name) {
		t.Error("expected filters to be registered")
	}

	f.RemoveAll(name)
	if f.HasFilters(name) {
		t.Error("expected chain to be removed")
	}
}

func TestPanickingFilterIsSkipped(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	f := New()
	f.AddFilter("x", func(string, ...any) string { panic("boom") })
	f.AddFilter("x", func(v string, _ ...any) string { return strings.ToUpper(v) })

	if got := f.ApplyFilters("x", "value"); got != "VALUE" {
		t.Errorf("expected VALUE, got %q", got)
	}
}

func TestNilFilters(t *testing.T) {
	var f *Filters
	if got := f.ApplyFilters("x", "same"); got != "same" {
		t.Errorf("nil filters should be a no-op, got %q", got)
	}
	if f.HasFilters("x") {
		t.Error("nil filters have no chains")
	}
	if Default() != Default() {
		t.Error("Default should return a singleton")
	}
}
