package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/storage"
)

type env struct {
	t          *testing.T
	dir        string
	configPath string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	dir := t.TempDir()
	storageDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(storageDir, 0755))
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`storage_dir = "`+storageDir+`"
default_target = "email"
timezone = "UTC"
video_placeholder = "https://cdn.example.com/play.png"
`), 0644))
	return &env{t: t, dir: dir, configPath: configPath}
}

// run executes the CLI and returns what it wrote to stdout.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	full := append([]string{"blockpress", "--config", e.configPath}, args...)
	err := app.Run(context.Background(), full)
	return out.String(), err
}

func (e *env) writeDoc(name string, doc *core.Document) string {
	e.t.Helper()
	data, err := doc.Encode()
	require.NoError(e.t, err)
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(path, data, 0644))
	return path
}

func sampleDoc() *core.Document {
	return core.NewDocument(
		core.Block{ID: "h1", Type: core.TypeHeading, Props: core.Props{"text": "Launch day"}},
		core.Block{ID: "v1", Type: core.TypeVideo, Props: core.Props{"videoUrl": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}},
		core.Block{ID: "c1", Type: core.TypeCountdown, Props: core.Props{"targetDate": "2030-01-01", "targetTime": "00:00"}},
	)
}

func TestRenderEmail(t *testing.T) {
	e := newEnv(t)
	path := e.writeDoc("launch.json", sampleDoc())

	out, err := e.run("render", "--now", "2025-01-01T00:00:00Z", "--stable-ids", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html"))
	assert.Contains(t, out, "Launch day")
	assert.NotContains(t, out, "<iframe", "email output never embeds players")

	again, err := e.run("render", "--now", "2025-01-01T00:00:00Z", "--stable-ids", path)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRenderWebStandaloneToFile(t *testing.T) {
	e := newEnv(t)
	path := e.writeDoc("launch.json", sampleDoc())
	outPath := filepath.Join(e.dir, "out", "launch.html")

	stdout, err := e.run("render", "--target", "web", "--standalone", "--out", outPath, path)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>")
	assert.Contains(t, string(data), "youtube")
}

func TestRenderRejectsBadTarget(t *testing.T) {
	e := newEnv(t)
	path := e.writeDoc("launch.json", sampleDoc())
	_, err := e.run("render", "--target", "fax", path)
	assert.Error(t, err)
}

func TestRenderYAML(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks:\n  - id: b1\n    type: button\n    props:\n      text: Buy now\n      link: https://example.com\nversion: 1\n"), 0644))

	out, err := e.run("render", "--target", "web", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Buy now")
	assert.Contains(t, out, `href="https://example.com"`)
}

func TestStaticUsesCustomTemplates(t *testing.T) {
	e := newEnv(t)
	path := e.writeDoc("launch.json", sampleDoc())
	tmplDir := filepath.Join(e.dir, "renderers")
	require.NoError(t, os.MkdirAll(tmplDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tmplDir, "heading.html"),
		[]byte(`<h1 class="brand">{{ prop .Props "text" "" | upper }}</h1>`), 0644))

	out, err := e.run("static", "--renderers-dir", tmplDir, path)
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 class="brand">LAUNCH DAY</h1>`)
}

func TestMarkers(t *testing.T) {
	e := newEnv(t)
	page := `<html><body><div data-block-type="spacer" data-block-props='{"height":"12px"}'></div><p>keep</p></body></html>`
	path := filepath.Join(e.dir, "page.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))

	out, err := e.run("markers", "--target", "web", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "data-block-type")
	assert.Contains(t, out, "<p>keep</p>")
	assert.Contains(t, out, "lb-spacer")

	bad := `<div data-block-type="spacer" data-block-props='{nope'></div>`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0644))
	out, err = e.run("markers", path)
	require.NoError(t, err)
	assert.Equal(t, bad, out)

	_, err = e.run("markers", "--strict", path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	e := newEnv(t)
	good := e.writeDoc("good.json", sampleDoc())
	out, err := e.run("validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 3 blocks")

	bad := e.writeDoc("bad.json", core.NewDocument(
		core.Block{ID: "x", Type: "hologram", Props: core.Props{}},
		core.Block{ID: "x", Type: core.TypeSpacer, Props: core.Props{}},
	))
	out, err = e.run("validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, `unknown block type "hologram"`)
	assert.Contains(t, out, "duplicate block id")
}

func TestBlocksListing(t *testing.T) {
	e := newEnv(t)
	out, err := e.run("blocks")
	require.NoError(t, err)
	assert.Contains(t, out, "17 block types")
	assert.Contains(t, out, "Countdown")

	out, err = e.run("blocks", "--json")
	require.NoError(t, err)
	var defs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	assert.Len(t, defs, 17)

	out, err = e.run("blocks", "button")
	require.NoError(t, err)
	assert.Contains(t, out, `"text": "Click here"`)

	_, err = e.run("blocks", "hologram")
	assert.Error(t, err)
}

func TestStoreLifecycle(t *testing.T) {
	e := newEnv(t)
	path := e.writeDoc("launch.json", sampleDoc())

	out, err := e.run("store", "save", "--target", "web", path)
	require.NoError(t, err)
	assert.Contains(t, out, "saved launch v1")

	out, err = e.run("store", "save", path)
	require.NoError(t, err)
	assert.Contains(t, out, "saved launch v2")

	out, err = e.run("store", "list", "--json")
	require.NoError(t, err)
	var recs []storage.Record
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "launch.json", recs[0].Name)

	out, err = e.run("store", "show", "launch")
	require.NoError(t, err)
	doc, err := core.DecodeDocument([]byte(out))
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 3)

	out, err = e.run("store", "show", "--render", "--target", "web", "launch")
	require.NoError(t, err)
	assert.Contains(t, out, "Launch day")

	out, err = e.run("store", "delete", "launch")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted launch")

	_, err = e.run("store", "show", "launch")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMigrateStatus(t *testing.T) {
	e := newEnv(t)
	out, err := e.run("migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending migrations: 2")

	out, err = e.run("migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	out, err = e.run("migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "database is up to date")
}

func TestInitWritesConfig(t *testing.T) {
	e := newEnv(t)
	t.Setenv("XDG_DATA_HOME", filepath.Join(e.dir, "xdg"))
	target := filepath.Join(e.dir, "fresh", "config.toml")

	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	require.NoError(t, app.Run(context.Background(), []string{"blockpress", "--config", target, "init"}))
	assert.Contains(t, out.String(), "Configuration initialized")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_target")

	err = NewApp().Run(context.Background(), []string{"blockpress", "--config", target, "init"})
	assert.Error(t, err, "existing config is kept without --force")
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "blockpress version "))
}
