package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/blockpress/pkg/config"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/realtime"
	"github.com/rubiojr/blockpress/pkg/registry"
	"github.com/rubiojr/blockpress/pkg/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store, *httptest.Server) {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	store, err := storage.Open(filepath.Join(t.TempDir(), "blockpress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{DefaultTarget: "email", Timezone: "UTC"}
	srv := NewServer(cfg, store, realtime.NewHub(16), registry.Default())
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return srv, store, ts
}

func sampleDoc() *core.Document {
	return core.NewDocument(
		core.Block{ID: "h1", Type: core.TypeHeading, Props: core.Props{"text": "Summer sale"}},
		core.Block{ID: "t1", Type: core.TypeText, Props: core.Props{"content": "<p>Everything must go</p>"}},
	)
}

func putDocument(t *testing.T, ts *httptest.Server, id string, req SaveDocumentRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	httpReq, err := http.NewRequest(http.MethodPut, ts.URL+"/api/documents/"+id, bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)
}

func TestListBlocks(t *testing.T) {
	_, _, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/blocks")
	require.NoError(t, err)
	defer resp.Body.Close()

	list := decode[ListBlocksResponse](t, resp)
	assert.Equal(t, len(registry.Default().GetAll()), list.Count)
	require.NotEmpty(t, list.Categories)
	assert.Equal(t, "basic", list.Categories[0].Name)
}

func TestSaveAndGetDocument(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp := putDocument(t, ts, "summer", SaveDocumentRequest{Name: "Summer", Target: "web", Document: sampleDoc()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[storage.Record](t, resp)
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "web", rec.Target)

	get, err := http.Get(ts.URL + "/api/documents/summer")
	require.NoError(t, err)
	defer get.Body.Close()
	got := decode[DocumentResponse](t, get)
	assert.Equal(t, "Summer", got.Record.Name)
	require.Len(t, got.Document.Blocks, 2)

	list, err := http.Get(ts.URL + "/api/documents")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Equal(t, 1, decode[ListDocumentsResponse](t, list).Count)
}

func TestSaveRejectsInvalidDocuments(t *testing.T) {
	_, _, ts := newTestServer(t)

	dup := core.NewDocument(
		core.Block{ID: "x", Type: core.TypeSpacer, Props: core.Props{}},
		core.Block{ID: "x", Type: core.TypeSpacer, Props: core.Props{}},
	)
	resp := putDocument(t, ts, "bad", SaveDocumentRequest{Document: dup})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = putDocument(t, ts, "bad", SaveDocumentRequest{Target: "fax", Document: sampleDoc()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = putDocument(t, ts, "bad", SaveDocumentRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissingDocument(t *testing.T) {
	_, _, ts := newTestServer(t)
	for _, path := range []string{"/api/documents/nope", "/preview/nope"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestDeleteDocument(t *testing.T) {
	_, store, ts := newTestServer(t)
	_, err := store.Save(context.Background(), "gone", "gone", "email", sampleDoc())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/documents/gone", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, _, err = store.Load(context.Background(), "gone")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRenderEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)
	body, err := json.Marshal(sampleDoc())
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/render?target=email", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out := decode[RenderResponse](t, resp)
	assert.Equal(t, "email", out.Target)
	assert.Contains(t, out.HTML, "<!DOCTYPE html")
	assert.Contains(t, out.HTML, "Summer sale")

	resp2, err := http.Post(ts.URL+"/api/render?target=web&standalone=1", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp2.Body.Close()
	page := decode[RenderResponse](t, resp2)
	assert.Equal(t, "web", page.Target)
	assert.Contains(t, page.HTML, "<title>")
	assert.Contains(t, page.HTML, "Everything must go")

	bad, err := http.Post(ts.URL+"/api/render?target=sms", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestPreviewPage(t *testing.T) {
	_, store, ts := newTestServer(t)
	_, err := store.Save(context.Background(), "summer", "Summer <sale>", "email", sampleDoc())
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/preview/summer")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(data)

	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, page, "Summer &lt;sale&gt; · preview")
	assert.Contains(t, page, `<iframe id="bp-frame"`)
	assert.Contains(t, page, "Summer sale")
	assert.Contains(t, page, `var doc="summer"`)
	assert.NotContains(t, page, "<h1", "document markup is escaped into srcdoc")

	raw, err := http.Get(ts.URL + "/preview/summer?raw=1")
	require.NoError(t, err)
	defer raw.Body.Close()
	rawData, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(rawData), "<!DOCTYPE html"))
	assert.NotContains(t, string(rawData), "bp-frame")
}

func wsDial(t *testing.T, ts *httptest.Server, rawQuery string) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(ts.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = rawQuery

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var init realtime.DocumentEvent
	require.NoError(t, conn.ReadJSON(&init))
	require.Equal(t, realtime.KindInit, init.Kind)
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, kind string) realtime.DocumentEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var ev realtime.DocumentEvent
		require.NoError(t, conn.ReadJSON(&ev))
		if ev.Kind == kind {
			return ev
		}
	}
}

func TestWebSocketPushesRenders(t *testing.T) {
	srv, _, ts := newTestServer(t)
	conn := wsDial(t, ts, "doc=summer")
	require.Eventually(t, func() bool { return srv.Hub().Size() == 1 }, time.Second, 10*time.Millisecond)

	// events for other documents are filtered out
	resp := putDocument(t, ts, "other", SaveDocumentRequest{Document: sampleDoc()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = putDocument(t, ts, "summer", SaveDocumentRequest{Document: sampleDoc()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	saved := readUntil(t, conn, realtime.KindSaved)
	assert.Equal(t, "summer", saved.DocumentID)

	ev := readUntil(t, conn, realtime.KindRendered)
	assert.Equal(t, "summer", ev.DocumentID)
	assert.Equal(t, "email", ev.Target)
	assert.Equal(t, 1, ev.Version)
	assert.Contains(t, ev.HTML, "Summer sale")
}

func TestWatchSyncsDirectory(t *testing.T) {
	srv, store, _ := newTestServer(t)
	dir := t.TempDir()
	ctx := context.Background()

	first, err := sampleDoc().Encode()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.json"), first, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- srv.Watch(watchCtx, dir) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		_, rec, err := store.Load(ctx, "welcome")
		return err == nil && rec.Version == 1
	}, 3*time.Second, 20*time.Millisecond)

	yamlDoc := "blocks:\n  - id: s1\n    type: spacer\n    props: {}\nversion: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promo.yaml"), []byte(yamlDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "welcome.json"), []byte(`{"blocks":[],"version":1}`), 0644))

	require.Eventually(t, func() bool {
		doc, rec, err := store.Load(ctx, "welcome")
		return err == nil && rec.Version >= 2 && len(doc.Blocks) == 0
	}, 3*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		doc, _, err := store.Load(ctx, "promo")
		return err == nil && len(doc.Blocks) == 1 && doc.Blocks[0].Type == core.TypeSpacer
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "welcome.json")))
	require.NoError(t, os.Remove(filepath.Join(dir, "promo.yaml")))
	require.Eventually(t, func() bool {
		recs, err := store.List(ctx)
		return err == nil && len(recs) == 0
	}, 3*time.Second, 20*time.Millisecond)

	_, _, err = store.Load(ctx, "welcome")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentFileHelpers(t *testing.T) {
	assert.True(t, IsDocumentFile("a/b/welcome.JSON"))
	assert.True(t, IsDocumentFile("promo.yml"))
	assert.False(t, IsDocumentFile("readme.md"))
	assert.Equal(t, "welcome", DocumentID("/tmp/docs/welcome.yaml"))
}
