// Package preview serves rendered documents over HTTP and pushes fresh
// renders to connected browsers over a websocket.
package preview

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/config"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/log"
	"github.com/rubiojr/blockpress/pkg/realtime"
	"github.com/rubiojr/blockpress/pkg/registry"
	"github.com/rubiojr/blockpress/pkg/render"
	"github.com/rubiojr/blockpress/pkg/storage"
)

var logger = log.ForService("preview")

// Store is the subset of the document store the server needs.
type Store interface {
	Save(ctx context.Context, id, name, target string, doc *core.Document) (storage.Record, error)
	Load(ctx context.Context, id string) (*core.Document, storage.Record, error)
	List(ctx context.Context) ([]storage.Record, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	cfg      *config.Config
	store    Store
	hub      *realtime.Hub
	registry *registry.Registry
	upgrader websocket.Upgrader
}

func NewServer(cfg *config.Config, store Store, hub *realtime.Hub, reg *registry.Registry) *Server {
	if reg == nil {
		reg = registry.Default()
	}
	if hub == nil {
		hub = realtime.NewHub(0)
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		hub:      hub,
		registry: reg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// the preview is a local tool; any origin may connect
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Hub returns the hub events are broadcast on.
func (s *Server) Hub() *realtime.Hub {
	return s.hub
}

// Render renders doc for target using the configured canvas defaults and
// render options. Web output is a full page when standalone is set.
func (s *Server) Render(doc *core.Document, target blocks.Target, preview, standalone bool) string {
	layered := *doc
	layered.CanvasSettings = doc.CanvasSettings.WithDefaults(s.cfg.SettingsFor(target))
	opts := s.cfg.RenderOptions(preview)

	if target == blocks.Email {
		return render.Document(render.NewEmailAdapter(render.WithRegistry(s.registry)), &layered, opts)
	}
	web := render.NewWebAdapter(render.WithRegistry(s.registry))
	if standalone {
		return web.GenerateStandalonePage(&layered, opts)
	}
	return render.Document(web, &layered, opts)
}

// Publish renders doc in preview mode and broadcasts the result.
func (s *Server) Publish(id string, rec storage.Record, doc *core.Document) {
	target, err := blocks.ParseTarget(rec.Target)
	if err != nil {
		target = s.cfg.Target()
	}
	html := s.Render(doc, target, true, target == blocks.Web)
	s.hub.Broadcast(realtime.Rendered(id, string(target), rec.Version, html))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
