package preview

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes returns the preview HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(CorsMiddleware)

	r.Get("/health", s.HandleHealth)
	// long lived, so outside the timeout group
	r.Get("/ws", s.HandleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/blocks", s.HandleListBlocks)
		r.Get("/api/documents", s.HandleListDocuments)
		r.Get("/api/documents/{id}", s.HandleGetDocument)
		r.Put("/api/documents/{id}", s.HandleSaveDocument)
		r.Delete("/api/documents/{id}", s.HandleDeleteDocument)
		r.Post("/api/render", s.HandleRender)
		r.Get("/preview/{id}", s.HandlePreview)
	})

	return r
}
