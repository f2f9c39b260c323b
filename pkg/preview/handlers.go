package preview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rubiojr/blockpress/pkg/blocks"
	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/realtime"
	"github.com/rubiojr/blockpress/pkg/storage"
	"github.com/rubiojr/blockpress/pkg/version"
)

// maxBodySize bounds document uploads.
const maxBodySize = 8 << 20

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Listeners: s.hub.Size(),
	}

	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) HandleListBlocks(w http.ResponseWriter, r *http.Request) {
	defs := s.registry.GetAll()
	s.writeJSON(w, http.StatusOK, ListBlocksResponse{
		Blocks:     defs,
		Categories: s.registry.GetCategories(),
		Count:      len(defs),
	})
}

func (s *Server) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list documents", err.Error())
		return
	}
	if recs == nil {
		recs = []storage.Record{}
	}
	s.writeJSON(w, http.StatusOK, ListDocumentsResponse{Documents: recs, Count: len(recs)})
}

func (s *Server) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, rec, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, id, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DocumentResponse{Record: rec, Document: doc})
}

func (s *Server) HandleSaveDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Document == nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", "document is required")
		return
	}
	if err := req.Document.Validate(); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "Invalid document", err.Error())
		return
	}

	target := s.cfg.Target()
	if req.Target != "" {
		t, err := blocks.ParseTarget(req.Target)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "Invalid target", err.Error())
			return
		}
		target = t
	}
	name := req.Name
	if name == "" {
		name = id
	}

	rec, err := s.store.Save(r.Context(), id, name, string(target), req.Document)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to save document", err.Error())
		return
	}
	logger.Infof("saved %s v%d", rec.ID, rec.Version)

	s.hub.Broadcast(realtime.DocumentEvent{Kind: realtime.KindSaved, DocumentID: rec.ID, Target: rec.Target, Version: rec.Version})
	s.Publish(rec.ID, rec, req.Document)

	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, id, err)
		return
	}
	s.hub.Broadcast(realtime.DocumentEvent{Kind: realtime.KindDeleted, DocumentID: id})
	w.WriteHeader(http.StatusNoContent)
}

// HandleRender renders a posted document without storing it.
func (s *Server) HandleRender(w http.ResponseWriter, r *http.Request) {
	target, err := s.targetParam(r, "")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid target", err.Error())
		return
	}

	var doc core.Document
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid document", err.Error())
		return
	}

	html := s.Render(&doc, target, boolParam(r, "preview"), boolParam(r, "standalone"))
	s.writeJSON(w, http.StatusOK, RenderResponse{Target: string(target), HTML: html})
}

// HandlePreview renders a stored document inside the live-reload shell.
// ?raw=1 returns the rendered document alone.
func (s *Server) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, rec, err := s.store.Load(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, id, err)
		return
	}

	target, err := s.targetParam(r, rec.Target)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid target", err.Error())
		return
	}
	html := s.Render(doc, target, boolParam(r, "preview"), target == blocks.Web)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if boolParam(r, "raw") {
		if _, err := w.Write([]byte(html)); err != nil {
			logger.Warnf("writing preview %s: %v", id, err)
		}
		return
	}

	shell := Shell(ShellData{
		Title:      rec.Name,
		DocumentID: rec.ID,
		Target:     string(target),
		Version:    rec.Version,
		HTML:       html,
	})
	if err := shell.Render(r.Context(), w); err != nil {
		logger.Errorf("rendering preview shell for %s: %v", id, err)
	}
}

func (s *Server) writeStoreError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Document not found", fmt.Sprintf("Document '%s' does not exist", id))
		return
	}
	s.writeError(w, http.StatusInternalServerError, "Storage error", err.Error())
}

// targetParam reads ?target=, falling back to fallback and then to the
// configured default.
func (s *Server) targetParam(r *http.Request, fallback string) (blocks.Target, error) {
	raw := r.URL.Query().Get("target")
	if raw == "" {
		raw = fallback
	}
	if raw == "" {
		return s.cfg.Target(), nil
	}
	return blocks.ParseTarget(raw)
}

func boolParam(r *http.Request, name string) bool {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
