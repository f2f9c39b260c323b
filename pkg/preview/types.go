package preview

import (
	"time"

	"github.com/rubiojr/blockpress/pkg/core"
	"github.com/rubiojr/blockpress/pkg/registry"
	"github.com/rubiojr/blockpress/pkg/storage"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Listeners int       `json:"listeners"`
}

type ListBlocksResponse struct {
	Blocks     []registry.BlockDefinition `json:"blocks"`
	Categories []registry.Category        `json:"categories"`
	Count      int                        `json:"count"`
}

type ListDocumentsResponse struct {
	Documents []storage.Record `json:"documents"`
	Count     int              `json:"count"`
}

type DocumentResponse struct {
	Record   storage.Record `json:"record"`
	Document *core.Document `json:"document"`
}

// SaveDocumentRequest is the body of PUT /api/documents/{id}.
type SaveDocumentRequest struct {
	Name     string         `json:"name"`
	Target   string         `json:"target"`
	Document *core.Document `json:"document"`
}

type RenderResponse struct {
	Target string `json:"target"`
	HTML   string `json:"html"`
}
