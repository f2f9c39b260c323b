// Package realtime is an in-process publish/subscribe hub that fans document
// events out to preview sessions.
//
// Delivery is best effort: every listener owns a buffered channel and an
// event that does not fit is dropped for that listener only. There is no
// persistence or replay; a session that reconnects asks for a fresh render.
package realtime

import (
	"sync"
	"time"
)

// Event kinds.
const (
	KindInit     = "init"
	KindRendered = "rendered"
	KindSaved    = "saved"
	KindDeleted  = "deleted"
	KindReload   = "reload"
)

// DocumentEvent describes a change to one document. HTML carries the fresh
// render for KindRendered events and is empty otherwise.
type DocumentEvent struct {
	Kind       string    `json:"kind"`
	DocumentID string    `json:"documentId,omitempty"`
	Target     string    `json:"target,omitempty"`
	Version    int       `json:"version,omitempty"`
	HTML       string    `json:"html,omitempty"`
	At         time.Time `json:"at"`
}

// Hub is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan DocumentEvent
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size.
// If bufSize <= 0, a default of 32 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan DocumentEvent),
		bufSize:   bufSize,
	}
}

// Register adds a new listener and returns (listenerID, receiveOnlyChannel).
// Callers must later Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan DocumentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan DocumentEvent, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener with the given id and closes its channel.
// It is safe to call multiple times; unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every registered listener. A zero At is set to
// the current time.
func (h *Hub) Broadcast(ev DocumentEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// slow listener
		}
	}
}

// Size returns the current number of active listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Rendered builds a KindRendered event.
func Rendered(id, target string, version int, html string) DocumentEvent {
	return DocumentEvent{Kind: KindRendered, DocumentID: id, Target: target, Version: version, HTML: html}
}
