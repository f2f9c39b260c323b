package preview

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubiojr/blockpress/pkg/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// HandleWebSocket streams hub events to the client as JSON messages. The
// first message is always a KindInit event. ?doc=ID restricts the stream to
// one document.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		logger.Warnf("websocket upgrade: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	docFilter := r.URL.Query().Get("doc")
	id, events := s.hub.Register()
	defer s.hub.Unregister(id)
	logger.Debugf("listener %d connected (doc=%q)", id, docFilter)

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(realtime.DocumentEvent{Kind: realtime.KindInit, DocumentID: docFilter, At: time.Now().UTC()}); err != nil {
		logger.Warnf("listener %d: writing init: %v", id, err)
		return
	}

	// The reader only handles control frames and notices disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			logger.Debugf("listener %d disconnected", id)
			return
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if docFilter != "" && ev.DocumentID != docFilter {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debugf("listener %d: write failed: %v", id, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
