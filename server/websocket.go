package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(*http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// inboundMessage is what a WebSocket client may send: {"type":"input",
// "action":"submit","text":"..."} or {"type":"end"}.
type inboundMessage struct {
	Type   string              `json:"type"`
	ID     string              `json:"id,omitempty"`
	Action orchestrator.Action `json:"action,omitempty"`
	Text   string              `json:"text,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ls, ok := s.session(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "session", id, "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := ls.hub.Subscribe()
	defer unsubscribe()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Reader: client messages arrive here; a read error ends the connection.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("WebSocket read failed", "session", id, "error", err)
				}
				return
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
			s.handleInbound(ls, msg)
		}
	}()

	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
					time.Now().Add(wsWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleInbound(ls *liveSession, msg inboundMessage) {
	switch msg.Type {
	case "end":
		ls.orch.End()
	case "input":
		if _, err := resolveInput(ls, inputRequest{ID: msg.ID, Action: msg.Action, Text: msg.Text}); err != nil {
			s.logger.Debug("WebSocket input rejected", "error", err)
		}
	default:
		s.logger.Debug("Unsupported WebSocket message", "type", msg.Type)
	}
}
