package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// wsWriteTimeout is the deadline for a single write to a WebSocket client.
	wsWriteTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// wsReadLimit caps inbound frames; clients only send control frames.
	wsReadLimit = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS at the reverse-proxy level if needed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsMessage is the JSON envelope sent to WebSocket clients.
type wsMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// handleWS streams the series over a WebSocket.
//
// The client receives a "snapshot" message on connect and a "sample" message
// for each committed sample. The handler owns the only writer to the
// connection; a reader goroutine handles pongs and detects disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response
		return
	}
	defer conn.Close()

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if s.metrics != nil {
		s.metrics.StreamConnected("ws")
		defer s.metrics.StreamDisconnected("ws")
	}

	closed := make(chan struct{})
	go readPump(conn, closed)

	write := func(msg wsMessage) error {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			return err
		}
		return conn.WriteJSON(msg)
	}

	if err := write(wsMessage{Event: "snapshot", Data: s.seriesPayload("ws")}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case sample, ok := <-ch:
			if !ok {
				return
			}
			if err := write(wsMessage{Event: "sample", Data: sample}); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}

		case <-closed:
			return

		case <-r.Context().Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		}
	}
}

// readPump reads frames to process control messages (pong, close) and
// detect disconnects. It closes done when the connection is gone.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
