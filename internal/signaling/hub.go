package signaling

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Hub owns the relay and upgrades HTTP requests into signaling connections.
type Hub struct {
	relay    *Relay
	upgrader websocket.Upgrader
}

// NewHub creates a Hub that accepts WebSocket connections from the given
// origin. An empty origin allows all (development).
func NewHub(relay *Relay, allowedOrigin string) *Hub {
	return &Hub{
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Relay exposes the hub's relay for route wiring.
func (h *Hub) Relay() *Relay { return h.relay }

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		return
	}
	client := NewClient(h.relay, conn)
	client.Run(r.Context())
}
