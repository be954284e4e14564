package signaling

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP payloads run a few KB.
	maxMessageSize = 64 * 1024

	// Outbound buffer per connection; preserves per-sender order. A full
	// buffer drops the message (SignalingDrop) rather than blocking the
	// relay.
	sendBufferSize = 64
)

// Client is one WebSocket connection bound to the relay. It implements Conn.
type Client struct {
	id    string
	relay *Relay
	conn  *websocket.Conn

	mu     sync.Mutex
	closed bool
	send   chan Envelope
}

// NewClient wraps an upgraded WebSocket connection.
func NewClient(relay *Relay, conn *websocket.Conn) *Client {
	return &Client{
		id:    uuid.New().String(),
		relay: relay,
		conn:  conn,
		send:  make(chan Envelope, sendBufferSize),
	}
}

var _ Conn = (*Client)(nil)

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// Send queues an envelope for the write pump. Reports false when the buffer
// is full or the connection is closing; the message is dropped. A peer's
// relay handler may still hold this Conn from a room-membership snapshot
// taken before the connection closed, so Send stays safe after shutdown.
func (c *Client) Send(env Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

// shutdown marks the connection closed and releases the write pump. Safe to
// call concurrently with Send, and idempotent.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Run starts the read and write pumps and blocks until the connection
// closes. Inbound messages are handled to completion, in order, before the
// next is read.
func (c *Client) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.relay.Disconnect(c)
		c.shutdown()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("signaling: read error on %s: %v", c.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("signaling: malformed frame on %s: %v", c.id, err)
			continue
		}
		c.relay.Dispatch(ctx, c, env)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
