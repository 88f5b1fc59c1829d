package broadcast

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hammamikhairi/scorekeep/internal/logger"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait).
	pingPeriod = (pongWait * 9) / 10

	// Overlays only read; anything they send is discarded.
	maxMessageSize = 512

	// Buffer size for outbound messages.
	sendBufferSize = 16
)

// unregisterer is the part of the hub a client talks back to.
type unregisterer interface {
	Unregister(c *Client)
}

// Client is one connected overlay.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan Message
	hub  unregisterer
	log  *logger.Logger
}

// NewClient wraps an upgraded connection.
func NewClient(id string, conn *websocket.Conn, hub unregisterer, log *logger.Logger) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan Message, sendBufferSize),
		hub:  hub,
		log:  log,
	}
}

// ReadPump drains the connection so pongs and close frames are processed.
// It unregisters the client when the peer goes away.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if ctx.Err() != nil {
			return
		}
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("broadcast: client %s unexpected close: %v", c.ID, err)
			}
			return
		}
	}
}

// WritePump sends queued messages and keepalive pings until the hub
// closes the queue or ctx is done.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the queue.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Debug("broadcast: client %s write error: %v", c.ID, err)
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

// TrySend queues msg without blocking. Returns false if the client is
// too slow to keep up.
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
