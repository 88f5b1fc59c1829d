package broadcast

import (
	"context"
	"sync"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Hub maintains the set of connected overlays and fans snapshots out to
// them. Only the Run goroutine touches client queues.
type Hub struct {
	log *logger.Logger

	clients   map[*Client]bool
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	notify     chan struct{}
	done       chan struct{}

	// latest is the newest snapshot; older pending ones are superseded.
	latestMu sync.Mutex
	latest   domain.State
	hasState bool

	metricsMu        sync.Mutex
	totalConnections int64
	totalMessages    int64
}

// NewHub creates a hub. Call Run to start it.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is done, closing every
// client queue.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.log.Debug("broadcast: hub started")

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case <-h.notify:
			if s, ok := h.current(); ok {
				h.broadcastState(s)
			}
		}
	}
}

// Register adds a client. The client is sent the current state first.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client and closes its queue.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish records s as the latest state and wakes the loop. Never blocks;
// snapshots published faster than the loop runs collapse to the newest.
func (h *Hub) Publish(s domain.State) {
	h.latestMu.Lock()
	if !h.hasState || s.Version > h.latest.Version {
		h.latest = s
		h.hasState = true
	}
	h.latestMu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *Hub) current() (domain.State, bool) {
	h.latestMu.Lock()
	defer h.latestMu.Unlock()
	return h.latest, h.hasState
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.clientsMu.Unlock()

	h.metricsMu.Lock()
	h.totalConnections++
	h.metricsMu.Unlock()

	if s, ok := h.current(); ok {
		c.TrySend(stateMessage(s))
	}
	h.log.Info("broadcast: client %s connected (total: %d)", c.ID, n)
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.log.Info("broadcast: client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastState(s domain.State) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	msg := stateMessage(s)
	sent := 0
	for _, c := range clients {
		if c.TrySend(msg) {
			sent++
			continue
		}
		// Too slow to keep up; drop it.
		h.log.Warn("broadcast: client %s buffer full, disconnecting", c.ID)
		h.unregisterClient(c)
	}

	if sent > 0 {
		h.metricsMu.Lock()
		h.totalMessages++
		h.metricsMu.Unlock()
	}
}

// ClientCount returns the number of connected overlays.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Metrics returns connection counters for the health endpoint.
func (h *Hub) Metrics() map[string]any {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	return map[string]any{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections,
		"total_messages":    h.totalMessages,
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.log.Debug("broadcast: shutting down hub (%d active clients)", len(h.clients))
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}
