package ws

import (
	"log"
	"sync"
)

// Hub owns the set of board subscribers. Membership changes and fan-out all
// run on the Run goroutine; the mutex only guards reads from other goroutines.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	events chan []byte
	joins  chan *Client
	leaves chan *Client

	done     chan struct{}
	stopOnce sync.Once
	logger   *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		events:  make(chan []byte, 1024),
		joins:   make(chan *Client, 128),
		leaves:  make(chan *Client, 128),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.joins:
			h.add(c)
		case c := <-h.leaves:
			if h.remove(c) {
				h.logf("[WS] disconnected actor=%s total_clients=%d", c.actor, h.ClientCount())
			}
		case msg := <-h.events:
			h.fanOut(msg)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	h.joins <- c
}

func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	h.leaves <- c
}

// Broadcast queues msg for every subscriber. A full queue drops the message
// instead of blocking the caller; clients recover with a board reload.
func (h *Hub) Broadcast(msg []byte) {
	if h == nil {
		return
	}
	select {
	case h.events <- msg:
	default:
		h.logf("[WS] broadcast dropped reason=queue_full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logf("[WS] connected actor=%s total_clients=%d", c.actor, total)
}

// remove closes the client's queue exactly once.
func (h *Hub) remove(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	close(c.send)
	return true
}

func (h *Hub) fanOut(msg []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var slow []*Client
	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		h.remove(c)
	}
	if len(slow) > 0 {
		h.logf("[WS] broadcast clients=%d dropped_slow=%d", len(targets), len(slow))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
