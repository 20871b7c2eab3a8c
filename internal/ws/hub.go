package ws

import (
	"context"
	"sync"
	"time"

	"talent-match/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSweepInterval = 30 * time.Second

type message struct {
	companyID uuid.UUID
	payload   []byte
}

// Hub fans dashboard events out to the connected clients of one company.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	sessions   chan session.Event
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *zap.Logger

	sweepEvery time.Duration
	now        func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		broadcast:  make(chan message, 1024),
		sessions:   make(chan session.Event, 128),
		done:       make(chan struct{}),
		logger:     logger,
		sweepEvery: defaultSweepInterval,
		now:        time.Now,
	}
}

// Run serves the hub until ctx ends, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.sweepEvery)
	defer ticker.Stop()
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Debug("ws client connected",
				zap.String("user_id", client.userID.String()),
				zap.Int("total_clients", total),
			)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.drop(client, "disconnected")

		case msg := <-h.broadcast:
			delivered := 0
			for _, client := range h.snapshot(msg.companyID) {
				select {
				case client.send <- msg.payload:
					delivered++
				default:
					h.drop(client, "slow_consumer")
				}
			}
			h.logger.Debug("ws broadcast",
				zap.String("company_id", msg.companyID.String()),
				zap.Int("clients", delivered),
			)

		case evt := <-h.sessions:
			h.applySession(evt)

		case <-ticker.C:
			h.sweep()
		}
	}
}

// WatchSessions forwards session events from the bus into the hub until ctx ends or the
// channel closes.
func (h *Hub) WatchSessions(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			select {
			case h.sessions <- evt:
			case <-h.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) applySession(evt session.Event) {
	h.mutex.RLock()
	matched := make([]*Client, 0)
	for c := range h.clients {
		if c.userID == evt.UserID {
			matched = append(matched, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range matched {
		switch evt.Kind {
		case session.EventStarted:
			if evt.ExpiresAt.After(c.expiresAt) {
				h.mutex.Lock()
				c.expiresAt = evt.ExpiresAt
				h.mutex.Unlock()
			}
		case session.EventExpired:
			h.drop(c, "session_expired")
		}
	}
}

func (h *Hub) sweep() {
	now := h.now()
	h.mutex.RLock()
	expired := make([]*Client, 0)
	for c := range h.clients {
		if !c.expiresAt.IsZero() && !now.Before(c.expiresAt) {
			expired = append(expired, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range expired {
		h.drop(c, "session_expired")
	}
}

func (h *Hub) snapshot(companyID uuid.UUID) []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.companyID == companyID {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) drop(c *Client, reason string) {
	h.mutex.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	if !ok {
		return
	}
	c.closeSend()
	h.logger.Debug("ws client dropped",
		zap.String("user_id", c.userID.String()),
		zap.String("reason", reason),
		zap.Int("total_clients", total),
	)
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
		delete(h.clients, c)
	}
	h.mutex.Unlock()
	for _, c := range clients {
		c.closeSend()
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case <-h.done:
		client.closeSend()
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues payload for the clients of companyID. A full buffer drops it.
func (h *Hub) Broadcast(companyID uuid.UUID, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- message{companyID: companyID, payload: payload}:
	case <-h.done:
	default:
		h.logger.Warn("ws broadcast dropped", zap.String("reason", "buffer_full"))
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
