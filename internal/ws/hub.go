package ws

import (
	"context"
	"sync"

	"skillswap/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub tracks open connections per user.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run owns registration until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]struct{})
			h.mutex.Unlock()
			metrics.WSClients.Set(0)
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := h.countLocked()
			h.mutex.Unlock()
			metrics.WSClients.Set(float64(total))
			h.logger.Debug().Str("user_id", client.userID.String()).Int("total_clients", total).Msg("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if set, ok := h.clients[client.userID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.send)
				}
				if len(set) == 0 {
					delete(h.clients, client.userID)
				}
			}
			total := h.countLocked()
			h.mutex.Unlock()
			metrics.WSClients.Set(float64(total))
			h.logger.Debug().Str("user_id", client.userID.String()).Int("total_clients", total).Msg("ws disconnected")
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// SendTo queues message for every connection of userID and returns how many
// accepted it. Slow clients are dropped rather than waited on.
func (h *Hub) SendTo(userID uuid.UUID, message []byte) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	snapshot := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		snapshot = append(snapshot, c)
	}
	h.mutex.RUnlock()

	sent := 0
	for _, client := range snapshot {
		select {
		case client.send <- message:
			sent++
		default:
			h.logger.Warn().Str("user_id", userID.String()).Msg("ws send buffer full, dropping client")
			go h.Unregister(client)
		}
	}
	return sent
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
