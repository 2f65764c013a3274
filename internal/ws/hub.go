package ws

import (
	"sync"

	"sk8_webapp/internal/logger"
)

// Hub fans committed game snapshots out to subscribed connections.
// Subscriptions are process-local bookkeeping only; game state itself
// lives in the store.
type Hub struct {
	mu     sync.RWMutex
	byGame map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{byGame: make(map[string]map[*Client]struct{})}
}

func (h *Hub) subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.byGame[c.GameID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.byGame[c.GameID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.byGame[c.GameID]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.byGame, c.GameID)
	}
}

// PublishGame delivers a snapshot to every subscriber of the game.
// Slow consumers are dropped rather than allowed to block the caller.
func (h *Hub) PublishGame(gameID string, snapshot []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byGame[gameID]))
	for c := range h.byGame[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.Send <- snapshot:
		default:
			logger.Warn("dropping slow ws subscriber", "game_id", gameID, "uid", c.UID)
			c.Close()
		}
	}
}
