package ws

import (
	"sync"

	"rankr-backend/internal/logging"
	"rankr-backend/internal/models"

	"github.com/segmentio/encoding/json"
)

// Hub tracks the live connections of every poll and fans the authoritative
// snapshot out to them. It is the only shared mutable structure in the
// process.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

// Join admits the client into its poll's room and reports whether this is the
// participant's first live connection. Only the first connection materializes
// the participant; extra tabs join silently.
func (h *Hub) Join(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[client.PollID]
	if room == nil {
		room = make(map[*Client]bool)
		h.rooms[client.PollID] = room
	}
	room[client] = true

	count := 0
	for c := range room {
		if c.UserID == client.UserID {
			count++
		}
	}
	logging.Logger.Debugf("ws: client connected to poll %s (room: %d, participant conns: %d)",
		client.PollID, len(room), count)
	return count == 1
}

// Leave removes the client, closes its connection and reports whether it was
// the participant's last one. The participant record is only removed when the
// last connection goes.
func (h *Hub) Leave(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	last := true
	if room, ok := h.rooms[client.PollID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.PollID)
		}
		for c := range room {
			if c.UserID == client.UserID {
				last = false
				break
			}
		}
	}
	client.Close()
	logging.Logger.Debugf("ws: client disconnected from poll %s (last for participant: %t)",
		client.PollID, last)
	return last
}

// Broadcast sends the event to every connection in the poll's room. The
// payload is marshalled once. A failed write closes the socket; the client's
// read loop owns the membership teardown.
func (h *Hub) Broadcast(pollID string, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logging.Logger.Errorf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[pollID]))
	for client := range h.rooms[pollID] {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			logging.Logger.Warnf("ws: write error on poll %s: %v", pollID, err)
			client.Close()
		}
	}
}
