package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// businessEvent routes an event to one business room
type businessEvent struct {
	BusinessID uuid.UUID
	Event      Event
}

// Hub maintains the set of active clients per business and broadcasts
// domain events to them
type Hub struct {
	// Registered clients by business ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *businessEvent
	done       chan struct{}

	mu  sync.RWMutex
	log *zap.Logger
}

// NewHub creates a new Hub instance
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *businessEvent, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run starts the hub's main loop and returns when ctx is done, closing every
// client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, id)
			}
			h.mu.Unlock()
			close(h.done)
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.businessID] == nil {
				h.rooms[client.businessID] = make(map[*Client]bool)
			}
			h.rooms[client.businessID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.log.Error("marshal ws event", zap.String("type", event.Event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.BusinessID] {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop the connection rather than block the room.
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.businessID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.businessID)
	}
}

// BroadcastToBusiness queues an event for every client in the business room.
// It never blocks: when the queue is full the event is dropped.
func (h *Hub) BroadcastToBusiness(businessID uuid.UUID, event Event) {
	select {
	case h.broadcast <- &businessEvent{BusinessID: businessID, Event: event}:
	default:
		h.log.Warn("ws broadcast queue full, event dropped",
			zap.String("business_id", businessID.String()),
			zap.String("type", event.Type),
		)
	}
}

// Notify implements service.Notifier.
func (h *Hub) Notify(_ context.Context, businessID uuid.UUID, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal ws payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	h.BroadcastToBusiness(businessID, Event{Type: eventType, Payload: raw})
}

// ClientCount returns the number of connected clients for a business.
func (h *Hub) ClientCount(businessID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[businessID])
}
