package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

// Hub maintains the set of live websocket clients and fans lot events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

type Client struct {
	send chan []byte
}

type EventMessage struct {
	Type      string           `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   ActivityResponse `json:"payload"`
	Fee       *FeeResponse     `json:"fee,omitempty"`
	Status    EventStatus      `json:"status"`
}

type EventStatus struct {
	TotalSlots     int `json:"total_slots"`
	OccupiedSlots  int `json:"occupied_slots"`
	AvailableSlots int `json:"available_slots"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func NewClient() *Client {
	return &Client{send: make(chan []byte, 256)}
}

// Run owns the client set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Debug(ctx, "websocket client connected", "clients", h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Debug(ctx, "websocket client disconnected", "clients", h.ClientCount())

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues message for every client, dropping it when the queue is full.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logging.Warn(context.Background(), "broadcast channel full, dropping message")
	}
}

// PublishEvent is a parking.Service subscriber.
func (h *Hub) PublishEvent(event parking.Event) {
	msg := EventMessage{
		Type:      string(event.Type),
		Timestamp: event.Time,
		Payload:   newActivityResponse(event),
		Status: EventStatus{
			TotalSlots:     event.Status.TotalSlots,
			OccupiedSlots:  event.Status.OccupiedSlots,
			AvailableSlots: event.Status.AvailableSlots,
		},
	}
	if event.Fee != nil {
		fee := newFeeResponse(*event.Fee)
		msg.Fee = &fee
	}

	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error(context.Background(), "encode event", "error", err)
		return
	}
	h.Broadcast(data)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
