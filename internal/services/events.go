package services

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventInquiryCreated        = "inquiry.created"
	EventParticipantRegistered = "participant.registered"
)

type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// Subscriber receives broadcast events. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v any) error
}

// EventHub fans admin notifications out to connected dashboards. Publish
// never blocks a request: events are dropped when the queue is full.
type EventHub struct {
	mu      sync.Mutex
	clients map[Subscriber]bool
	ch      chan Event
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients: map[Subscriber]bool{},
		ch:      make(chan Event, 64),
	}
}

func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			h.deliver(event)
		case <-ctx.Done():
			return
		}
	}
}

func (h *EventHub) deliver(event Event) {
	h.mu.Lock()
	clients := make([]Subscriber, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	for _, client := range clients {
		if conn, ok := client.(*websocket.Conn); ok {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		}
		if err := client.WriteJSON(event); err != nil {
			h.Remove(client)
		}
	}
}

func (h *EventHub) Publish(eventType string, data any) {
	if h == nil {
		return
	}
	select {
	case h.ch <- Event{Type: eventType, At: time.Now().UTC(), Data: data}:
	default:
	}
}

func (h *EventHub) Add(client Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *EventHub) Remove(client Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
