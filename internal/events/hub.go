// Package events fans complaint events out from Redis Pub/Sub to live
// dashboard connections.
package events

import (
	"complaintdedup/backend/internal/models"
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Hub keeps the set of connected clients and broadcasts every event to all of them.
type Hub struct {
	Clients map[string]Client

	// Channels
	EventsCh     chan models.ComplaintEvent
	RegisterCh   chan Client
	UnregisterCh chan Client

	done chan struct{}
	log  *zap.Logger
}

// NewHub creates a hub; call Run to start it.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Clients:      make(map[string]Client),
		EventsCh:     make(chan models.ComplaintEvent, 64),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		done:         make(chan struct{}),
		log:          log,
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// StartPubSubListener forwards messages from a Redis subscription to the hub
// until the subscription is closed or ctx is done.
func (h *Hub) StartPubSubListener(ctx context.Context, pubsub *redis.PubSub) {
	go func() {
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.ComplaintEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					h.log.Warn("Error unmarshalling complaint event", zap.Error(err))
					continue
				}
				select {
				case h.EventsCh <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

// Run is the hub's dispatch loop. It returns when ctx is done, closing all clients.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for id, client := range h.Clients {
				client.Close()
				delete(h.Clients, id)
			}
			return

		case client := <-h.RegisterCh:
			h.Clients[client.GetID()] = client
			h.log.Debug("Event client registered", zap.String("client_id", client.GetID()))

		case client := <-h.UnregisterCh:
			if _, ok := h.Clients[client.GetID()]; ok {
				delete(h.Clients, client.GetID())
				client.Close()
				h.log.Debug("Event client unregistered", zap.String("client_id", client.GetID()))
			}

		case event := <-h.EventsCh:
			for id, client := range h.Clients {
				select {
				case client.GetSendChannel() <- event:
				default:
					// Slow client: drop it rather than stall the broadcast.
					delete(h.Clients, id)
					client.Close()
					h.log.Warn("Dropping slow event client", zap.String("client_id", id))
				}
			}
		}
	}
}
