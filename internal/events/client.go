package events

import "complaintdedup/backend/internal/models"

// Client is any listener connected to the hub (e.g. a dashboard websocket).
type Client interface {
	// GetID returns the unique identifier of the connection.
	GetID() string
	// GetSendChannel returns the channel the hub delivers events on.
	GetSendChannel() chan<- models.ComplaintEvent
	// Run starts the client's pumps.
	Run()
	// Close shuts the client down; the hub calls it on unregister.
	Close()
}
