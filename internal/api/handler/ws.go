package handler

import (
	"complaintdedup/backend/internal/events"
	"complaintdedup/backend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from other origins; access is gated by the service token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeEvents upgrades the connection and streams complaint events to it.
func (h *Handler) ServeEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("Failed to upgrade event connection", zap.Error(err))
		return
	}

	client := &events.WebSocketClient{
		ID:   uuid.New().String(),
		Conn: conn,
		Hub:  h.Hub,
		Send: make(chan models.ComplaintEvent, 256),
		Log:  h.Log,
	}

	select {
	case h.Hub.RegisterCh <- client:
		client.Run()
	case <-h.Hub.Done():
		conn.Close()
	}
}
