package events

import (
	"complaintdedup/backend/internal/models"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient streams hub events to one websocket connection.
type WebSocketClient struct {
	ID   string
	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.ComplaintEvent
	Log  *zap.Logger

	closeOnce sync.Once
}

func (c *WebSocketClient) GetID() string                                { return c.ID }
func (c *WebSocketClient) GetSendChannel() chan<- models.ComplaintEvent { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump only watches for close frames and pongs; dashboards do not send data.
func (c *WebSocketClient) readPump() {
	defer func() {
		select {
		case c.Hub.UnregisterCh <- c:
		case <-c.Hub.Done():
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.Warn("Event websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				c.Log.Warn("Error encoding event", zap.String("client_id", c.ID), zap.Error(err))
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
