package hub

import (
	"encoding/json"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// ControllerSelector switches a client to another controller's stream.
type ControllerSelector interface {
	SelectController(c *Client, controller int) bool
}

// Client represents a connected WebSocket client.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	controller atomic.Int64
}

// NewClient creates a new Client attached to the hub, watching the first
// controller.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Controller returns the controller this client watches.
func (c *Client) Controller() int {
	return int(c.controller.Load())
}

func (c *Client) SetController(controller int) {
	c.controller.Store(int64(controller))
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// ReadPumpWithHandler reads client commands until the connection closes.
func (c *Client) ReadPumpWithHandler(selector ControllerSelector) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var clientMsg ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.hub.logger.Debugw("bad client message", "error", err)
			continue
		}

		switch clientMsg.Type {
		case TypeSelectController:
			if !selector.SelectController(c, clientMsg.Controller) {
				c.hub.logger.Debugw("unknown controller selected", "controller", clientMsg.Controller)
			}
		}
	}
}
