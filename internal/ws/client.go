// internal/ws/client.go
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is one websocket connection bound to an authenticated agent.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	agentID string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, agentID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 64),
		agentID: agentID,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register hands the client to the hub and starts its pumps.
func (c *Client) Register() {
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

// Send marshals and queues an event for the client.
func (c *Client) Send(event *Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket event", zap.Error(err))
		return
	}
	c.sendRaw(raw)
}

func (c *Client) sendRaw(raw []byte) {
	select {
	case c.send <- raw:
	case <-c.ctx.Done():
	default:
		// Backed-up client. The hub loop may be the caller here, so the
		// drop must not wait on the unregister channel it services.
		select {
		case c.hub.unregister <- c:
		case <-c.ctx.Done():
		default:
		}
	}
}

// readPump drains inbound frames to keep pong handling alive. Clients are
// push-only; any payload they send is discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops the pumps. Safe to call once, from the hub.
func (c *Client) Close() {
	c.cancel()
	close(c.send)
}
