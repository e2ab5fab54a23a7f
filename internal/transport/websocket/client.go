package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"knightd/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  logger.Logger
}

type clientMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, log logger.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
		log:  log,
	}
}

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

	subscribed := make(map[string]bool)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.log.Warn("ws: client disconnected", "error", err)
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Error("ws: invalid json message", "error", err)
			continue
		}

		switch msg.Type {
		case "subscribe":
			if !subscribed[msg.Channel] {
				subscribed[msg.Channel] = true
				c.hub.subscribe <- &Subscription{client: c, channel: msg.Channel}
			}

		case "unsubscribe":
			if subscribed[msg.Channel] {
				delete(subscribed, msg.Channel)
				c.hub.unsubscribe <- &Subscription{client: c, channel: msg.Channel}
			}

		default:
			c.log.Warn("ws: unknown message type", "type", msg.Type)
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
