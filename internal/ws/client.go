package ws

import (
	"sync"
	"time"

	"sk8_webapp/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// Client is one subscribed websocket connection watching one game.
type Client struct {
	UID    string
	GameID string
	Send   chan []byte

	conn      *websocket.Conn
	hub       *Hub
	closeOnce sync.Once
}

func NewClient(uid, gameID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UID:    uid,
		GameID: gameID,
		Send:   make(chan []byte, 16),
		conn:   conn,
		hub:    hub,
	}
}

// Run registers the client and pumps snapshots until the connection
// drops.
func (c *Client) Run() {
	c.hub.subscribe(c)
	go c.writePump()
	c.readPump()
}

// Close unsubscribes the client and tears the connection down. Send is
// never closed so a concurrent publish cannot panic; the writer exits
// when the connection does.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.unsubscribe(c)
		c.conn.Close()
	})
}

// readPump discards inbound frames; the socket is one-way. It exists
// to notice closes and answer pings per the keepalive deadlines.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "uid", c.UID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
