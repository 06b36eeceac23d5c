package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/typerace/typerace-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client is one WebSocket connection. The connection id is minted at
// upgrade time and doubles as the player's primary key within a room.
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn
	send chan []byte

	// mu guards roomID, the room this connection currently belongs to.
	// Disconnects route a leave for it through the normal path.
	mu     sync.Mutex
	roomID model.RoomID
}

func newClient(id model.ConnectionID, conn *websocket.Conn) *Client {
	return &Client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Room returns the room this connection is currently in, if any
func (c *Client) Room() model.RoomID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID
}

func (c *Client) setRoom(id model.RoomID) {
	c.mu.Lock()
	c.roomID = id
	c.mu.Unlock()
}

// clearRoom forgets the tracked room if it matches id
func (c *Client) clearRoom(id model.RoomID) {
	c.mu.Lock()
	if c.roomID == id {
		c.roomID = ""
	}
	c.mu.Unlock()
}

// writePump pumps messages from the send channel to the connection.
// One writePump goroutine runs per connection; it owns all writes.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
