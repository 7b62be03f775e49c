package ws

import (
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *websocket.Conn
	Message chan *StreamMessage
	ID      string
}

func NewClient(conn *websocket.Conn, id string) *Client {
	return &Client{
		conn:    conn,
		Message: make(chan *StreamMessage, 64), // buffered to protect the broadcast loop
		ID:      id,
	}
}

// ReadMessage drains the connection until it closes. The audit stream is
// one-way; inbound frames are discarded.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for msg := range c.Message {
		if err := c.conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error (client %s): %v", c.ID, err)
			break
		}
	}
}
