package ws

import (
	"sync"
	"time"

	"rankr-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/segmentio/encoding/json"
)

// writeTimeout bounds every outbound write so one slow receiver cannot stall
// a broadcast indefinitely.
const writeTimeout = 5 * time.Second

// wsConn is the part of *websocket.Conn the hub writes to.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one live connection bound to a participant identity for its whole
// lifetime. Multiple clients may carry the same UserID (multi-tab).
type Client struct {
	mu   sync.Mutex
	conn wsConn

	PollID string
	UserID string
	Name   string
}

func NewClient(conn wsConn, pollID, userID, name string) *Client {
	return &Client{conn: conn, PollID: pollID, UserID: userID, Name: name}
}

func (c *Client) Send(event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.write(data)
}

func (c *Client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) Close() {
	c.conn.Close()
}
