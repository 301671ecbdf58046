package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one live socket connection. A browser tab holds exactly one;
// a user may hold many. The rooms set is owned by the hub and only
// mutated under its lock.
type Client struct {
	ID      string // socket id, assigned at upgrade
	UserID  string // empty for anonymous connections
	Name    string
	conn    *websocket.Conn
	send    chan []byte
	session *Session
	limiter *EventRateLimiter
	rooms   map[string]struct{}

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, userID, name string, session *Session) *Client {
	return &Client{
		ID:      uuid.New().String(),
		UserID:  userID,
		Name:    name,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: session,
		limiter: NewEventRateLimiter(),
		rooms:   make(map[string]struct{}),
	}
}

// Session returns the rejoin state shared across this client's
// reconnects.
func (c *Client) Session() *Session { return c.session }

// SendMessage queues a payload for delivery without blocking. A slow
// consumer drops messages rather than stalling the fan-out path.
func (c *Client) SendMessage(msg []byte) {
	select {
	case c.send <- msg:
	default:
		// Channel full, message dropped
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// WriteLoop drains the send channel onto the wire and keeps the
// connection alive with pings. Runs in its own goroutine per connection.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
