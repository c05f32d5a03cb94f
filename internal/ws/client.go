package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/coinpit/coinpit/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a single websocket connection.
type Client struct {
	id          game.ConnID
	hub         *Hub
	session     *Session
	conn        *websocket.Conn
	limiter     *rate.Limiter
	connectedAt time.Time
	logger      *slog.Logger

	// sendMu guards send against closeSend: targeted sends race the hub
	// closing the queue on disconnect, and a send on a closed channel
	// would panic the sender's goroutine.
	sendMu     sync.Mutex
	send       chan []byte
	sendClosed bool

	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// NewClient creates a Client for an upgraded connection.
func NewClient(id game.ConnID, hub *Hub, session *Session, conn *websocket.Conn, limiter *rate.Limiter, logger *slog.Logger) *Client {
	return &Client{
		id:          id,
		hub:         hub,
		session:     session,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		limiter:     limiter,
		connectedAt: time.Now(),
		logger:      logger.With(slog.String("conn", string(id))),
		shutdown:    make(chan struct{}),
	}
}

// ID returns the connection's identity in the registry.
func (c *Client) ID() game.ConnID {
	return c.id
}

// ReadPump pumps messages from the websocket into the session dispatcher.
// Messages from a single connection are processed in the order received.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		c.session.HandleClose(ctx, c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws unexpected close", slog.Any("error", err))
			}
			break
		}

		if c.limiter != nil && !c.limiter.Allow() {
			// Over the per-connection rate; drop the frame.
			continue
		}

		c.session.HandleMessage(ctx, c.id, message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
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

		case <-c.shutdown:
			// Flush whatever is queued, then close the connection.
			for {
				select {
				case message, ok := <-c.send:
					if !ok {
						// Queue closed underneath the shutdown
						_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
						_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
						return
					}
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame for delivery. It reports false when the queue is
// already closed or the buffer is full.
func (c *Client) Send(msg []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend closes the send queue exactly once. Safe against concurrent
// Send calls.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// Shutdown asks the write pump to flush and close the connection.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		close(c.shutdown)
	})
}
