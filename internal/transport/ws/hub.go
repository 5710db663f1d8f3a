package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xiaot623/gogo/relay/internal/protocol"
)

// sendBufferSize bounds frames queued for one connection's writer.
const sendBufferSize = 256

// Connection represents a single WebSocket connection.
type Connection struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
}

// Emit queues a frame for the writer. Once the connection is closed frames
// are dropped, so a running turn never blocks on a departed client.
func (c *Connection) Emit(frame protocol.Frame) {
	data, err := frame.Encode()
	if err != nil {
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	case <-c.done:
	}
}

// WriteMessage writes a message to the connection with proper locking.
func (c *Connection) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Done is closed when the connection shuts down.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and closes the socket. It is safe to call more than once.
func (c *Connection) Close(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = c.Conn.Close()
	})
}

// Hub tracks live connections.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	wg          sync.WaitGroup
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
	}
}

// NewConnection wraps a socket for the given session.
func (h *Hub) NewConnection(ws *websocket.Conn, sessionID string) *Connection {
	return &Connection{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Conn:      ws,
		send:      make(chan []byte, sendBufferSize),
		done:      make(chan struct{}),
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.wg.Add(1)
	h.mu.Unlock()
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[conn.ID]; ok {
		delete(h.connections, conn.ID)
		h.wg.Done()
	}
	h.mu.Unlock()
}

// Count returns the number of active connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// CloseAll closes every live connection with a going-away status.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close(websocket.CloseGoingAway, "server shutting down")
	}
}

// Wait blocks until every registered connection has been unregistered or ctx ends.
func (h *Hub) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
