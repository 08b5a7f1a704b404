package realtime

import (
	"sync"
	"time"
)

// socket is the minimal write surface the registry needs from a websocket
// connection. *websocket.Conn satisfies it; tests substitute fakes.
type socket interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Conn is one live websocket session. A connection belongs to exactly one
// user id for its lifetime and is compared by identity.
type Conn struct {
	sock         socket
	userID       string
	writeTimeout time.Duration

	// writeMu serializes frames onto the socket; two fan-out calls must
	// never interleave bytes on the same connection.
	writeMu sync.Mutex
}

func newConn(sock socket, userID string, writeTimeout time.Duration) *Conn {
	return &Conn{
		sock:         sock,
		userID:       userID,
		writeTimeout: writeTimeout,
	}
}

// UserID returns the owning user id supplied at connect time.
func (c *Conn) UserID() string {
	return c.userID
}

// WriteJSON sends one JSON text frame, holding the per-connection write lock
// for the duration of the write.
func (c *Conn) WriteJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.sock.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.sock.WriteJSON(v)
}

// Close shuts the underlying socket down.
func (c *Conn) Close() error {
	return c.sock.Close()
}
