// Package wsconn wraps a single *websocket.Conn with serialized concurrent
// read/write access, since gorilla/websocket permits at most one concurrent
// reader and one concurrent writer. Adapted from the teacher's
// fastview.websock: same 1-buffered-semaphore technique, generalized to
// take an explicit close code and reason so callers can report
// policy-violation / internal-error / normal closes.
package wsconn

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readDeadline     = time.Second
	writeDeadline    = time.Second
	closeGracePeriod = 1 * time.Second
)

// ErrCongestion indicates too many waiters on the socket for a given op.
var ErrCongestion = errors.New("wsconn: operation failed due to congestion")

// Socket serializes reads and writes to an underlying websocket connection.
type Socket struct {
	readSem  chan struct{}
	writeSem chan struct{}
	conn     *websocket.Conn
}

// New wraps conn.
func New(conn *websocket.Conn) *Socket {
	return &Socket{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		conn:     conn,
	}
}

// Conn returns the underlying websocket connection. Intended for
// non-concurrent setup (installing handlers) only.
func (s *Socket) Conn() *websocket.Conn {
	return s.conn
}

// Read serializes a read operation against the socket.
func (s *Socket) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case s.readSem <- struct{}{}:
		defer func() { <-s.readSem }()
		return readFn(s.conn)
	case <-time.After(readDeadline):
		return ErrCongestion
	}
}

// Write serializes a write operation against the socket. Once ctx is done,
// Write is a no-op.
func (s *Socket) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	if ctx.Err() != nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return nil
	case s.writeSem <- struct{}{}:
		defer func() { <-s.writeSem }()
		return writeFn(s.conn)
	case <-time.After(writeDeadline):
		return ErrCongestion
	}
}

// Close sends a close frame with the given code and reason, then closes the
// connection after a grace period. Safe to call once no further read/write
// calls are in flight.
func (s *Socket) Close(code int, reason string) {
	s.writeSem <- struct{}{}
	defer func() { <-s.writeSem }()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	time.Sleep(closeGracePeriod)
	_ = s.conn.Close()
}

// IsUnexpectedClose reports whether err represents an abnormal websocket
// closure (as opposed to a normal or going-away close).
func IsUnexpectedClose(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
