package lib

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ThreadSafeWebSocket wraps a websocket.Conn and allows many readers and writers to
// read/write the conn from goroutines without having to track safe access.
// This comes with the caveat that all writes block eachother, and similarly for reads.
// See https://pkg.go.dev/github.com/gorilla/websocket?utm_source=godoc#hdr-Concurrency.
type ThreadSafeWebSocket struct {
	c       *websocket.Conn
	writeMu *sync.Mutex
	readMu  *sync.Mutex
}

func NewThreadSafeWebSocket(c *websocket.Conn) ThreadSafeWebSocket {
	return ThreadSafeWebSocket{c, &sync.Mutex{}, &sync.Mutex{}}
}

// ReadMessage reads the next message. A non-zero idle sets a read deadline of
// idle from now.
func (s ThreadSafeWebSocket) ReadMessage(idle time.Duration) (int, []byte, error) {
	s.readMu.Lock()
	defer s.readMu.Unlock()
	var deadline time.Time
	if idle > 0 {
		deadline = time.Now().Add(idle)
	}
	if err := s.c.SetReadDeadline(deadline); err != nil {
		return 0, nil, err
	}
	return s.c.ReadMessage()
}

func (s ThreadSafeWebSocket) WriteMessage(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.c.WriteMessage(messageType, data)
}

// WriteJSON marshals v and sends it as a text message.
func (s ThreadSafeWebSocket) WriteJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.WriteMessage(websocket.TextMessage, b)
}

// Close closes the underlying connection without a close handshake. It may be
// called while another goroutine is blocked reading, which unblocks it.
func (s ThreadSafeWebSocket) Close() error {
	return s.c.Close()
}
