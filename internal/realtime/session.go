package realtime

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/observability"
)

const (
	SendQueueSize = 128
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
)

// Session wraps one websocket connection. Outbound frames flow through a
// buffered queue drained by a single write loop, so TrySend is safe from any
// goroutine.
type Session struct {
	ID     string
	UserID string

	Conn      *websocket.Conn
	SendQueue chan []byte
	done      chan struct{}
	closed    atomic.Int32
}

func NewSession(id, userID string, conn *websocket.Conn) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		Conn:      conn,
		SendQueue: make(chan []byte, SendQueueSize),
		done:      make(chan struct{}),
	}
}

func (s *Session) Start() {
	go s.writeLoop()
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

// TrySend enqueues a frame without blocking. A full queue means the client
// cannot keep up; the connection is dropped so backpressure stays bounded.
func (s *Session) TrySend(msg []byte) bool {
	if s.closed.Load() == 1 {
		return false
	}
	select {
	case s.SendQueue <- msg:
		return true
	default:
		observability.GetLogger(context.Background()).Warn("session: backpressure overflow, dropping connection",
			zap.String("user_id", s.UserID), zap.String("session_id", s.ID))
		s.CloseWithReason(websocket.CloseInternalServerErr, "backpressure overflow")
		return false
	}
}

func (s *Session) Close() {
	s.CloseWithReason(websocket.CloseNormalClosure, "server closing")
}

func (s *Session) CloseWithReason(code int, reason string) {
	if !s.closed.CompareAndSwap(0, 1) {
		return
	}

	close(s.done)

	if s.Conn != nil {
		deadline := time.Now().Add(time.Second)
		_ = s.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		s.Conn.Close()
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case msg, ok := <-s.SendQueue:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
