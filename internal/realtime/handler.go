package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/domain"
	"github.com/iskra-app/backend/internal/middleware"
	"github.com/iskra-app/backend/internal/observability"
)

// Authorizer decides whether a user may attach to a conversation's room.
// The application service implements it with the participant rule.
type Authorizer interface {
	Authorize(ctx context.Context, userID, conversationID string) error
}

type Handler struct {
	hub  *Hub
	auth Authorizer
}

func NewHandler(hub *Hub, auth Authorizer) *Handler {
	return &Handler{hub: hub, auth: auth}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
}

type serverFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Error          string `json:"error,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	log := observability.GetLogger(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade error", zap.Error(err))
		return
	}

	session := NewSession(uuid.NewString(), userID, conn)
	session.Start()

	log.Info("connected", zap.String("user_id", userID), zap.String("session_id", session.ID))
	observability.WebSocketConnectionsActive.WithLabelValues("iskra-backend").Inc()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go h.readLoop(session)
}

func (h *Handler) readLoop(s *Session) {
	defer func() {
		h.hub.Detach(s)
		s.Close()
		log := observability.GetLogger(context.Background())
		log.Info("disconnected", zap.String("user_id", s.UserID), zap.String("session_id", s.ID))
		observability.WebSocketConnectionsActive.WithLabelValues("iskra-backend").Dec()
	}()

	for {
		_, raw, err := s.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				observability.Log.Error("read loop error", zap.String("user_id", s.UserID), zap.Error(err))
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.reply(s, serverFrame{Type: "error", Error: "bad frame"})
			continue
		}

		switch frame.Type {
		case "join":
			h.handleJoin(s, frame.ConversationID)
		default:
			h.reply(s, serverFrame{Type: "error", Error: "unknown frame type"})
		}
	}
}

// handleJoin attaches the session to the room after verifying the user is a
// participant. The original design skipped this check, letting any
// authenticated connection listen to a conversation it could name; rooms are
// gated here instead.
func (h *Handler) handleJoin(s *Session, conversationID string) {
	if conversationID == "" {
		h.reply(s, serverFrame{Type: "error", Error: "missing conversationId"})
		return
	}

	if err := h.auth.Authorize(context.Background(), s.UserID, conversationID); err != nil {
		reason := "forbidden"
		if errors.Is(err, domain.ErrConversationNotFound) {
			reason = "not found"
		}
		h.reply(s, serverFrame{Type: "error", ConversationID: conversationID, Error: reason})
		return
	}

	h.hub.Join(s, conversationID)
	h.reply(s, serverFrame{Type: "joined", ConversationID: conversationID})
}

func (h *Handler) reply(s *Session, frame serverFrame) {
	raw, err := json.Marshal(frame)
	if err != nil {
		return
	}
	s.TrySend(raw)
}
