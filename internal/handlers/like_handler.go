package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iskra-app/backend/internal/application"
	"github.com/iskra-app/backend/internal/domain"
	"github.com/iskra-app/backend/internal/middleware"
	"github.com/iskra-app/backend/internal/transport"
)

type LikeHandler struct {
	svc *application.Service
}

func NewLikeHandler(svc *application.Service) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// SendLike handles POST /api/likes.
func (h *LikeHandler) SendLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		ToUserID string `json:"toUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	if err := h.svc.SendLike(r.Context(), application.SendLikeCommand{
		FromUserID: userID,
		ToUserID:   req.ToUserID,
	}); err != nil {
		transport.DomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListLikes handles GET /api/likes?direction=received|sent.
func (h *LikeHandler) ListLikes(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var (
		likes []*domain.Like
		err   error
	)
	switch r.URL.Query().Get("direction") {
	case "sent":
		likes, err = h.svc.ListLikesSent(r.Context(), userID)
	default:
		likes, err = h.svc.ListLikesReceived(r.Context(), userID)
	}
	if err != nil {
		transport.DomainError(w, r, err)
		return
	}

	views := make([]interface{}, 0, len(likes))
	for _, l := range likes {
		views = append(views, map[string]interface{}{
			"fromUserId": l.FromUserID,
			"toUserId":   l.ToUserID,
			"createdAt":  l.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"likes": views})
}
