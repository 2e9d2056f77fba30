package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/iskra-app/backend/internal/application"
	"github.com/iskra-app/backend/internal/domain"
	"github.com/iskra-app/backend/internal/middleware"
	"github.com/iskra-app/backend/internal/transport"
)

type MessagingHandler struct {
	svc *application.Service
}

func NewMessagingHandler(svc *application.Service) *MessagingHandler {
	return &MessagingHandler{svc: svc}
}

// StartConversation handles first contact: POST /api/conversations.
func (h *MessagingHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		RecipientID string `json:"recipientId"`
		Body        string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	result, err := h.svc.StartConversation(r.Context(), application.StartConversationCommand{
		SenderID:    userID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
	})
	if err != nil {
		transport.DomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"conversationId": result.ConversationID,
		"messageId":      result.Message.ID,
	})
}

// PostMessage handles POST /api/messages.
func (h *MessagingHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		ConversationID string `json:"conversationId"`
		Body           string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid_body", "invalid json")
		return
	}

	msg, err := h.svc.PostMessage(r.Context(), application.PostMessageCommand{
		SenderID:       userID,
		ConversationID: req.ConversationID,
		Body:           req.Body,
	})
	if err != nil {
		transport.DomainError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": messageView(msg),
	})
}

// ListMessages handles GET /api/messages?conversation_id=...&limit=...
func (h *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	convID := r.URL.Query().Get("conversation_id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	msgs, err := h.svc.ListMessages(r.Context(), userID, convID, limit)
	if err != nil {
		transport.DomainError(w, r, err)
		return
	}

	views := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, messageView(m))
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": views})
}

// ListConversations handles GET /api/conversations.
func (h *MessagingHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	convs, err := h.svc.ListConversations(r.Context(), userID)
	if err != nil {
		transport.DomainError(w, r, err)
		return
	}

	views := make([]interface{}, 0, len(convs))
	for _, c := range convs {
		views = append(views, map[string]interface{}{
			"id":                 c.ID,
			"participants":       []string{c.ParticipantA, c.ParticipantB},
			"updatedAt":          c.UpdatedAt.UTC().Format(time.RFC3339Nano),
			"lastMessageAt":      c.LastMessageAt.UTC().Format(time.RFC3339Nano),
			"lastMessageSnippet": c.LastMessageSnippet,
		})
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"conversations": views})
}

func messageView(m *domain.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":             m.ID,
		"conversationId": m.ConversationID,
		"senderId":       m.SenderID,
		"body":           m.Body,
		"createdAt":      m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
