package application

import (
	"encoding/json"
	"time"

	"github.com/iskra-app/backend/internal/domain"
	"github.com/iskra-app/backend/internal/observability"
	"go.uber.org/zap"
)

const (
	EventMessageNew = "message:new"

	outboxAggregateMessage = "message"
	outboxEventMessageSent = "MESSAGE_SENT"
)

type MessagePayload struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Body           string `json:"body"`
	CreatedAt      string `json:"createdAt"`
}

type MessageEvent struct {
	Type    string         `json:"type"`
	Message MessagePayload `json:"message"`
}

func NewMessageEvent(msg *domain.Message) MessageEvent {
	return MessageEvent{
		Type: EventMessageNew,
		Message: MessagePayload{
			ID:             msg.ID,
			ConversationID: msg.ConversationID,
			SenderID:       msg.SenderID,
			Body:           msg.Body,
			CreatedAt:      msg.CreatedAt.UTC().Format(time.RFC3339Nano),
		},
	}
}

// publish pushes the new-message event to the conversation's room. Failures
// degrade to "message appears after refresh": persistence is the source of
// truth and the channel is advisory only.
func (s *Service) publish(msg *domain.Message) {
	payload, err := json.Marshal(NewMessageEvent(msg))
	if err != nil {
		s.log.Error("event marshal failed", zap.String("message_id", msg.ID), zap.Error(err))
		return
	}
	s.bcast.Broadcast(msg.ConversationID, payload)
	observability.MessagesSentTotal.WithLabelValues("iskra-backend").Inc()
}
