package domain

import (
	"strings"
	"time"
)

const MaxMessageSize = 5000

// Message Invariants:
// 1. Immutability: a message is never mutated or deleted once inserted.
// 2. Ordering: the read contract for a thread is CreatedAt ascending with
//    insertion order (Seq) breaking ties.
// 3. Sender must be a participant of the referenced conversation; the
//    application layer checks this before insert.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Body           string
	CreatedAt      time.Time
	Seq            int64
}

func NewMessage(id, conversationID, senderID, body string, now time.Time) (*Message, error) {
	if id == "" || conversationID == "" || senderID == "" {
		return nil, ErrInvalidInput
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrInvalidInput
	}

	if len(body) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	return &Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		CreatedAt:      now,
	}, nil
}
