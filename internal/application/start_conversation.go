package application

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/domain"
)

type StartConversationCommand struct {
	SenderID    string
	RecipientID string
	Body        string
}

type StartConversationResult struct {
	ConversationID string
	Message        *domain.Message
}

// StartConversation opens (or reuses) the single conversation for the
// sender/recipient pair and appends the first message of this send as one
// unit of work.
//
// Concurrency contract: two racing first-contact calls for the same pair must
// converge on one conversation row. The store's unique constraint on
// participants_key decides the winner; the loser re-reads the winning row and
// proceeds as if it had found it originally. The race is never surfaced to
// the caller.
func (s *Service) StartConversation(
	ctx context.Context,
	cmd StartConversationCommand,
) (*StartConversationResult, error) {

	body := strings.TrimSpace(cmd.Body)
	if body == "" || cmd.RecipientID == "" {
		return nil, domain.ErrInvalidInput
	}
	if cmd.SenderID == cmd.RecipientID {
		return nil, domain.ErrInvalidInput
	}

	sender, err := s.dir.UserByID(ctx, cmd.SenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}
	recipient, err := s.dir.UserByID(ctx, cmd.RecipientID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve recipient: %w", err)
	}

	if !domain.CanMessage(sender.Role, recipient.Role) {
		return nil, domain.ErrForbidden
	}

	key := domain.ParticipantsKey(cmd.SenderID, cmd.RecipientID)
	now := time.Now().UTC()

	var result StartConversationResult

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		conv, created, err := s.findOrCreateConversation(ctx, tx, key, cmd.SenderID, cmd.RecipientID, body, now)
		if err != nil {
			return err
		}

		msg, err := domain.NewMessage(uuid.NewString(), conv.ID, cmd.SenderID, body, now)
		if err != nil {
			return err
		}
		if err := s.repo.InsertMessage(ctx, tx, msg); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}

		if !created {
			if err := s.repo.TouchConversation(ctx, tx, conv.ID, domain.Snippet(body), now); err != nil {
				return fmt.Errorf("failed to update conversation summary: %w", err)
			}
		}

		if err := s.insertMessageOutbox(ctx, tx, msg); err != nil {
			return err
		}

		result.ConversationID = conv.ID
		result.Message = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("conversation message sent",
		zap.String("conversation_id", result.ConversationID),
		zap.String("sender_id", cmd.SenderID),
	)

	s.publish(result.Message)

	return &result, nil
}

// findOrCreateConversation resolves the conversation for key inside the
// current transaction. created reports whether this call inserted the row
// (with summary fields already set from the first message).
func (s *Service) findOrCreateConversation(
	ctx context.Context,
	tx *sql.Tx,
	key, senderID, recipientID, body string,
	now time.Time,
) (*domain.Conversation, bool, error) {

	conv, err := s.repo.GetConversationByKey(ctx, tx, key)
	if err == nil {
		return conv, false, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, false, fmt.Errorf("failed to look up conversation: %w", err)
	}

	candidate := &domain.Conversation{
		ID:                 uuid.NewString(),
		ParticipantA:       senderID,
		ParticipantB:       recipientID,
		ParticipantsKey:    key,
		CreatedAt:          now,
		UpdatedAt:          now,
		LastMessageAt:      now,
		LastMessageSnippet: domain.Snippet(body),
	}

	inserted, err := s.repo.InsertConversation(ctx, tx, candidate)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert conversation: %w", err)
	}
	if inserted {
		return candidate, true, nil
	}

	// Lost the uniqueness race: a concurrent first contact created the row
	// between our lookup and insert. Recover by reading the winner.
	conv, err = s.repo.GetConversationByKey(ctx, tx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to re-read conversation after conflict: %w", err)
	}

	s.log.Info("conversation creation race recovered",
		zap.String("participants_key", key),
		zap.String("conversation_id", conv.ID),
	)

	return conv, false, nil
}

func (s *Service) insertMessageOutbox(ctx context.Context, tx *sql.Tx, msg *domain.Message) error {
	payload, err := json.Marshal(NewMessageEvent(msg))
	if err != nil {
		return fmt.Errorf("failed to marshal outbox payload: %w", err)
	}
	if err := s.repo.InsertOutbox(
		ctx, tx,
		outboxAggregateMessage,
		msg.ConversationID,
		outboxEventMessageSent,
		payload,
	); err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}
