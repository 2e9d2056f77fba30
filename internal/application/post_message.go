package application

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/domain"
)

type PostMessageCommand struct {
	SenderID       string
	ConversationID string
	Body           string
}

// PostMessage appends a message to an existing conversation. Unlike
// StartConversation there is no pair-uniqueness concern here: the
// conversation is already fixed and the append is a plain insert.
func (s *Service) PostMessage(
	ctx context.Context,
	cmd PostMessageCommand,
) (*domain.Message, error) {

	body := strings.TrimSpace(cmd.Body)
	if body == "" || cmd.ConversationID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var result *domain.Message

	err := s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		conv, err := s.repo.GetConversation(ctx, tx, cmd.ConversationID)
		if err != nil {
			return err
		}

		if !conv.HasParticipant(cmd.SenderID) {
			return domain.ErrNotParticipant
		}

		msg, err := domain.NewMessage(uuid.NewString(), conv.ID, cmd.SenderID, body, now)
		if err != nil {
			return err
		}
		if err := s.repo.InsertMessage(ctx, tx, msg); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}

		if err := s.repo.TouchConversation(ctx, tx, conv.ID, domain.Snippet(body), now); err != nil {
			return fmt.Errorf("failed to update conversation summary: %w", err)
		}

		if err := s.insertMessageOutbox(ctx, tx, msg); err != nil {
			return err
		}

		result = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("message posted",
		zap.String("conversation_id", cmd.ConversationID),
		zap.String("message_id", result.ID),
	)

	s.publish(result)

	return result, nil
}
