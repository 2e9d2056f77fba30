package application

import (
	"context"
	"fmt"

	"github.com/iskra-app/backend/internal/domain"
)

// MaxListWindow bounds the historical fetch for a thread. Older history is
// out of reach by design; there is no pagination cursor.
const MaxListWindow = 200

// ListMessages returns the recent window of a thread ascending by creation
// time, insertion order breaking ties.
func (s *Service) ListMessages(
	ctx context.Context,
	requesterID, conversationID string,
	limit int,
) ([]*domain.Message, error) {

	if conversationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > MaxListWindow {
		limit = MaxListWindow
	}

	conv, err := s.repo.GetConversation(ctx, nil, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(requesterID) {
		return nil, domain.ErrNotParticipant
	}

	msgs, err := s.repo.FetchMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return msgs, nil
}

// ListConversations returns the requester's inbox, most recently active
// first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.repo.ListConversationsByUser(ctx, userID)
}

// Authorize reports whether userID may attach to conversationID's live room.
// Room membership follows the same participant rule as reads; a connection
// that merely knows a conversation id must not be able to listen in.
func (s *Service) Authorize(ctx context.Context, userID, conversationID string) error {
	conv, err := s.repo.GetConversation(ctx, nil, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return domain.ErrNotParticipant
	}
	return nil
}
