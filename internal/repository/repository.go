package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iskra-app/backend/internal/domain"
)

// Repository is the persistence surface the application layer depends on.
// Methods taking a *sql.Tx participate in the caller's transaction when one
// is supplied; a nil tx falls back to the pooled connection.
type Repository interface {
	// Conversations
	InsertConversation(ctx context.Context, tx *sql.Tx, conv *domain.Conversation) (inserted bool, err error)
	GetConversationByKey(ctx context.Context, tx *sql.Tx, participantsKey string) (*domain.Conversation, error)
	GetConversation(ctx context.Context, tx *sql.Tx, convID string) (*domain.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID string) ([]*domain.Conversation, error)
	TouchConversation(ctx context.Context, tx *sql.Tx, convID, snippet string, at time.Time) error

	// Messages
	InsertMessage(ctx context.Context, tx *sql.Tx, msg *domain.Message) error
	FetchMessages(ctx context.Context, convID string, limit int) ([]*domain.Message, error)

	// Likes
	UpsertLike(ctx context.Context, like *domain.Like) error
	ListLikesReceived(ctx context.Context, userID string) ([]*domain.Like, error)
	ListLikesSent(ctx context.Context, userID string) ([]*domain.Like, error)

	// Outbox
	InsertOutbox(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType string, payload []byte) error
}
