package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iskra-app/backend/internal/domain"
)

type SendLikeCommand struct {
	FromUserID string
	ToUserID   string
}

// SendLike records one-directional interest. Repeated likes for the same
// pair are absorbed by the store's unique constraint, so the operation is
// idempotent.
func (s *Service) SendLike(ctx context.Context, cmd SendLikeCommand) error {
	if cmd.ToUserID == "" {
		return domain.ErrInvalidInput
	}
	if cmd.FromUserID == cmd.ToUserID {
		return domain.ErrInvalidInput
	}

	sender, err := s.dir.UserByID(ctx, cmd.FromUserID)
	if err != nil {
		return fmt.Errorf("failed to resolve sender: %w", err)
	}
	target, err := s.dir.UserByID(ctx, cmd.ToUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to resolve target: %w", err)
	}

	if !domain.CanLike(sender.Role, target.Role) {
		return domain.ErrForbidden
	}

	return s.repo.UpsertLike(ctx, &domain.Like{
		FromUserID: cmd.FromUserID,
		ToUserID:   cmd.ToUserID,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *Service) ListLikesReceived(ctx context.Context, userID string) ([]*domain.Like, error) {
	return s.repo.ListLikesReceived(ctx, userID)
}

func (s *Service) ListLikesSent(ctx context.Context, userID string) ([]*domain.Like, error) {
	return s.repo.ListLikesSent(ctx, userID)
}
