package postgres

import (
	"context"

	"github.com/iskra-app/backend/internal/domain"
)

func (r *Repository) UpsertLike(ctx context.Context, like *domain.Like) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO likes (from_user_id, to_user_id, created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (from_user_id, to_user_id) DO NOTHING
	`, like.FromUserID, like.ToUserID, like.CreatedAt)
	return err
}

func (r *Repository) ListLikesReceived(ctx context.Context, userID string) ([]*domain.Like, error) {
	return r.queryLikes(ctx, `
		SELECT from_user_id, to_user_id, created_at
		FROM likes
		WHERE to_user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *Repository) ListLikesSent(ctx context.Context, userID string) ([]*domain.Like, error) {
	return r.queryLikes(ctx, `
		SELECT from_user_id, to_user_id, created_at
		FROM likes
		WHERE from_user_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (r *Repository) queryLikes(ctx context.Context, query, userID string) ([]*domain.Like, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []*domain.Like
	for rows.Next() {
		var like domain.Like
		if err := rows.Scan(&like.FromUserID, &like.ToUserID, &like.CreatedAt); err != nil {
			return nil, err
		}
		likes = append(likes, &like)
	}

	return likes, rows.Err()
}
