package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/iskra-app/backend/internal/cache"
	"github.com/iskra-app/backend/internal/domain"
)

type Repository struct {
	DB    *sql.DB
	Cache *cache.Cache
}

type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *Repository) getter(tx *sql.Tx) queryable {
	if tx != nil {
		return tx
	}
	return r.DB
}

// InsertConversation attempts to create the row for conv.ParticipantsKey.
// The unique constraint on participants_key is the authority on pair
// uniqueness: when a concurrent insert already won, no row is written and
// inserted is false so the caller can re-read the winner.
func (r *Repository) InsertConversation(
	ctx context.Context,
	tx *sql.Tx,
	conv *domain.Conversation,
) (bool, error) {
	q := r.getter(tx)
	res, err := q.ExecContext(ctx, `
		INSERT INTO conversations (
			id, participant_a, participant_b, participants_key,
			created_at, updated_at, last_message_at, last_message_snippet
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (participants_key) DO NOTHING
	`,
		conv.ID,
		conv.ParticipantA,
		conv.ParticipantB,
		conv.ParticipantsKey,
		conv.CreatedAt,
		conv.UpdatedAt,
		conv.LastMessageAt,
		conv.LastMessageSnippet,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Repository) GetConversationByKey(
	ctx context.Context,
	tx *sql.Tx,
	participantsKey string,
) (*domain.Conversation, error) {
	q := r.getter(tx)
	row := q.QueryRowContext(ctx, `
		SELECT id, participant_a, participant_b, participants_key,
		       created_at, updated_at, last_message_at, last_message_snippet
		FROM conversations
		WHERE participants_key = $1
	`, participantsKey)

	return scanConversation(row)
}

func (r *Repository) GetConversation(
	ctx context.Context,
	tx *sql.Tx,
	convID string,
) (*domain.Conversation, error) {
	if tx == nil && r.Cache != nil {
		conv, err := r.Cache.GetConversation(ctx, convID)
		if err == nil && conv != nil {
			return conv, nil
		}
	}

	q := r.getter(tx)
	row := q.QueryRowContext(ctx, `
		SELECT id, participant_a, participant_b, participants_key,
		       created_at, updated_at, last_message_at, last_message_snippet
		FROM conversations
		WHERE id = $1
	`, convID)

	conv, err := scanConversation(row)
	if err != nil {
		return nil, err
	}

	if tx == nil && r.Cache != nil {
		_ = r.Cache.SetConversation(ctx, conv)
	}

	return conv, nil
}

func (r *Repository) ListConversationsByUser(
	ctx context.Context,
	userID string,
) ([]*domain.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, participant_a, participant_b, participants_key,
		       created_at, updated_at, last_message_at, last_message_snippet
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var lastAt sql.NullTime
		var snippet sql.NullString
		if err := rows.Scan(
			&conv.ID,
			&conv.ParticipantA,
			&conv.ParticipantB,
			&conv.ParticipantsKey,
			&conv.CreatedAt,
			&conv.UpdatedAt,
			&lastAt,
			&snippet,
		); err != nil {
			return nil, err
		}
		if lastAt.Valid {
			conv.LastMessageAt = lastAt.Time
		}
		conv.LastMessageSnippet = snippet.String
		convs = append(convs, &conv)
	}

	return convs, rows.Err()
}

func (r *Repository) TouchConversation(
	ctx context.Context,
	tx *sql.Tx,
	convID, snippet string,
	at time.Time,
) error {
	q := r.getter(tx)
	_, err := q.ExecContext(ctx, `
		UPDATE conversations
		SET updated_at = $2, last_message_at = $2, last_message_snippet = $3
		WHERE id = $1
	`, convID, at, snippet)
	if err != nil {
		return err
	}

	if r.Cache != nil {
		_ = r.Cache.InvalidateConversation(ctx, convID)
	}
	return nil
}

func scanConversation(row *sql.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	var lastAt sql.NullTime
	var snippet sql.NullString

	err := row.Scan(
		&conv.ID,
		&conv.ParticipantA,
		&conv.ParticipantB,
		&conv.ParticipantsKey,
		&conv.CreatedAt,
		&conv.UpdatedAt,
		&lastAt,
		&snippet,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}

	if lastAt.Valid {
		conv.LastMessageAt = lastAt.Time
	}
	conv.LastMessageSnippet = snippet.String

	return &conv, nil
}
