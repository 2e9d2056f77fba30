package postgres

import (
	"context"
	"database/sql"

	"github.com/iskra-app/backend/internal/domain"
)

func (r *Repository) InsertMessage(
	ctx context.Context,
	tx *sql.Tx,
	msg *domain.Message,
) error {
	q := r.getter(tx)
	return q.QueryRowContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING seq
	`,
		msg.ID,
		msg.ConversationID,
		msg.SenderID,
		msg.Body,
		msg.CreatedAt,
	).Scan(&msg.Seq)
}

// FetchMessages returns the most recent window of a thread in ascending
// order. The window is selected newest-first and flipped so that a thread
// longer than limit still ends with its latest messages.
func (r *Repository) FetchMessages(
	ctx context.Context,
	convID string,
	limit int,
) ([]*domain.Message, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, conversation_id, sender_id, body, created_at, seq
		FROM (
			SELECT id, conversation_id, sender_id, body, created_at, seq
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, seq DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, seq ASC
	`, convID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.SenderID,
			&msg.Body,
			&msg.CreatedAt,
			&msg.Seq,
		); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}
