package postgres

import (
	"context"
	"database/sql"
)

func (r *Repository) InsertOutbox(
	ctx context.Context,
	tx *sql.Tx,
	aggregateType, aggregateID, eventType string,
	payload []byte,
) error {
	q := r.getter(tx)
	_, err := q.ExecContext(ctx, `
		INSERT INTO outbox_events (aggregate_type, aggregate_id, event_type, payload)
		VALUES ($1,$2,$3,$4)
	`, aggregateType, aggregateID, eventType, payload)
	return err
}
