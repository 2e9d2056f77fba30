package outbox

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/kafka"
	"github.com/iskra-app/backend/internal/observability"
)

// Worker drains outbox_events into Kafka so offline consumers (notification
// fan-out, analytics) get a durable feed. The live websocket path does not
// go through here; it is fire-and-forget by design.
type Worker struct {
	DB        *sql.DB
	Producer  *kafka.Producer
	Topic     string
	BatchSize int
	PollDelay time.Duration
}

func (w *Worker) Start(ctx context.Context) {
	log := observability.GetLogger(ctx)
	log.Info("outbox worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopping")
			return
		default:
			if err := w.processBatch(ctx); err != nil {
				log.Error("outbox worker error", zap.Error(err))
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) error {
	tx, err := w.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload
		FROM outbox_events
		WHERE processed_at IS NULL
		ORDER BY id
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`, w.BatchSize)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer rows.Close()

	type event struct {
		id          int64
		aggregateID string
		eventType   string
		payload     []byte
	}

	var events []event
	for rows.Next() {
		var e event
		if err := rows.Scan(&e.id, &e.aggregateID, &e.eventType, &e.payload); err != nil {
			tx.Rollback()
			return err
		}
		events = append(events, e)
	}

	if len(events) == 0 {
		tx.Rollback()
		select {
		case <-ctx.Done():
		case <-time.After(w.PollDelay):
		}
		return nil
	}

	for _, e := range events {
		if err := w.Producer.Publish(ctx, w.Topic, []byte(e.aggregateID), e.payload); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE outbox_events
			SET processed_at = NOW()
			WHERE id = $1
		`, e.id); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
