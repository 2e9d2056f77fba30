package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iskra-app/backend/internal/observability"
)

const relayChannel = "realtime:rooms"

// Relay bridges room broadcasts between process instances over Redis
// pub/sub. Each instance publishes its broadcasts and delivers everything it
// hears from peers to its own local rooms; its own publications are skipped
// by instance id.
type Relay struct {
	client     *redis.Client
	instanceID string
	hub        *Hub
}

type relayEnvelope struct {
	Instance string          `json:"instance"`
	Room     string          `json:"room"`
	Payload  json.RawMessage `json:"payload"`
}

func NewRelay(client *redis.Client, instanceID string, hub *Hub) *Relay {
	return &Relay{client: client, instanceID: instanceID, hub: hub}
}

// Publish is best-effort: a failed relay degrades to local-only delivery and
// is logged, never surfaced.
func (r *Relay) Publish(room string, payload []byte) {
	env := relayEnvelope{
		Instance: r.instanceID,
		Room:     room,
		Payload:  payload,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return
	}

	ctx := context.Background()
	if err := r.client.Publish(ctx, relayChannel, raw).Err(); err != nil {
		observability.GetLogger(ctx).Error("relay: publish failed",
			zap.String("room", room), zap.Error(err))
	}
}

// Subscribe starts the background loop delivering peer broadcasts locally.
// It returns immediately; the loop stops when ctx is canceled.
func (r *Relay) Subscribe(ctx context.Context) {
	pubsub := r.client.Subscribe(ctx, relayChannel)

	go func() {
		log := observability.GetLogger(ctx)
		log.Info("relay: subscribed", zap.String("channel", relayChannel))
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				log.Info("relay: subscription loop stopping: context canceled")
				return
			case msg, ok := <-ch:
				if !ok {
					log.Warn("relay: pubsub channel closed")
					return
				}

				var env relayEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Error("relay: bad envelope", zap.Error(err))
					continue
				}
				if env.Instance == r.instanceID {
					continue
				}
				r.hub.DeliverLocal(env.Room, env.Payload)
			}
		}
	}()
}
