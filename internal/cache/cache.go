package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iskra-app/backend/internal/domain"
)

const conversationTTL = 5 * time.Minute

type Cache struct {
	Client *redis.Client
}

func New(addr string) *Cache {
	return &Cache{
		Client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
	}
}

func (c *Cache) key(convID string) string {
	return "conv:" + convID
}

func (c *Cache) GetConversation(ctx context.Context, convID string) (*domain.Conversation, error) {
	raw, err := c.Client.Get(ctx, c.key(convID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var conv domain.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (c *Cache) SetConversation(ctx context.Context, conv *domain.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.key(conv.ID), raw, conversationTTL).Err()
}

// InvalidateConversation drops the cached row after summary fields changed.
func (c *Cache) InvalidateConversation(ctx context.Context, convID string) error {
	return c.Client.Del(ctx, c.key(convID)).Err()
}
