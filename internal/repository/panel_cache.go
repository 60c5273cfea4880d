package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/vilyx-net/vector/internal/persistence"
)

const panelMessageKey = "vector:ticket_panel:message_id"

// PanelCache remembers the ticket-panel message across restarts so the bot
// can edit it in place instead of purging the panel channel every boot.
// A cache miss simply means the panel gets reposted.
type PanelCache struct {
	redis *persistence.Redis
}

// NewPanelCache instantiates the cache.
func NewPanelCache(r *persistence.Redis) *PanelCache {
	return &PanelCache{redis: r}
}

// MessageID returns the cached panel message id, empty on a miss.
func (c *PanelCache) MessageID(ctx context.Context) (string, error) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return "", nil
	}
	id, err := c.redis.Client.Get(ctx, panelMessageKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// SetMessageID stores the panel message id.
func (c *PanelCache) SetMessageID(ctx context.Context, messageID string) error {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil
	}
	return c.redis.Client.Set(ctx, panelMessageKey, messageID, 0).Err()
}
