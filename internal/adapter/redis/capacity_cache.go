package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	dom "github.com/bookingcontrol/booker-dispatch-svc/internal/domain/dispatch"
	"github.com/bookingcontrol/booker-dispatch-svc/internal/infrastructure/redis"
)

// CapacityCache is a TTL-bounded read-through cache of event capacity
// rows. Only events that exist in the store are cached, so NotFound
// always reflects the database.
type CapacityCache struct {
	client *redis.Client
}

func NewCapacityCache(client *redis.Client) *CapacityCache {
	return &CapacityCache{client: client}
}

func (c *CapacityCache) GetEvent(ctx context.Context, id int64) (*dom.Event, error) {
	val, err := c.client.Get(ctx, eventKey(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, dom.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read capacity cache: %w", err)
	}

	var event dom.Event
	if err := json.Unmarshal([]byte(val), &event); err != nil {
		return nil, fmt.Errorf("failed to decode cached event: %w", err)
	}
	return &event, nil
}

func (c *CapacityCache) PutEvent(ctx context.Context, event *dom.Event, ttl time.Duration) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return c.client.Set(ctx, eventKey(event.ID), data, ttl).Err()
}

func eventKey(id int64) string {
	return fmt.Sprintf("event:%d:capacity", id)
}
