package cooldown

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	dErrors "fraudguard/pkg/domain-errors"
)

const lifetimeKeyPrefix = "fraudguard:lifetime:"

// RedisLifetimeCounter persists lifetime counts in Redis. Keys carry no TTL:
// the counter survives restarts and is deliberately not resettable through
// any application operation.
type RedisLifetimeCounter struct {
	client redis.Cmdable
	action string
}

// NewRedisLifetimeCounter scopes the counter to an action name, so different
// side effects keep independent ceilings.
func NewRedisLifetimeCounter(client redis.Cmdable, action string) *RedisLifetimeCounter {
	return &RedisLifetimeCounter{client: client, action: action}
}

func (c *RedisLifetimeCounter) key(visitorID string) string {
	return fmt.Sprintf("%s%s:%s", lifetimeKeyPrefix, c.action, visitorID)
}

func (c *RedisLifetimeCounter) Increment(ctx context.Context, visitorID string) (int64, error) {
	count, err := c.client.Incr(ctx, c.key(visitorID)).Result()
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeStorage, "failed to increment lifetime counter")
	}
	return count, nil
}

func (c *RedisLifetimeCounter) Count(ctx context.Context, visitorID string) (int64, error) {
	count, err := c.client.Get(ctx, c.key(visitorID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, dErrors.Wrap(err, dErrors.CodeStorage, "failed to read lifetime counter")
	}
	return count, nil
}
