package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// UnreadCounts caches the unread notification badge per user.
type UnreadCounts struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewUnreadCounts(rdb *redis.Client, ttl time.Duration) *UnreadCounts {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &UnreadCounts{rdb: rdb, ttl: ttl}
}

func unreadKey(userID uint64) string { return fmt.Sprintf("notif:unread:%d", userID) }

// Get returns the cached count; ok is false on a miss.
func (c *UnreadCounts) Get(ctx context.Context, userID uint64) (int64, bool, error) {
	n, err := c.rdb.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *UnreadCounts) Set(ctx context.Context, userID uint64, n int64) error {
	return c.rdb.Set(ctx, unreadKey(userID), n, c.ttl).Err()
}

// Invalidate drops the cached counts of the given users.
func (c *UnreadCounts) Invalidate(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, unreadKey(id))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
