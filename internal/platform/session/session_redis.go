package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// CurrentUserKey is the key suffix holding the signed-in user id.
const CurrentUserKey = "current_user"

// RedisStore implements Store using Redis.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

// Compile-time check to ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new RedisStore. Keys are written as "<prefix>:current_user".
func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// key returns the Redis key for the current user id.
func (r *RedisStore) key() string {
	return fmt.Sprintf("%s:%s", r.prefix, CurrentUserKey)
}

// Load retrieves the persisted user id. An unreadable value is treated as no session.
func (r *RedisStore) Load(ctx context.Context) (*int64, error) {
	raw, err := r.client.Get(ctx, r.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, nil
	}
	return &id, nil
}

// Save persists the user id without expiry.
func (r *RedisStore) Save(ctx context.Context, id int64) error {
	if err := r.client.Set(ctx, r.key(), strconv.FormatInt(id, 10), 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the persisted user id.
func (r *RedisStore) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key()).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
