package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/warfront/internal/dependencies/clock"
	"github.com/mcoot/warfront/internal/model"
	redisstore "github.com/mcoot/warfront/internal/storage/redis"
)

// RedisStore keeps sessions in Redis; expiry is delegated to key TTLs
type RedisStore struct {
	client *redis.Client
	clock  clock.Clock
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a session store on an existing client
func NewRedisStore(client *redis.Client, clock clock.Clock) *RedisStore {
	return &RedisStore{client: client, clock: clock}
}

func (r *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, redisstore.SessionKey(sess.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save session: %v", model.ErrUnavailable, err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, redisstore.SessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInvalidSession
		}
		return nil, fmt.Errorf("%w: load session: %v", model.ErrUnavailable, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, model.ErrInvalidSession
	}
	if sess.Expired(r.clock.Now()) {
		_ = r.Delete(ctx, token)
		return nil, model.ErrInvalidSession
	}
	return &sess, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, redisstore.SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", model.ErrUnavailable, err)
	}
	return nil
}

// CleanExpired is a no-op; Redis evicts sessions when their TTL runs out
func (r *RedisStore) CleanExpired(ctx context.Context) (int, error) {
	return 0, nil
}
