package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "passpay:session:"

// RedisStorage stores each session as one hash so the three keys share a
// lifetime and are replaced in a single transaction.
type RedisStorage struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStorage(client redis.Cmdable) *RedisStorage {
	return &RedisStorage{client: client, prefix: redisKeyPrefix}
}

// NewRedisClient parses a redis:// URL and checks connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *RedisStorage) key(sid string) string {
	return r.prefix + sid
}

func (r *RedisStorage) Load(ctx context.Context, sid string) (*Persisted, error) {
	fields, err := r.client.HGetAll(ctx, r.key(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decode(fields)
}

func (r *RedisStorage) Save(ctx context.Context, sid string, p Persisted, ttl time.Duration) error {
	fields, err := encode(p)
	if err != nil {
		return err
	}
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	key := r.key(sid)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) Clear(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, r.key(sid)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
