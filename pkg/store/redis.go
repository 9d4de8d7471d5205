package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/proaptus/tanklab/pkg/errors"
	"github.com/proaptus/tanklab/pkg/vessel"
)

const redisKeyPrefix = "tanklab:design:"

// RedisStore is a Redis-backed design store for multi-instance deployments.
// Designs are stored as JSON strings under namespaced keys.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at addr and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to redis at %s", addr)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*vessel.Design, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "get design %s", id)
	}

	var d vessel.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "parse design %s", id)
	}
	return &d, nil
}

func (s *RedisStore) Put(ctx context.Context, d *vessel.Design) (string, error) {
	id, err := prepare(d)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "marshal design")
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, data, 0).Err(); err != nil {
		return "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "set design %s", id)
	}
	return id, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete design %s", id)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(redisKeyPrefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "scan designs")
	}
	return ids, nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	return s.client.Close()
}
