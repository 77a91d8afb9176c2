package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb       redis.Cmdable
	namespace string
}

// NewRedisStore stores each key as a plain Redis string with no expiry.
func NewRedisStore(rdb redis.Cmdable, namespace string) Store {
	return &redisStore{rdb: rdb, namespace: namespace}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return nil, false, err
	}

	value, err := s.rdb.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not get key %q from redis: %w", k, err)
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, k, value, 0).Err(); err != nil {
		return fmt.Errorf("could not set key %q in redis: %w", k, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return err
	}

	if err := s.rdb.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("could not delete key %q from redis: %w", k, err)
	}
	return nil
}
