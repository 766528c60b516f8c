package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/tracker/internal/identity/domain"
)

// KeyPrefix namespaces token keys in Redis.
const KeyPrefix = "tracker:token:"

// RedisStore keeps principals as JSON under tracker:token:<digest>.
type RedisStore struct {
	client redis.UniversalClient
}

var (
	_ domain.TokenStore  = (*RedisStore)(nil)
	_ domain.TokenWriter = (*RedisStore)(nil)
)

// NewRedisStore creates a store on client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(token string) string {
	return KeyPrefix + Digest(token)
}

// Lookup implements domain.TokenStore.
func (s *RedisStore) Lookup(ctx context.Context, token string) (domain.Principal, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Principal{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("redis get: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Principal{}, fmt.Errorf("decode principal: %w", err)
	}
	return p, nil
}

// Save implements domain.TokenWriter.
func (s *RedisStore) Save(ctx context.Context, token string, p domain.Principal, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode principal: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Revoke deletes a token.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// ChainStore consults stores in order and returns the first hit.
type ChainStore []domain.TokenStore

// Lookup implements domain.TokenStore.
func (c ChainStore) Lookup(ctx context.Context, token string) (domain.Principal, error) {
	for _, s := range c {
		p, err := s.Lookup(ctx, token)
		if errors.Is(err, domain.ErrTokenNotFound) {
			continue
		}
		return p, err
	}
	return domain.Principal{}, domain.ErrTokenNotFound
}
