package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// TokenStore pins the single live token per principal. Signing in binds a new
// token id, which invalidates every token minted before it; entries expire
// with the token TTL so the store never needs a sweep.
type TokenStore struct {
	client RedisClient
}

func NewTokenStore(client RedisClient) *TokenStore {
	return &TokenStore{client: client}
}

// Bind makes tokenID the only accepted token for the principal.
func (s *TokenStore) Bind(ctx context.Context, principal, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(principal), tokenID, ttl)
}

// Valid reports whether tokenID is the currently bound token.
func (s *TokenStore) Valid(ctx context.Context, principal, tokenID string) (bool, error) {
	current, err := s.client.Get(ctx, tokenKey(principal))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return current == tokenID, nil
}

func tokenKey(principal string) string {
	return fmt.Sprintf("auth_token:%s", principal)
}
