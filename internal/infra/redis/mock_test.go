//go:build !integration

package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// fakeClient is an in-memory RedisClient for unit tests. Expirations are
// tracked but only enforced on Get.
type fakeClient struct {
	mu      sync.Mutex
	data    map[string]string
	counts  map[string]int64
	expires map[string]time.Time
}

var _ RedisClient = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		data:    make(map[string]string),
		counts:  make(map[string]int64),
		expires: make(map[string]time.Time),
	}
}

func (c *fakeClient) Ping(ctx context.Context) error { return nil }

func (c *fakeClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	if expiration > 0 {
		c.expires[key] = time.Now().Add(expiration)
	}
	return nil
}

func (c *fakeClient) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if exp, ok := c.expires[key]; ok && time.Now().After(exp) {
		delete(c.data, key)
		delete(c.expires, key)
	}
	v, ok := c.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (c *fakeClient) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expires[key] = time.Now().Add(expiration)
	return nil
}

func (c *fakeClient) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		delete(c.counts, k)
		delete(c.expires, k)
	}
	return nil
}

func (c *fakeClient) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	if !ok {
		_, ok = c.counts[key]
	}
	return ok, nil
}

func (c *fakeClient) FlushDB(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]string)
	c.counts = make(map[string]int64)
	c.expires = make(map[string]time.Time)
	return nil
}

func (c *fakeClient) Close() error { return nil }
