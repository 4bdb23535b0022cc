package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis is an in-memory redisClient.
type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	fail   error
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.fail != nil {
		return redis.NewStringResult("", f.fail)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if f.fail != nil {
		return redis.NewStatusResult("", f.fail)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	n := 0
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(int64(n), nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd { return redis.NewStatusResult("PONG", nil) }

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := newRedisCache(fake, "timelane:")

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get(miss) = hit %v err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("chart"), TTLArtifact); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if fake.ttls["timelane:k"] != TTLArtifact {
		t.Errorf("ttl = %v, want %v", fake.ttls["timelane:k"], TTLArtifact)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "chart" {
		t.Errorf("Get = %q %v %v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := fake.data["timelane:k"]; ok {
		t.Error("key still stored after Delete")
	}
	if err := c.Close(); err != nil || !fake.closed {
		t.Errorf("Close = %v closed=%v", err, fake.closed)
	}
}

func TestRedisCacheNegativeTTL(t *testing.T) {
	fake := newFakeRedis()
	c := newRedisCache(fake, "")
	_ = c.Set(context.Background(), "k", []byte("v"), -time.Second)
	if fake.ttls["k"] != 0 {
		t.Errorf("ttl = %v, want 0 (no expiry)", fake.ttls["k"])
	}
}

func TestRedisCacheErrorsAreNetwork(t *testing.T) {
	fake := newFakeRedis()
	fake.fail = errors.New("connection refused")
	c := newRedisCache(fake, "")

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get error = %v, want ErrNetwork", err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), 0); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set error = %v, want ErrNetwork", err)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "not-a-url://", ""); err == nil {
		t.Error("expected error for invalid url")
	}
}
