package redis

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

func TestCacheSetGetDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "rates:abc", `[{"id":"rate-1"}]`, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "rates:abc")
	if err != nil || val != `[{"id":"rate-1"}]` {
		t.Fatalf("expected cached value, got val=%s err=%v", val, err)
	}

	if err := cache.Delete(ctx, "rates:abc"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "rates:abc"); err != redislib.Nil {
		t.Fatalf("expected miss after delete, got %v", err)
	}
}

func TestCacheExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "rates:xyz", "quote", time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	if _, err := cache.Get(ctx, "rates:xyz"); err != redislib.Nil {
		t.Fatalf("expected expired key, got %v", err)
	}
}
