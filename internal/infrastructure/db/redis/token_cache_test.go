package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) (*TokenCache, *fakeServer) {
	t.Helper()
	srv := startFakeServer(t)
	client, err := Connect(context.Background(), Config{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewTokenCache(client, ttl), srv
}

func TestNewTokenCacheDefaultsTTL(t *testing.T) {
	if got := NewTokenCache(nil, 0).ttl; got != defaultTokenTTL {
		t.Fatalf("expected default ttl, got %s", got)
	}
	if got := NewTokenCache(nil, time.Minute).ttl; got != time.Minute {
		t.Fatalf("expected 1m ttl, got %s", got)
	}
}

func TestTokenCacheKey(t *testing.T) {
	if got := NewTokenCache(nil, 0).key("abc"); got != "token:abc" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestConnectWithoutAddrDisablesCache(t *testing.T) {
	client, err := Connect(context.Background(), Config{})
	if err != nil || client != nil {
		t.Fatalf("expected nil client and nil error, got %v %v", client, err)
	}
}

func TestTokenCacheGetMiss(t *testing.T) {
	cache, _ := newTestCache(t, 0)

	id, ok, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || id != 0 {
		t.Fatalf("expected miss, got %d %v", id, ok)
	}
}

func TestTokenCacheSetThenGet(t *testing.T) {
	cache, srv := newTestCache(t, 0)
	ctx := context.Background()

	if err := cache.Set(ctx, "abc", 42); err != nil {
		t.Fatalf("set: %v", err)
	}
	set := srv.lastSet()
	if len(set) != 5 || set[1] != "token:abc" || set[2] != "42" || !strings.EqualFold(set[3], "ex") || set[4] != "600" {
		t.Fatalf("unexpected SET command %v", set)
	}

	id, ok, err := cache.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || id != 42 {
		t.Fatalf("expected hit for 42, got %d %v", id, ok)
	}
}

func TestTokenCacheGetCorruptValue(t *testing.T) {
	cache, srv := newTestCache(t, 0)
	srv.put("token:abc", "not-a-number")

	_, ok, err := cache.Get(context.Background(), "abc")
	if err == nil || !strings.Contains(err.Error(), "token cache decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
	if ok {
		t.Fatalf("corrupt value must not count as a hit")
	}
}
