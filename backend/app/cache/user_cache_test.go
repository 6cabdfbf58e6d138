package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"user-grid/network"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*UserListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewUserListCache(rdb, "test:", time.Minute), mr
}

func TestUserListCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx); err != nil || ok {
		t.Fatalf("empty cache should miss, got ok=%v err=%v", ok, err)
	}

	users := []network.User{{ID: 1, Name: "Ann", Role: network.RoleUser}}
	if stored, err := c.Set(ctx, 0, users); err != nil || !stored {
		t.Fatalf("Set: stored=%v err=%v", stored, err)
	}
	if !mr.Exists("test:users:all") {
		t.Fatalf("expected prefixed key in redis")
	}
	got, ok, err := c.Get(ctx)
	if err != nil || !ok || len(got) != 1 || got[0].Name != "Ann" {
		t.Fatalf("Get: %+v ok=%v err=%v", got, ok, err)
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("invalidated cache should miss")
	}
}

func TestUserListCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	if _, err := c.Set(ctx, 0, []network.User{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx); ok {
		t.Fatalf("entry should expire after the ttl")
	}
}

func TestSetDroppedAfterInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	if err != nil || gen != 0 {
		t.Fatalf("Generation: %d err=%v", gen, err)
	}
	// a write lands after the reader took its generation
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	stored, err := c.Set(ctx, gen, []network.User{{ID: 1, Name: "Old"}})
	if err != nil || stored {
		t.Fatalf("outdated list must not be stored: stored=%v err=%v", stored, err)
	}
	if mr.Exists("test:users:all") {
		t.Fatalf("no list expected in redis")
	}

	gen, _ = c.Generation(ctx)
	if gen != 1 {
		t.Fatalf("generation %d, want 1", gen)
	}
	if stored, err := c.Set(ctx, gen, []network.User{}); err != nil || !stored {
		t.Fatalf("current generation should store: stored=%v err=%v", stored, err)
	}
}

func TestDisabledCache(t *testing.T) {
	c := NewUserListCache(nil, "", time.Minute)
	if c.Enabled() {
		t.Fatalf("nil client must disable the cache")
	}
	if _, _, err := c.Get(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Fatalf("want ErrCacheNotAvailable, got %v", err)
	}
	rdb, err := Connect(context.Background(), "", "", 0)
	if rdb != nil || err != nil {
		t.Fatalf("empty addr should yield no client and no error")
	}
}
