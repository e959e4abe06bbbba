// Package cache tests require a running Valkey instance and are skipped
// when one is not reachable.
package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func testClient(t *testing.T) *PageCache {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: valkey not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return NewPageCache(client, time.Minute)
}

func TestRequestKey(t *testing.T) {
	if got := RequestKey("/blog", ""); got != "/blog" {
		t.Errorf("RequestKey: got %q", got)
	}
	if got := RequestKey("/blog", "page=2&category=1"); got != "/blog?page=2&category=1" {
		t.Errorf("RequestKey with query: got %q", got)
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	pc := testClient(t)
	ctx := context.Background()

	key := RequestKey("/blog/test-roundtrip", "page=2")
	pc.Set(ctx, key, []byte("<html>cached</html>"))

	got, ok := pc.Get(ctx, key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != "<html>cached</html>" {
		t.Errorf("cached body: got %q", got)
	}

	pc.InvalidateAll(ctx)
	if _, ok := pc.Get(ctx, key); ok {
		t.Error("expected miss after InvalidateAll")
	}
}

func TestPageCacheMiss(t *testing.T) {
	pc := testClient(t)

	if _, ok := pc.Get(context.Background(), "/blog/never-stored"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestNilPageCacheIsSafe(t *testing.T) {
	var pc *PageCache
	ctx := context.Background()

	pc.Set(ctx, "k", []byte("v"))
	if _, ok := pc.Get(ctx, "k"); ok {
		t.Error("nil cache must always miss")
	}
	pc.InvalidateAll(ctx)
}
