package store

import (
	"context"
	"errors"
	"time"

	"purchaseinbox/internal/platform/store/kv"
)

// newKVAdapter is called by openers.go to wrap an existing *kv.Client
func newKVAdapter(c *kv.Client) KV {
	return &kvAdapter{inner: c}
}

type kvAdapter struct {
	inner *kv.Client
}

var _ KV = (*kvAdapter)(nil)

func (a *kvAdapter) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return a.inner.Get(ctx, key)
}

func (a *kvAdapter) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return a.inner.Set(ctx, key, val, ttl)
}

func (a *kvAdapter) Close() error { return a.inner.Close() }

// Ping verifies redis connectivity
func (a *kvAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil kv adapter")
	}
	return a.inner.Ping(ctx)
}
