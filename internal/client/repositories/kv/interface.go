package kv

import "context"

// Store describes durable string storage. A missing key is not an error:
// Get reports it with ok=false, Delete treats it as a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	// DeleteMany removes all given keys; implementations apply it atomically
	// where the backend allows.
	DeleteMany(ctx context.Context, keys ...string) error
	// Keys lists keys starting with prefix in ascending order. An empty prefix
	// lists everything.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Clear(ctx context.Context) error
}
