// Package metadata is a small key-value repository over the client's local
// sqlite database. The portal client uses it to persist the session
// credential across restarts.
package metadata

import (
	"context"
)

// Repository is the key-value contract. Get returns (nil, nil) for a missing
// key; Delete and Clear are idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
