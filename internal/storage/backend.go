package storage

import "context"

// Backend is a minimal key-value store. Get returns domain.ErrNotFound
// (possibly wrapped) when the key is absent.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
