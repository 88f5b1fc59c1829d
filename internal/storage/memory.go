// Package storage provides the persisted team-name store and the
// key-value backends it can sit on.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/scorekeep/internal/domain"
	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Compile-time interface check.
var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend is an in-memory key-value backend. Safe for concurrent
// access. Values do not survive the process.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
	log    *logger.Logger
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend(log *logger.Logger) *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
		log:    log,
	}
}

// Get returns a copy of the value stored under key.
func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		m.log.Debug("memory backend: key not found: %s", key)
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key. Overwrites if it already exists.
func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("memory backend: set %s (%d bytes)", key, len(value))
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
