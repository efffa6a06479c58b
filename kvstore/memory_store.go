// kvstore/memory_store.go

package kvstore

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryStore keeps values in process memory. Nothing survives a restart,
// which makes it useful for tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool

	log logrus.FieldLogger
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(log logrus.FieldLogger) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
		log:  loggerOrDefault(log).WithField("kvstore", "memory"),
	}
}

// Initialize does nothing beyond logging.
func (m *MemoryStore) Initialize(ctx context.Context) error {
	m.log.Debug("MemoryStore initialized")
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

// Ping reports whether the store is still open.
func (m *MemoryStore) Ping(ctx context.Context) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.closed
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
