// Package kv defines the persistence port used by the application's stores.
// Values are opaque blobs addressed by slash-separated keys such as
// "users" or "slots/<userID>".
package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store persists opaque blobs by key.
type Store interface {
	// Load returns the value for key. ok is false if nothing is stored.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Save replaces the value for key.
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Memory is an in-process Store for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSaves makes every Save and Delete return the error. Tests use it
	// to exercise rollback paths.
	FailSaves error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	delete(m.data, key)
	return nil
}

// Keys returns the stored keys with the given prefix, sorted.
func (m *Memory) Keys(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
