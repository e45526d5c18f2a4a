// Package kvstore provides the small key/value stores that back session
// state across process restarts.
//
// Three backends are available:
//   - Memory: process-local, used in tests and for ephemeral sessions.
//   - File: a single JSON document on an afero filesystem.
//   - SQLite: a one-table database opened through GORM.
package kvstore

import (
	"errors"
	"sync"
)

// ErrClosed is returned by stores that have been closed.
var ErrClosed = errors.New("kvstore: store is closed")

// Store is a string key/value store whose writes survive a process restart
// (except for Memory, which only lives as long as the process).
type Store interface {
	// Get returns the value stored for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value for key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Memory is an in-memory Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
