package storage

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned by a Memory store that has been told to fail.
var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-process KV. It backs --ephemeral sessions and tests;
// SetFailing makes every call fail the way a full or disabled store does.
type Memory struct {
	mu      sync.Mutex
	items   map[string]string
	failing bool
}

var _ KV = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

func (m *Memory) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", false, ErrUnavailable
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrUnavailable
	}
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrUnavailable
	}
	delete(m.items, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
