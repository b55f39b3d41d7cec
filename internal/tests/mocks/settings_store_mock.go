package mocks

import (
	"context"
	"sync"
)

// SettingsStoreMock records writes and delegates to optional funcs. Without
// funcs it behaves like an in-memory store.
type SettingsStoreMock struct {
	GetItemFunc func(ctx context.Context, key string) ([]byte, bool, error)
	SetItemFunc func(ctx context.Context, key string, value []byte) error

	mu     sync.Mutex
	items  map[string][]byte
	writes [][]byte
}

func (m *SettingsStoreMock) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if m.GetItemFunc != nil {
		return m.GetItemFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *SettingsStoreMock) SetItem(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.writes = append(m.writes, append([]byte(nil), value...))
	m.mu.Unlock()

	if m.SetItemFunc != nil {
		return m.SetItemFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = append([]byte(nil), value...)
	return nil
}

// Seed puts value under key without counting it as a write.
func (m *SettingsStoreMock) Seed(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string][]byte)
	}
	m.items[key] = value
}

// Writes returns every value passed to SetItem, failed writes included.
func (m *SettingsStoreMock) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.writes...)
}

// Item returns the last successfully stored value for key.
func (m *SettingsStoreMock) Item(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}
