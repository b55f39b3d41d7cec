package services

import (
	"context"
	"errors"
	"fmt"

	"chatterbox/internal/repositories"
)

// SettingsStore is an async key/value store for serialized settings. A key
// that was never written reports found=false with a nil error.
type SettingsStore interface {
	GetItem(ctx context.Context, key string) (value []byte, found bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
}

// SQLiteSettingsStore keeps blobs in the shared database under one namespace.
type SQLiteSettingsStore struct {
	repo      repositories.KeyValueRepository
	namespace string
}

// NewSQLiteSettingsStore registers the namespace and returns a store bound to it.
func NewSQLiteSettingsStore(ctx context.Context, repo repositories.KeyValueRepository, name, description string) (*SQLiteSettingsStore, error) {
	if name == "" {
		return nil, errors.New("store name is required")
	}
	if err := repo.EnsureNamespace(ctx, name, description); err != nil {
		return nil, fmt.Errorf("register store namespace: %w", err)
	}
	return &SQLiteSettingsStore{repo: repo, namespace: name}, nil
}

func (s *SQLiteSettingsStore) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	return s.repo.Get(ctx, s.namespace, key)
}

func (s *SQLiteSettingsStore) SetItem(ctx context.Context, key string, value []byte) error {
	return s.repo.Put(ctx, s.namespace, key, value)
}
