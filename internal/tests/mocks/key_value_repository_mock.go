package mocks

import (
	"context"
)

type KeyValueRepositoryMock struct {
	EnsureNamespaceFunc func(ctx context.Context, name, description string) error
	GetFunc             func(ctx context.Context, namespace, key string) ([]byte, bool, error)
	PutFunc             func(ctx context.Context, namespace, key string, value []byte) error
}

func (m *KeyValueRepositoryMock) EnsureNamespace(ctx context.Context, name, description string) error {
	if m.EnsureNamespaceFunc != nil {
		return m.EnsureNamespaceFunc(ctx, name, description)
	}
	return nil
}

func (m *KeyValueRepositoryMock) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, namespace, key)
	}
	return nil, false, nil
}

func (m *KeyValueRepositoryMock) Put(ctx context.Context, namespace, key string, value []byte) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, namespace, key, value)
	}
	return nil
}
