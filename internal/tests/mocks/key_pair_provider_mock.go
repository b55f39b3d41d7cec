package mocks

import (
	"context"
	"sync/atomic"

	"chatterbox/internal/services"
)

type KeyPairProviderMock struct {
	GenerateKeyPairFunc func(ctx context.Context) (services.KeyPair, error)
	calls               atomic.Int32
}

func (m *KeyPairProviderMock) GenerateKeyPair(ctx context.Context) (services.KeyPair, error) {
	m.calls.Add(1)
	if m.GenerateKeyPairFunc != nil {
		return m.GenerateKeyPairFunc(ctx)
	}
	return services.KeyPair{
		PublicKey:  []byte("public-key"),
		PrivateKey: []byte("private-key"),
	}, nil
}

// Calls returns how many times GenerateKeyPair ran.
func (m *KeyPairProviderMock) Calls() int {
	return int(m.calls.Load())
}
