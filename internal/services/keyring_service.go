package services

import (
	"context"
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringSettingsStore keeps blobs in the OS credential store. The service
// name is the store namespace and each key is an account entry.
type KeyringSettingsStore struct {
	serviceName string
}

func NewKeyringSettingsStore(serviceName string) (*KeyringSettingsStore, error) {
	if serviceName == "" {
		return nil, errors.New("service name is required")
	}
	return &KeyringSettingsStore{serviceName: serviceName}, nil
}

func (s *KeyringSettingsStore) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("key is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	value, err := keyring.Get(s.serviceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *KeyringSettingsStore) SetItem(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("key is required")
	}
	if len(value) == 0 {
		return errors.New("value is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return keyring.Set(s.serviceName, key, string(value))
}
