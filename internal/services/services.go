package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatterbox/internal/config"
	"chatterbox/internal/events"
	"chatterbox/internal/repositories"
)

// Services aggregates the settings bootstrap collaborators built from config.
type Services struct {
	Identity     *IdentityService
	Store        SettingsStore
	Host         *HostConfigChannel
	Bootstrapper *SettingsBootstrapper
	Updates      *UpdateSignal
}

// Deps are the pieces main owns. DB is only needed for the sqlite backend;
// Bus may be nil when the app is not embedded.
type Deps struct {
	Config   *config.Config
	Launch   config.LaunchParams
	DB       *gorm.DB
	Bus      events.Bus
	Keys     KeyPairProvider
	OnUpdate func()
}

// NewServices constructs the service container.
func NewServices(ctx context.Context, deps Deps) (*Services, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	store, err := newSettingsStore(ctx, cfg, deps.DB)
	if err != nil {
		return nil, err
	}

	keys := deps.Keys
	if keys == nil {
		keys = NewEd25519KeyPairProvider()
	}
	identity := NewIdentityService(keys)

	var host *HostConfigChannel
	if deps.Bus != nil {
		host = NewHostConfigChannel(deps.Bus, HostConfigChannelOptions{
			ParentOrigin:  deps.Launch.ParentOrigin,
			Timeout:       cfg.HostConfigTimeout,
			EnforceOrigin: cfg.EnforceHostOrigin,
		})
	}

	bootstrapper := NewSettingsBootstrapper(identity, store, NewJSONSettingsSerializer(), host, deps.Bus, BootstrapOptions{
		SettingsKey:          cfg.SettingsKey,
		Embedded:             deps.Launch.Embedded,
		RequestHostConfig:    deps.Launch.RequestHostConfig,
		ResetCorruptSettings: cfg.ResetCorruptSettings,
	})

	return &Services{
		Identity:     identity,
		Store:        store,
		Host:         host,
		Bootstrapper: bootstrapper,
		Updates:      NewUpdateSignal(deps.OnUpdate),
	}, nil
}

func newSettingsStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (SettingsStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendKeyring:
		return NewKeyringSettingsStore(cfg.StoreName)
	case config.StoreBackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite store needs a database")
		}
		return NewSQLiteSettingsStore(ctx, repositories.NewKeyValueRepository(db), cfg.StoreName, cfg.StoreDescription)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
