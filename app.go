package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chatterbox/internal/config"
	"chatterbox/internal/errs"
	"chatterbox/internal/events"
	"chatterbox/internal/logx"
	"chatterbox/internal/models"
	"chatterbox/internal/services"

	"gorm.io/gorm"
)

// App struct
type App struct {
	ctx     context.Context
	cfg     *config.Config
	launch  config.LaunchParams
	db      *gorm.DB
	dbClose func() error

	mu          sync.Mutex
	svc         *services.Services
	busClose    func() error
	unsubscribe func()
	closed      bool
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Config, launch config.LaunchParams, db *gorm.DB) *App {
	app := &App{cfg: cfg, launch: launch, db: db}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			app.dbClose = sqlDB.Close
		}
	}
	return app
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods. Settings are bootstrapped in the
// background; the frontend renders once settings:ready or settings:failed
// arrives.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	events.EnableRuntimeEmitter()

	bus, err := a.openBus(ctx)
	if err != nil {
		// Without a bus there is no handshake; the host layer is skipped.
		logx.Error(err, "failed to open host bus")
	}

	svc, err := services.NewServices(ctx, services.Deps{
		Config:   a.cfg,
		Launch:   a.launch,
		DB:       a.db,
		Bus:      bus,
		OnUpdate: func() { events.Emit(ctx, events.UpdateAvailable, true) },
	})
	if err != nil {
		logx.Error(err, "failed to build services")
		events.Emit(ctx, events.SettingsFailed, failureEvent(err))
		return
	}

	a.mu.Lock()
	a.svc = svc
	a.mu.Unlock()

	go a.bootstrap(ctx, svc.Bootstrapper)
}

// bootstrap emits settings:ready once; settings:changed only follows later
// writes.
func (a *App) bootstrap(ctx context.Context, b *services.SettingsBootstrapper) {
	if err := b.Start(ctx); err != nil {
		events.Emit(ctx, events.SettingsFailed, failureEvent(err))
		return
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.unsubscribe = b.Subscribe(func(s models.UserSettings) {
		events.Emit(ctx, events.SettingsChanged, s)
	})
	a.mu.Unlock()

	settings, err := b.GetUserSettings()
	if err != nil {
		events.Emit(ctx, events.SettingsFailed, failureEvent(err))
		return
	}
	events.Emit(ctx, events.SettingsReady, settings)
}

// openBus picks the websocket bus when a host bus URL is configured and the
// Wails bridge otherwise. Nothing is opened unless the app is embedded or
// asked for host config.
func (a *App) openBus(ctx context.Context) (events.Bus, error) {
	if !a.launch.Embedded && !a.launch.RequestHostConfig {
		return nil, nil
	}
	if a.cfg.HostBusURL == "" {
		return events.NewWailsBus(ctx), nil
	}
	ws, err := events.DialWebsocketBus(ctx, a.cfg.HostBusURL, nil)
	if err != nil {
		return nil, err
	}
	a.busClose = ws.Close
	return ws, nil
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	a.closed = true
	svc := a.svc
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if svc != nil {
		svc.Bootstrapper.Close()
	}
	if a.busClose != nil {
		if err := a.busClose(); err != nil {
			logx.Error(err, "failed to close host bus")
		}
		a.busClose = nil
	}

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			logx.Error(err, "failed to close database")
		} else {
			logx.Info("database closed")
		}
		a.dbClose = nil
	}
}

func (a *App) loaded() (*services.Services, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.svc == nil {
		return nil, fmt.Errorf("settings service not available")
	}
	return a.svc, nil
}

// GetUserSettings returns a snapshot of the current settings
func (a *App) GetUserSettings() (*models.UserSettings, error) {
	svc, err := a.loaded()
	if err != nil {
		return nil, err
	}
	settings, err := svc.Bootstrapper.GetUserSettings()
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateUserSettings persists changes and returns the updated settings
func (a *App) UpdateUserSettings(changes models.PreferencesPatch) (*models.UserSettings, error) {
	svc, err := a.loaded()
	if err != nil {
		return nil, err
	}
	if err := svc.Bootstrapper.UpdateUserSettings(a.ctx, changes); err != nil {
		logx.Error(err, "failed to update user settings")
		return nil, err
	}
	return a.GetUserSettings()
}

// BootstrapState reports where the settings bootstrap is
func (a *App) BootstrapState() string {
	svc, err := a.loaded()
	if err != nil {
		return string(services.StateUninitialized)
	}
	return string(svc.Bootstrapper.State())
}

// IsUpdateAvailable reports whether a newer version was announced
func (a *App) IsUpdateAvailable() bool {
	svc, err := a.loaded()
	if err != nil {
		return false
	}
	return svc.Updates.IsSet()
}

// MarkUpdateAvailable is called by the frontend updater once a new build is
// waiting.
func (a *App) MarkUpdateAvailable() {
	if svc, err := a.loaded(); err == nil {
		svc.Updates.Set()
	}
}

func failureEvent(err error) events.FailureEvent {
	code := errs.CodeOf(err)
	if code == "" {
		code = "unknown"
	}
	var appErr *errs.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	return events.FailureEvent{Code: string(code), Message: msg}
}
