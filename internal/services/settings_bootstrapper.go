package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"chatterbox/internal/errs"
	"chatterbox/internal/events"
	"chatterbox/internal/logx"
	"chatterbox/internal/models"
)

type BootstrapState string

const (
	StateUninitialized BootstrapState = "uninitialized"
	StateLoading       BootstrapState = "loading"
	StateReady         BootstrapState = "ready"
	StateFailed        BootstrapState = "failed"
)

const defaultSeedRetryDelay = 250 * time.Millisecond

type BootstrapOptions struct {
	// SettingsKey is the store key holding the blob.
	SettingsKey string
	// Embedded marks a transient session: nothing is persisted and live
	// config overrides from the host are applied.
	Embedded bool
	// RequestHostConfig runs the host handshake during loading.
	RequestHostConfig bool
	// ResetCorruptSettings starts from defaults instead of failing when the
	// stored blob cannot be read.
	ResetCorruptSettings bool
	// SeedRetryDelay is the pause before retrying a failed seed write.
	SeedRetryDelay time.Duration
}

// SettingsBootstrapper owns the settings cell. It loads and merges the
// layers once, then is the only writer: live host overrides and user updates
// both go through it.
type SettingsBootstrapper struct {
	identity   *IdentityService
	store      SettingsStore
	serializer SettingsSerializer
	host       *HostConfigChannel
	bus        events.Bus
	opts       BootstrapOptions

	startOnce sync.Once
	ready     chan struct{}

	// writeMu serializes writers so each merges over the latest value.
	writeMu sync.Mutex

	mu       sync.RWMutex
	state    BootstrapState
	settings models.UserSettings
	err      error
	stopLive func()
	closed   bool

	subsMu sync.RWMutex
	subs   map[string]func(models.UserSettings)
}

// NewSettingsBootstrapper wires the collaborators. host and bus may be nil
// when the app is not embedded.
func NewSettingsBootstrapper(identity *IdentityService, store SettingsStore, serializer SettingsSerializer, host *HostConfigChannel, bus events.Bus, opts BootstrapOptions) *SettingsBootstrapper {
	if opts.SettingsKey == "" {
		opts.SettingsKey = "userSettings"
	}
	if opts.SeedRetryDelay <= 0 {
		opts.SeedRetryDelay = defaultSeedRetryDelay
	}
	return &SettingsBootstrapper{
		identity:   identity,
		store:      store,
		serializer: serializer,
		host:       host,
		bus:        bus,
		opts:       opts,
		ready:      make(chan struct{}),
		state:      StateUninitialized,
		subs:       make(map[string]func(models.UserSettings)),
	}
}

// Start runs the bootstrap once. Later calls wait for the first run and
// return its outcome.
func (b *SettingsBootstrapper) Start(ctx context.Context) error {
	b.startOnce.Do(func() { b.run(ctx) })
	return b.Err()
}

func (b *SettingsBootstrapper) run(ctx context.Context) {
	id, err := b.identity.Ensure(ctx)
	if err != nil {
		b.fail(err)
		return
	}
	b.setState(StateLoading)

	identity := id
	prefs := models.DefaultPreferences()

	blob, found, err := b.store.GetItem(ctx, b.opts.SettingsKey)
	if err != nil {
		b.fail(fmt.Errorf("read stored settings: %w", err))
		return
	}
	if found {
		stored, err := b.serializer.Deserialize(blob)
		switch {
		case err == nil:
			identity = stored.Identity
			prefs = prefs.Apply(stored.Preferences)
		case b.opts.ResetCorruptSettings:
			logx.Error(err, "stored settings are corrupted, starting from defaults", "key", b.opts.SettingsKey)
			found = false
		default:
			b.fail(err)
			return
		}
	}

	if b.opts.RequestHostConfig && b.host != nil {
		patch, err := b.host.Request(ctx)
		if err != nil {
			logx.Warn("continuing without host config", "error", err.Error())
		} else {
			prefs = prefs.Apply(patch)
		}
	}

	settings := models.NewUserSettings(identity, prefs)

	if !found && !b.opts.Embedded {
		b.seed(ctx, settings)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.Lock()
	b.settings = settings
	b.state = StateReady
	b.mu.Unlock()
	close(b.ready)

	logx.Info("settings ready", "user_id", settings.UserID, "embedded", b.opts.Embedded, "first_run", !found)
	b.publish(settings)

	if b.opts.Embedded && b.bus != nil && b.host != nil {
		b.mu.Lock()
		if !b.closed {
			b.stopLive = b.bus.Subscribe(b.applyLiveOverride)
		}
		b.mu.Unlock()
	}
}

// seed persists first-run settings, retrying once. A second failure is
// logged and the session continues with in-memory settings.
func (b *SettingsBootstrapper) seed(ctx context.Context, settings models.UserSettings) {
	blob, err := b.serializer.Serialize(settings)
	if err != nil {
		logx.Error(errs.PersistenceWriteFailed(err), "seed write skipped")
		return
	}

	backoff := retry.WithMaxRetries(1, retry.NewConstant(b.opts.SeedRetryDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := b.store.SetItem(ctx, b.opts.SettingsKey, blob); err != nil {
			logx.Warn("seed write failed", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		logx.Error(errs.PersistenceWriteFailed(err), "continuing with in-memory settings")
	}
}

func (b *SettingsBootstrapper) applyLiveOverride(msg events.HostMessage) {
	if !b.host.Accepts(msg) {
		return
	}
	patch, err := b.host.Decode(msg)
	if err != nil {
		logx.Debug("ignoring malformed config override", "error", err.Error())
		return
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	if b.isClosed() {
		return
	}
	current, err := b.GetUserSettings()
	if err != nil {
		return
	}
	next := current.Merge(patch)
	b.commit(next)
	b.publish(next)
}

// UpdateUserSettings merges changes over the current settings, persists the
// result unless the session is embedded, then publishes it. When the write
// fails nothing is published and the error matches errs.ErrPersistenceWriteFailed.
func (b *SettingsBootstrapper) UpdateUserSettings(ctx context.Context, changes models.PreferencesPatch) error {
	if err := changes.Validate(); err != nil {
		return errs.InvalidArgument(err)
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	current, err := b.GetUserSettings()
	if err != nil {
		return err
	}
	next := current.Merge(changes)

	if !b.opts.Embedded {
		blob, err := b.serializer.Serialize(next)
		if err != nil {
			return errs.PersistenceWriteFailed(err)
		}
		if err := b.store.SetItem(ctx, b.opts.SettingsKey, blob); err != nil {
			return errs.PersistenceWriteFailed(err)
		}
	}

	b.commit(next)
	b.publish(next)
	return nil
}

// GetUserSettings returns a copy of the current settings.
func (b *SettingsBootstrapper) GetUserSettings() (models.UserSettings, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	switch b.state {
	case StateReady:
		return b.settings.Clone(), nil
	case StateFailed:
		return models.UserSettings{}, b.err
	default:
		return models.UserSettings{}, errs.ErrNotReady
	}
}

// Subscribe registers fn for every published settings value. fn runs while
// the writer lock is held and must not call UpdateUserSettings itself.
func (b *SettingsBootstrapper) Subscribe(fn func(models.UserSettings)) func() {
	id := uuid.NewString()
	b.subsMu.Lock()
	b.subs[id] = fn
	b.subsMu.Unlock()

	return func() {
		b.subsMu.Lock()
		delete(b.subs, id)
		b.subsMu.Unlock()
	}
}

// Ready is closed once the bootstrap reaches ready or failed.
func (b *SettingsBootstrapper) Ready() <-chan struct{} {
	return b.ready
}

func (b *SettingsBootstrapper) State() BootstrapState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Err returns the bootstrap failure, if any.
func (b *SettingsBootstrapper) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Close stops listening for live overrides. A bootstrap still loading when
// Close runs never attaches the listener.
func (b *SettingsBootstrapper) Close() {
	b.mu.Lock()
	b.closed = true
	stop := b.stopLive
	b.stopLive = nil
	b.mu.Unlock()
	if stop != nil {
		stop()
	}
}

func (b *SettingsBootstrapper) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func (b *SettingsBootstrapper) setState(s BootstrapState) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

func (b *SettingsBootstrapper) commit(settings models.UserSettings) {
	b.mu.Lock()
	b.settings = settings
	b.mu.Unlock()
}

func (b *SettingsBootstrapper) fail(err error) {
	logx.Error(err, "settings bootstrap failed", "code", string(errs.CodeOf(err)))
	b.mu.Lock()
	b.state = StateFailed
	b.err = err
	b.mu.Unlock()
	close(b.ready)
}

func (b *SettingsBootstrapper) publish(settings models.UserSettings) {
	b.subsMu.RLock()
	subs := make([]func(models.UserSettings), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.subsMu.RUnlock()

	for _, fn := range subs {
		fn(settings.Clone())
	}
}
