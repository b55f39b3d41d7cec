package main

import (
	"context"
	"io/fs"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"chatterbox/internal/config"
	"chatterbox/internal/events"
	"chatterbox/internal/models"
	"chatterbox/internal/services"
	"chatterbox/internal/tests/mocks"
)

type recordedEvents struct {
	mu    sync.Mutex
	names []string
}

func (r *recordedEvents) emit(_ context.Context, name string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
}

func (r *recordedEvents) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.names {
		if got == name {
			n++
		}
	}
	return n
}

func newTestApp(t *testing.T) (*App, *services.Services, *recordedEvents) {
	t.Helper()
	keyring.MockInit()
	rec := &recordedEvents{}
	events.SetCustomEmitter(rec.emit)
	t.Cleanup(func() { events.SetCustomEmitter(nil) })

	cfg, err := config.LoadFrom(map[string]string{"CHATTERBOX_STORE_BACKEND": "keyring"})
	require.NoError(t, err)
	svc, err := services.NewServices(context.Background(), services.Deps{
		Config: cfg,
		Keys:   &mocks.KeyPairProviderMock{},
	})
	require.NoError(t, err)

	app := NewApp(cfg, config.LaunchParams{}, nil)
	app.ctx = context.Background()
	app.svc = svc
	return app, svc, rec
}

func TestBootstrapEmitsReadyOnce(t *testing.T) {
	app, svc, rec := newTestApp(t)

	app.bootstrap(context.Background(), svc.Bootstrapper)

	assert.Equal(t, 1, rec.count(events.SettingsReady))
	assert.Equal(t, 0, rec.count(events.SettingsChanged))

	name := "renamed"
	_, err := app.UpdateUserSettings(models.PreferencesPatch{CustomUsername: &name})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count(events.SettingsChanged))
}

func TestShutdownBeforeBootstrapSkipsSubscription(t *testing.T) {
	app, svc, rec := newTestApp(t)

	app.shutdown(context.Background())
	app.bootstrap(context.Background(), svc.Bootstrapper)

	assert.Nil(t, app.unsubscribe)
	name := "renamed"
	require.NoError(t, svc.Bootstrapper.UpdateUserSettings(context.Background(), models.PreferencesPatch{CustomUsername: &name}))
	assert.Equal(t, 0, rec.count(events.SettingsChanged))
}

func TestFrontendBridgesHostEvents(t *testing.T) {
	page, err := fs.ReadFile(assets, "frontend/dist/index.html")
	require.NoError(t, err)

	assert.Contains(t, string(page), `"`+events.WailsHostInbound+`"`)
	assert.Contains(t, string(page), `"`+events.WailsHostOutbound+`"`)
	assert.Contains(t, string(page), "postMessage")
}
