package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"chatterbox/internal/database"
	"chatterbox/internal/repositories"
	"chatterbox/internal/services"
	"chatterbox/internal/tests/mocks"
)

func TestSQLiteSettingsStore_RoundTrip(t *testing.T) {
	db, err := database.Init(database.Config{Path: filepath.Join(t.TempDir(), "store.db")})
	require.NoError(t, err)
	ctx := context.Background()

	store, err := services.NewSQLiteSettingsStore(ctx, repositories.NewKeyValueRepository(db), "chatterbox", "data store for chatterbox")
	require.NoError(t, err)

	_, found, err := store.GetItem(ctx, settingsKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem(ctx, settingsKey, []byte(`{"userId":"u"}`)))
	value, found, err := store.GetItem(ctx, settingsKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"userId":"u"}`), value)
}

func TestSQLiteSettingsStore_UsesNamespace(t *testing.T) {
	var gotNamespace, gotDescription string
	repo := &mocks.KeyValueRepositoryMock{
		EnsureNamespaceFunc: func(ctx context.Context, name, description string) error {
			gotNamespace, gotDescription = name, description
			return nil
		},
		GetFunc: func(ctx context.Context, namespace, key string) ([]byte, bool, error) {
			assert.Equal(t, "chatterbox", namespace)
			assert.Equal(t, settingsKey, key)
			return []byte("blob"), true, nil
		},
	}

	store, err := services.NewSQLiteSettingsStore(context.Background(), repo, "chatterbox", "desc")
	require.NoError(t, err)
	assert.Equal(t, "chatterbox", gotNamespace)
	assert.Equal(t, "desc", gotDescription)

	value, found, err := store.GetItem(context.Background(), settingsKey)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("blob"), value)
}

func TestSQLiteSettingsStore_NamespaceFailure(t *testing.T) {
	repo := &mocks.KeyValueRepositoryMock{
		EnsureNamespaceFunc: func(ctx context.Context, name, description string) error {
			return errors.New("locked")
		},
	}

	_, err := services.NewSQLiteSettingsStore(context.Background(), repo, "chatterbox", "")
	assert.Error(t, err)

	_, err = services.NewSQLiteSettingsStore(context.Background(), repo, "", "")
	assert.Error(t, err)
}

func TestKeyringSettingsStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store, err := services.NewKeyringSettingsStore("chatterbox")
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := store.GetItem(ctx, settingsKey)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem(ctx, settingsKey, []byte("secret-blob")))
	value, found, err := store.GetItem(ctx, settingsKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("secret-blob"), value)
}

func TestKeyringSettingsStore_Validation(t *testing.T) {
	keyring.MockInit()
	_, err := services.NewKeyringSettingsStore("")
	assert.Error(t, err)

	store, err := services.NewKeyringSettingsStore("chatterbox")
	require.NoError(t, err)
	assert.Error(t, store.SetItem(context.Background(), "", []byte("x")))
	assert.Error(t, store.SetItem(context.Background(), settingsKey, nil))
	_, _, err = store.GetItem(context.Background(), "")
	assert.Error(t, err)
}

func TestKeyringSettingsStore_BackendError(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus unavailable"))
	defer keyring.MockInit()

	store, err := services.NewKeyringSettingsStore("chatterbox")
	require.NoError(t, err)

	_, _, err = store.GetItem(context.Background(), settingsKey)
	assert.Error(t, err)
}
