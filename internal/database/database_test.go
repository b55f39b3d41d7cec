package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterbox/internal/models"
)

func TestInitMigratesKeyValueTables(t *testing.T) {
	db, err := Init(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.Namespace{}))
	assert.True(t, db.Migrator().HasTable(&models.KeyValue{}))
}
