//go:build prod

package database

import (
	"os"
	"path/filepath"

	"chatterbox/internal/logx"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logx.Warn("failed to get user config dir, using fallback", "error", err.Error())
		return "chatterbox.db"
	}

	appDir := filepath.Join(configDir, "chatterbox")

	if err := os.MkdirAll(appDir, 0755); err != nil {
		logx.Warn("failed to create app config dir, using fallback", "error", err.Error())
		return "chatterbox.db"
	}

	return filepath.Join(appDir, "chatterbox.db")
}

func IsDevelopment() bool {
	return false
}
