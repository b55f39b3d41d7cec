package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FindUpward walks from dir towards the filesystem root and returns the first
// directory containing name.
func FindUpward(dir, name string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the nearest .env above the working directory. Variables
// already set in the process win. Returns os.ErrNotExist when no file is found.
func LoadEnv() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return LoadEnvFrom(wd)
}

func LoadEnvFrom(dir string) error {
	root, err := FindUpward(dir, ".env")
	if err != nil {
		return err
	}
	return godotenv.Load(filepath.Join(root, ".env"))
}
