package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from the given files, or from .env
// when none are given. Missing files are ignored and existing process
// environment variables are not overridden.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}
