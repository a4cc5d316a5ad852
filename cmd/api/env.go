package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv loads environment variables from .env, or from the file named
// by CALC_ENV_FILE, when present. Existing process environment variables are
// not overridden.
func loadDotEnv() error {
	file := os.Getenv("CALC_ENV_FILE")
	if file == "" {
		file = ".env"
	}

	err := godotenv.Load(file)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", file, err)
}
