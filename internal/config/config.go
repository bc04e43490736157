package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config carries everything the client core needs from the environment.
// It is built once at the composition root and passed down explicitly;
// nothing in the core reads the environment on its own.
type Config struct {
	// APIBaseURL is the wallet API origin, without a trailing slash.
	APIBaseURL string
	// RequestTimeout bounds every gateway request.
	RequestTimeout time.Duration
	// Env is "development" or "production". Replaces the old ambient
	// build-mode flag.
	Env string
	// CredentialsPath is where the encrypted credential token lives.
	CredentialsPath string
}

func Load() (*Config, error) {
	baseURL := os.Getenv("AIOWALLET_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("AIOWALLET_TIMEOUT_MS"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("AIOWALLET_TIMEOUT_MS must be a positive integer, got %q", raw)
		}
		timeout = time.Duration(ms) * time.Millisecond
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	credPath := os.Getenv("AIOWALLET_CREDENTIALS")
	if credPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir for credentials path: %w", err)
		}
		credPath = filepath.Join(home, ".aiowallet", "credentials")
	}

	return &Config{
		APIBaseURL:      baseURL,
		RequestTimeout:  timeout,
		Env:             env,
		CredentialsPath: credPath,
	}, nil
}

// IsDev reports whether the client runs against a development backend.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
