// Package config reads service configuration from environment variables.
package config

import (
	"errors"
	"os"
)

// Environment value that enables the Secure attribute on session cookies.
const EnvProduction = "production"

// Config holds everything the process needs at startup.
type Config struct {
	// HTTP
	Port       string
	CORSOrigin string

	// Auth
	JWTSecret string

	// Environment tag: "production" or anything else for dev-like setups.
	Env string
}

// ErrMissingJWTSecret is returned by Validate when no signing secret is
// configured. Signup and login must not proceed without one.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       getEnv("PORT", "3000"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Env:        getEnv("APP_ENV", "development"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings. The signing secret has no default on
// purpose: issuing tokens signed with a guessable secret is worse than
// refusing to start.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// IsProduction reports whether the environment tag is production-like.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv returns the value of key or defaultValue when unset or empty.
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
