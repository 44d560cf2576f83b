// Package config resolves the service's runtime configuration from
// environment variables, prefixed FUZZYTAXO_ (§6 Configuration constants).
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds every tunable named in §6, plus HTTP bind address.
type Config struct {
	AutocompletePoolMax int `envconfig:"AUTOCOMPLETE_POOL_MAX" default:"10"`
	AutocompletePoolMin int `envconfig:"AUTOCOMPLETE_POOL_MIN" default:"2"`

	GPPoolMax int `envconfig:"GP_POOL_MAX" default:"10"`
	GPPoolMin int `envconfig:"GP_POOL_MIN" default:"2"`

	SessionTTLSeconds  int `envconfig:"SESSION_TTL_SECONDS" default:"10"`
	EngineGraceSeconds int `envconfig:"ENGINE_GRACE_SECONDS" default:"2"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:"0.0.0.0:3000"`

	// AcquireTimeoutMS bounds how long a handler waits on a pool before the
	// request fails with PoolExhaustion (§7); 0 disables the deadline and
	// the handler suspends indefinitely, matching the original prototype.
	AcquireTimeoutMS int `envconfig:"ACQUIRE_TIMEOUT_MS" default:"0"`
}

// SessionTTL is the inactivity expiry of a session (§6).
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// EngineTTL is the lease lifetime: session_ttl + grace (§4.7.1's
// invariant — the worker must outlive the cookie that references it).
func (c *Config) EngineTTL() time.Duration {
	return c.SessionTTL() + time.Duration(c.EngineGraceSeconds)*time.Second
}

// Validate enforces the constraints §4.3 and §4.7.1 depend on.
func (c *Config) Validate() error {
	if c.AutocompletePoolMax < 1 {
		return fmt.Errorf("AUTOCOMPLETE_POOL_MAX must be >= 1, got %d", c.AutocompletePoolMax)
	}
	if c.AutocompletePoolMin < 0 {
		return fmt.Errorf("AUTOCOMPLETE_POOL_MIN must be >= 0, got %d", c.AutocompletePoolMin)
	}
	if c.AutocompletePoolMin > c.AutocompletePoolMax {
		return fmt.Errorf("AUTOCOMPLETE_POOL_MIN (%d) exceeds AUTOCOMPLETE_POOL_MAX (%d)", c.AutocompletePoolMin, c.AutocompletePoolMax)
	}
	if c.GPPoolMax < 1 {
		return fmt.Errorf("GP_POOL_MAX must be >= 1, got %d", c.GPPoolMax)
	}
	if c.GPPoolMin < 0 {
		return fmt.Errorf("GP_POOL_MIN must be >= 0, got %d", c.GPPoolMin)
	}
	if c.GPPoolMin > c.GPPoolMax {
		return fmt.Errorf("GP_POOL_MIN (%d) exceeds GP_POOL_MAX (%d)", c.GPPoolMin, c.GPPoolMax)
	}
	if c.EngineGraceSeconds < 1 {
		return fmt.Errorf("ENGINE_GRACE_SECONDS must be >= 1, got %d", c.EngineGraceSeconds)
	}
	return nil
}

// New parses environment variables prefixed FUZZYTAXO_, e.g.
// FUZZYTAXO_AUTOCOMPLETE_POOL_MAX.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("FUZZYTAXO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("autocomplete_pool_max", cfg.AutocompletePoolMax).
		Int("autocomplete_pool_min", cfg.AutocompletePoolMin).
		Int("gp_pool_max", cfg.GPPoolMax).
		Int("gp_pool_min", cfg.GPPoolMin).
		Int("session_ttl_seconds", cfg.SessionTTLSeconds).
		Int("engine_grace_seconds", cfg.EngineGraceSeconds).
		Str("http_addr", cfg.HTTPAddr).
		Msg("configuration loaded")

	return &cfg, nil
}

// NewForTesting returns a Config with small pools and short TTLs, handy
// for tests that exercise reaping without waiting on production defaults.
func NewForTesting() *Config {
	return &Config{
		AutocompletePoolMax: 4,
		AutocompletePoolMin: 1,
		GPPoolMax:           4,
		GPPoolMin:           1,
		SessionTTLSeconds:   1,
		EngineGraceSeconds:  1,
		HTTPAddr:            "127.0.0.1:0",
	}
}
