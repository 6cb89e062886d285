package generation

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the generation subsystem.
type Config struct {
	Endpoint    string
	TTSEndpoint string
	TimeoutMs   int
	MaxRetries  int
	CacheTTL    time.Duration
	LogCalls    bool
}

// DefaultConfig returns a Config with sensible defaults. The 30s fetch
// timeout bounds a single content generation call; on expiry the resolution
// pipeline falls back to a locally synthesized template.
func DefaultConfig() Config {
	return Config{
		Endpoint:    "http://localhost:8787",
		TTSEndpoint: "http://localhost:8787",
		TimeoutMs:   30000,
		MaxRetries:  1,
		CacheTTL:    time.Hour,
		LogCalls:    false,
	}
}

// LoadConfig reads generation configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FOCUSROOM_GEN_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("FOCUSROOM_TTS_ENDPOINT"); v != "" {
		cfg.TTSEndpoint = v
	}
	if v := os.Getenv("FOCUSROOM_GEN_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("FOCUSROOM_GEN_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("FOCUSROOM_CACHE_TTL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheTTL = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("FOCUSROOM_GEN_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}

// Timeout returns the effective per-call timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
