package config

import (
	"os"
	"strconv"
)

// LoadFromEnv applies environment variable overrides on top of cfg.
// Unparsable values are ignored.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("PROPHASE_POLL_INTERVAL_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.PollIntervalMs = ms
		}
	}

	if v := os.Getenv("PROPHASE_TOPMOST_RETRY_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Overlay.TopmostRetryDelayMs = ms
		}
	}

	if v := os.Getenv("PROPHASE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
