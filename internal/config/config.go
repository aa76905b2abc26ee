package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"prophase-overlay/internal/games"
	"prophase-overlay/internal/tracker"
)

// Config holds all application configuration
type Config struct {
	// Detection settings
	PollIntervalMs     int            `json:"poll_interval_ms"`
	EnterConfirmations int            `json:"enter_confirmations"` // Consecutive detections to announce a game
	LeaveConfirmations int            `json:"leave_confirmations"` // Consecutive misses to announce it closed
	Games              games.Profiles `json:"games"`

	// Overlay settings
	Overlay OverlayConfig `json:"overlay"`

	// Logging
	LogLevel string `json:"log_level"` // "trace", "debug", "info", "warning", "error"
}

// OverlayConfig holds overlay window settings
type OverlayConfig struct {
	TopmostRetryDelayMs int `json:"topmost_retry_delay_ms"`
	Width               int `json:"width"`
	Height              int `json:"height"`
}

// Service manages configuration persistence
type Service struct {
	config   *Config
	filePath string
}

// New creates a config service backed by ~/.prophase/config.json
func New() (*Service, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	return NewFromPath(filepath.Join(homeDir, ".prophase", "config.json"))
}

// NewFromPath creates a config service backed by the given file. The file
// is created with default values if it does not exist.
func NewFromPath(configPath string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create config directory")
	}

	service := &Service{
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	// Load existing config if it exists, otherwise create a default config file
	if _, err := os.Stat(configPath); err == nil {
		if err := service.Load(); err != nil {
			return nil, errors.Wrap(err, "failed to load config")
		}
	} else {
		if err := service.Save(); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	LoadFromEnv(service.config)

	if err := service.config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config '%s'", configPath)
	}

	return service, nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	th := tracker.DefaultThresholds()
	return &Config{
		PollIntervalMs:     int(tracker.DefaultInterval / time.Millisecond),
		EnterConfirmations: th.Enter,
		LeaveConfirmations: th.Leave,
		Games:              games.DefaultProfiles(),
		Overlay: OverlayConfig{
			TopmostRetryDelayMs: 50,
			Width:               420,
			Height:              660,
		},
		LogLevel: "info",
	}
}

// Get returns the current configuration
func (s *Service) Get() *Config {
	return s.config
}

// Set updates the configuration
func (s *Service) Set(config *Config) {
	s.config = config
}

// Load loads configuration from file. Keys missing from the file keep
// their default values; a games table present in the file replaces the
// default one as a whole.
func (s *Service) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	cfg := getDefaultConfig()
	cfg.Games = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.Games == nil {
		cfg.Games = games.DefaultProfiles()
	}

	s.Set(cfg)
	return nil
}

// Save saves configuration to file
func (s *Service) Save() error {
	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Path returns the full path to the configuration file
func (s *Service) Path() string {
	return s.filePath
}

// Validate checks Config for validity
func (c *Config) Validate() error {
	if c.PollIntervalMs < 250 || c.PollIntervalMs > 60000 {
		return errors.Errorf("poll_interval_ms must be between 250 and 60000, got %d", c.PollIntervalMs)
	}

	if c.EnterConfirmations < 1 || c.EnterConfirmations > 10 {
		return errors.Errorf("enter_confirmations must be between 1 and 10, got %d", c.EnterConfirmations)
	}

	if c.LeaveConfirmations < 1 || c.LeaveConfirmations > 10 {
		return errors.Errorf("leave_confirmations must be between 1 and 10, got %d", c.LeaveConfirmations)
	}

	if err := c.Games.Validate(); err != nil {
		return errors.Wrap(err, "games")
	}

	if c.Overlay.TopmostRetryDelayMs < 0 || c.Overlay.TopmostRetryDelayMs > 1000 {
		return errors.Errorf("overlay.topmost_retry_delay_ms must be between 0 and 1000, got %d", c.Overlay.TopmostRetryDelayMs)
	}

	return nil
}

// TrackerConfig returns the tracker settings derived from the configuration
func (c *Config) TrackerConfig() tracker.Config {
	return tracker.Config{
		Interval: time.Duration(c.PollIntervalMs) * time.Millisecond,
		Thresholds: tracker.Thresholds{
			Enter: c.EnterConfirmations,
			Leave: c.LeaveConfirmations,
		},
	}
}

// TopmostRetryDelay returns the pause between the two restack requests
func (c *Config) TopmostRetryDelay() time.Duration {
	return time.Duration(c.Overlay.TopmostRetryDelayMs) * time.Millisecond
}
