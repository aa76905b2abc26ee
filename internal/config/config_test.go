package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prophase-overlay/internal/games"
)

func TestLoadConfig_Default(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	service := &Service{
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	require.NoError(t, service.Save())
	require.NoError(t, service.Load())

	cfg := service.Get()
	assert.Equal(t, 2000, cfg.PollIntervalMs)
	assert.Equal(t, 2, cfg.EnterConfirmations)
	assert.Equal(t, 3, cfg.LeaveConfirmations)
	assert.Equal(t, games.DefaultProfiles(), cfg.Games)
}

func TestNewFromPath_CreatesDefaultFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.json")

	service, err := NewFromPath(configPath)
	require.NoError(t, err)

	_, err = os.Stat(configPath)
	require.NoError(t, err, "config file was not created")
	assert.Equal(t, configPath, service.Path())
	assert.NoError(t, service.Get().Validate())
}

func TestNewFromPath_LoadsExisting(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	data := `{
  "poll_interval_ms": 1000,
  "enter_confirmations": 1,
  "leave_confirmations": 4,
  "games": [{"id": "osu", "processes": ["osu!.exe"]}],
  "overlay": {"topmost_retry_delay_ms": 10}
}`
	require.NoError(t, os.WriteFile(configPath, []byte(data), 0644))

	service, err := NewFromPath(configPath)
	require.NoError(t, err)

	cfg := service.Get()
	assert.Equal(t, 1000, cfg.PollIntervalMs)
	assert.Equal(t, games.Profiles{{ID: "osu", Processes: []string{"osu!.exe"}}}, cfg.Games)
	assert.Equal(t, 10*time.Millisecond, cfg.TopmostRetryDelay())
	assert.Equal(t, "info", cfg.LogLevel, "missing keys keep their defaults")

	tc := cfg.TrackerConfig()
	assert.Equal(t, time.Second, tc.Interval)
	assert.Equal(t, 1, tc.Thresholds.Enter)
	assert.Equal(t, 4, tc.Thresholds.Leave)
}

func TestNewFromPath_RejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"games": []}`), 0644))

	_, err := NewFromPath(configPath)
	assert.Error(t, err)
}

func TestNewFromPath_CustomGamesReplaceDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"games": [{"id": "apex"}]}`), 0644))

	_, err := NewFromPath(configPath)
	require.Error(t, err, "a profile without processes must not inherit a default profile's list")

	require.NoError(t, os.WriteFile(configPath, []byte(`{"games": [{"id": "apex", "processes": ["r5apex.exe"]}]}`), 0644))

	service, err := NewFromPath(configPath)
	require.NoError(t, err)

	cfg := service.Get()
	assert.Equal(t, games.Profiles{{ID: "apex", Processes: []string{"r5apex.exe"}}}, cfg.Games)
	assert.Equal(t, games.None, cfg.Games.Match(games.NewSnapshot("VALORANT.exe")))
}

func TestNewFromPath_MissingGamesKeepDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"poll_interval_ms": 3000}`), 0644))

	service, err := NewFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, 3000, service.Get().PollIntervalMs)
	assert.Equal(t, games.DefaultProfiles(), service.Get().Games)
}

func TestService_LoadReplacesConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	service := &Service{filePath: configPath, config: getDefaultConfig()}
	require.NoError(t, service.Save())

	custom := getDefaultConfig()
	custom.Games = games.Profiles{{ID: "osu", Processes: []string{"osu!.exe"}}}
	service.Set(custom)
	require.Equal(t, custom, service.Get())

	require.NoError(t, service.Load())
	assert.Equal(t, games.DefaultProfiles(), service.Get().Games)
}

func TestNewFromPath_MalformedJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{`), 0644))

	_, err := NewFromPath(configPath)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"interval too short", func(c *Config) { c.PollIntervalMs = 10 }},
		{"interval too long", func(c *Config) { c.PollIntervalMs = 120000 }},
		{"enter zero", func(c *Config) { c.EnterConfirmations = 0 }},
		{"leave too large", func(c *Config) { c.LeaveConfirmations = 11 }},
		{"no games", func(c *Config) { c.Games = nil }},
		{"negative retry delay", func(c *Config) { c.Overlay.TopmostRetryDelayMs = -1 }},
	}

	require.NoError(t, getDefaultConfig().Validate())

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := getDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROPHASE_POLL_INTERVAL_MS", "500")
	t.Setenv("PROPHASE_TOPMOST_RETRY_DELAY_MS", "0")
	t.Setenv("PROPHASE_LOG_LEVEL", "debug")

	cfg := getDefaultConfig()
	LoadFromEnv(cfg)

	assert.Equal(t, 500, cfg.PollIntervalMs)
	assert.Equal(t, 0, cfg.Overlay.TopmostRetryDelayMs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnv_IgnoresGarbage(t *testing.T) {
	t.Setenv("PROPHASE_POLL_INTERVAL_MS", "soon")
	t.Setenv("PROPHASE_TOPMOST_RETRY_DELAY_MS", "-5")

	cfg := getDefaultConfig()
	LoadFromEnv(cfg)

	assert.Equal(t, 2000, cfg.PollIntervalMs)
	assert.Equal(t, 50, cfg.Overlay.TopmostRetryDelayMs)
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := getDefaultConfig()

	assert.Equal(t, 420, cfg.Overlay.Width)
	assert.Equal(t, 660, cfg.Overlay.Height)
	assert.Equal(t, 50*time.Millisecond, cfg.TopmostRetryDelay())
	assert.Equal(t, []games.ID{"valorant", "lol", "tft", "cs2"}, cfg.Games.IDs())
}
