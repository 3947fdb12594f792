package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/pomo-cli/internal/domain"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25*time.Minute, cfg.Timer.DefaultDuration)
	assert.Equal(t, 5*time.Second, cfg.Timer.DiscardBelow)
	assert.Equal(t, time.Monday, cfg.WeekStart())
	assert.Equal(t, "Pomodoro Sessions", cfg.Calendar.CalendarName)
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr, "default config file should be written")

	assert.Equal(t, 25*time.Minute, cfg.Timer.DefaultDuration)
	assert.Equal(t, time.Second, cfg.Timer.TickInterval)
	assert.Equal(t, domain.DefaultPalette, cfg.Colors.Palette)
	assert.True(t, filepath.IsAbs(cfg.Storage.DataDir), "~ is expanded")
	assert.Equal(t, "sessions.db", filepath.Base(GetDBPath(cfg)))
}

func TestLoadFrom_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[timer]
default_duration = "50m"
discard_below = "0s"

[stats]
week_start = "sunday"

[colors]
palette = ["#000000", "#FFFFFF"]

[storage]
data_dir = "/tmp/pomo-data"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 50*time.Minute, cfg.Timer.DefaultDuration)
	assert.Equal(t, time.Duration(0), cfg.Timer.DiscardBelow)
	assert.Equal(t, time.Second, cfg.Timer.TickInterval, "missing keys keep defaults")
	assert.Equal(t, time.Sunday, cfg.WeekStart())
	assert.Equal(t, []string{"#000000", "#FFFFFF"}, cfg.Colors.Palette)
	assert.Equal(t, "/tmp/pomo-data", cfg.Storage.DataDir)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("POMO_TIMER_DEFAULT_DURATION", "15m")
	t.Setenv("POMO_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.Timer.DefaultDuration)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad week start", "[stats]\nweek_start = \"someday\"\n"},
		{"bad palette", "[colors]\npalette = [\"red\"]\n"},
		{"zero default", "[timer]\ndefault_duration = \"0s\"\n"},
		{"calendar without url", "[calendar]\nenabled = true\n"},
		{"bad log level", "[log]\nlevel = \"loud\"\n"},
		{"malformed toml", "[timer\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFrom(path)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Timer.DefaultDuration = 45 * time.Minute
	cfg.Calendar.Enabled = true
	cfg.Calendar.URL = "https://dav.example.com/"
	cfg.Web.Addr = "127.0.0.1:9999"
	require.NoError(t, SaveTo(path, cfg))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, loaded.Timer.DefaultDuration)
	assert.True(t, loaded.Calendar.Enabled)
	assert.Equal(t, "https://dav.example.com/", loaded.Calendar.URL)
	assert.Equal(t, "127.0.0.1:9999", loaded.Web.Addr)
}
