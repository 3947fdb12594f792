// Package config provides configuration management for pomo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xvierd/pomo-cli/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. POMO_TIMER_DEFAULT_DURATION.
const EnvPrefix = "POMO"

// Config holds all configuration for the pomo application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Stats         StatsConfig        `mapstructure:"stats"`
	Colors        ColorsConfig       `mapstructure:"colors"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Calendar      CalendarConfig     `mapstructure:"calendar"`
	Web           WebConfig          `mapstructure:"web"`
	Telemetry     TelemetryConfig    `mapstructure:"telemetry"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
}

// TimerConfig holds timer engine settings.
type TimerConfig struct {
	DefaultDuration time.Duration `mapstructure:"default_duration"`
	DiscardBelow    time.Duration `mapstructure:"discard_below"`
	TickInterval    time.Duration `mapstructure:"tick_interval"`
}

// StatsConfig holds reporting settings.
type StatsConfig struct {
	WeekStart string `mapstructure:"week_start"`
}

// ColorsConfig holds the task color palette.
type ColorsConfig struct {
	Palette []string `mapstructure:"palette"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// CalendarConfig holds CalDAV sync settings.
type CalendarConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	URL          string        `mapstructure:"url"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	CalendarName string        `mapstructure:"calendar_name"`
	Timeout      time.Duration `mapstructure:"timeout"`
	SyncInterval time.Duration `mapstructure:"sync_interval"`
}

// WebConfig holds the stats data feed settings.
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// TelemetryConfig holds OTLP metrics export settings.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const defaultDataDir = "~/.pomo"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			DefaultDuration: domain.DefaultPlannedDuration,
			DiscardBelow:    5 * time.Second,
			TickInterval:    time.Second,
		},
		Stats: StatsConfig{
			WeekStart: "monday",
		},
		Colors: ColorsConfig{
			Palette: append([]string(nil), domain.DefaultPalette...),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Calendar: CalendarConfig{
			CalendarName: "Pomodoro Sessions",
			Timeout:      30 * time.Second,
			SyncInterval: 5 * time.Minute,
		},
		Web: WebConfig{
			Addr: "127.0.0.1:8080",
		},
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads the configuration from path, creating it with defaults if
// it does not exist. An empty path means the default location.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := SaveTo(path, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", domain.ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration to path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.Set("timer.default_duration", cfg.Timer.DefaultDuration.String())
	v.Set("timer.discard_below", cfg.Timer.DiscardBelow.String())
	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("stats.week_start", cfg.Stats.WeekStart)
	v.Set("colors.palette", cfg.Colors.Palette)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("calendar.enabled", cfg.Calendar.Enabled)
	v.Set("calendar.url", cfg.Calendar.URL)
	v.Set("calendar.username", cfg.Calendar.Username)
	v.Set("calendar.password", cfg.Calendar.Password)
	v.Set("calendar.calendar_name", cfg.Calendar.CalendarName)
	v.Set("calendar.timeout", cfg.Calendar.Timeout.String())
	v.Set("calendar.sync_interval", cfg.Calendar.SyncInterval.String())
	v.Set("web.addr", cfg.Web.Addr)
	v.Set("telemetry.enabled", cfg.Telemetry.Enabled)
	v.Set("telemetry.endpoint", cfg.Telemetry.Endpoint)
	v.Set("telemetry.insecure", cfg.Telemetry.Insecure)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)

	return v.WriteConfig()
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pomo", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "sessions.db")
}

// Validate checks every setting, returning an error wrapping
// domain.ErrInvalidConfig for the first bad one.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Timer.DefaultDuration <= 0 {
		return invalid("timer.default_duration must be positive, got %s", c.Timer.DefaultDuration)
	}
	if c.Timer.DiscardBelow < 0 {
		return invalid("timer.discard_below cannot be negative, got %s", c.Timer.DiscardBelow)
	}
	if c.Timer.TickInterval <= 0 {
		return invalid("timer.tick_interval must be positive, got %s", c.Timer.TickInterval)
	}
	if _, err := domain.ParseWeekday(c.Stats.WeekStart); err != nil {
		return invalid("stats.week_start: %v", err)
	}
	if len(c.Colors.Palette) == 0 {
		return invalid("colors.palette cannot be empty")
	}
	for _, color := range c.Colors.Palette {
		if _, err := domain.NormalizeColor(color); err != nil {
			return invalid("colors.palette: %v", err)
		}
	}
	if c.Calendar.Enabled && strings.TrimSpace(c.Calendar.URL) == "" {
		return invalid("calendar.url is required when calendar sync is enabled")
	}
	if c.Calendar.Timeout <= 0 {
		return invalid("calendar.timeout must be positive, got %s", c.Calendar.Timeout)
	}
	if c.Calendar.SyncInterval <= 0 {
		return invalid("calendar.sync_interval must be positive, got %s", c.Calendar.SyncInterval)
	}
	if strings.TrimSpace(c.Web.Addr) == "" {
		return invalid("web.addr cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// WeekStart returns the configured first day of the week.
func (c *Config) WeekStart() time.Weekday {
	d, err := domain.ParseWeekday(c.Stats.WeekStart)
	if err != nil {
		return time.Monday
	}
	return d
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("timer.default_duration", d.Timer.DefaultDuration.String())
	v.SetDefault("timer.discard_below", d.Timer.DiscardBelow.String())
	v.SetDefault("timer.tick_interval", d.Timer.TickInterval.String())
	v.SetDefault("stats.week_start", d.Stats.WeekStart)
	v.SetDefault("colors.palette", d.Colors.Palette)
	v.SetDefault("notifications.enabled", d.Notifications.Enabled)
	v.SetDefault("notifications.sound", d.Notifications.Sound)
	v.SetDefault("calendar.enabled", d.Calendar.Enabled)
	v.SetDefault("calendar.url", d.Calendar.URL)
	v.SetDefault("calendar.username", d.Calendar.Username)
	v.SetDefault("calendar.password", d.Calendar.Password)
	v.SetDefault("calendar.calendar_name", d.Calendar.CalendarName)
	v.SetDefault("calendar.timeout", d.Calendar.Timeout.String())
	v.SetDefault("calendar.sync_interval", d.Calendar.SyncInterval.String())
	v.SetDefault("web.addr", d.Web.Addr)
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.insecure", d.Telemetry.Insecure)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("log.level", d.Log.Level)
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}
