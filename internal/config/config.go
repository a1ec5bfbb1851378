package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Connection ConnectionConfig `mapstructure:"connection"`
	Views      ViewsConfig      `mapstructure:"views"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Sampler    SamplerConfig    `mapstructure:"sampler"`
	Export     ExportConfig     `mapstructure:"export"`
	UI         UIConfig         `mapstructure:"ui"`
}

type ConnectionConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	SSLMode  string `mapstructure:"sslmode"`
	// Password comes from PGSENTRY_PASSWORD or the OS keyring, never
	// from the config file
}

// ViewConfig is per-view behavior
type ViewConfig struct {
	// OnReload: "clear" drops filters on every refresh, "reapply"
	// keeps them and reapplies against the fresh snapshot
	OnReload    string `mapstructure:"on_reload"`
	WindowHours int    `mapstructure:"window_hours"`
}

type ViewsConfig struct {
	CriticalIssues   ViewConfig `mapstructure:"critical_issues"`
	DailySummary     ViewConfig `mapstructure:"daily_summary"`
	ProcedureHistory ViewConfig `mapstructure:"procedure_history"`
}

type AlertsConfig struct {
	LongQuerySeconds int `mapstructure:"long_query_seconds"`
	IdleInTxSeconds  int `mapstructure:"idle_in_tx_seconds"`
}

type SamplerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	RetentionDays   int    `mapstructure:"retention_days"`
	TopStatements   int    `mapstructure:"top_statements"`
	CachePath       string `mapstructure:"cache_path"`
}

type ExportConfig struct {
	Directory string `mapstructure:"directory"`
	Format    string `mapstructure:"format"`
}

type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	MouseEnabled bool   `mapstructure:"mouse_enabled"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "postgres",
			User:     os.Getenv("USER"),
			SSLMode:  "prefer",
		},
		Views: ViewsConfig{
			CriticalIssues:   ViewConfig{OnReload: "clear", WindowHours: 1},
			DailySummary:     ViewConfig{OnReload: "reapply", WindowHours: 24},
			ProcedureHistory: ViewConfig{OnReload: "reapply", WindowHours: 6},
		},
		Alerts: AlertsConfig{
			LongQuerySeconds: 30,
			IdleInTxSeconds:  60,
		},
		Sampler: SamplerConfig{
			Enabled:         true,
			IntervalSeconds: 60,
			RetentionDays:   7,
			TopStatements:   50,
		},
		Export: ExportConfig{
			Format: "csv",
		},
		UI: UIConfig{
			Theme:        "default",
			MouseEnabled: true,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config paths in priority order
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "pgsentry"))
	}
	v.AddConfigPath(".")

	v.SetDefault("connection.host", "localhost")
	v.SetDefault("connection.port", 5432)
	v.SetDefault("connection.database", "postgres")
	v.SetDefault("connection.user", os.Getenv("USER"))
	v.SetDefault("connection.sslmode", "prefer")
	v.SetDefault("views.critical_issues.on_reload", "clear")
	v.SetDefault("views.critical_issues.window_hours", 1)
	v.SetDefault("views.daily_summary.on_reload", "reapply")
	v.SetDefault("views.daily_summary.window_hours", 24)
	v.SetDefault("views.procedure_history.on_reload", "reapply")
	v.SetDefault("views.procedure_history.window_hours", 6)
	v.SetDefault("alerts.long_query_seconds", 30)
	v.SetDefault("alerts.idle_in_tx_seconds", 60)
	v.SetDefault("sampler.enabled", true)
	v.SetDefault("sampler.interval_seconds", 60)
	v.SetDefault("sampler.retention_days", 7)
	v.SetDefault("sampler.top_statements", 50)
	v.SetDefault("export.directory", "")
	v.SetDefault("export.format", "csv")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.mouse_enabled", true)

	// Missing file is fine, defaults apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pgsentry"), nil
}

// CachePath resolves the sampler cache location, defaulting to the
// config directory
func (c *Config) CachePath() (string, error) {
	if c.Sampler.CachePath != "" {
		return c.Sampler.CachePath, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "statcache.db"), nil
}

// ExportDir resolves the export directory, defaulting to the working
// directory
func (c *Config) ExportDir() string {
	if c.Export.Directory != "" {
		return c.Export.Directory
	}
	return "."
}
