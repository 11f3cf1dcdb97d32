// Package config provides YAML-based configuration loading for taskrank.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abatilo/taskrank/internal/task"
)

// Config is the root application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// StoreConfig locates the task directory.
type StoreConfig struct {
	// Dir is the task directory. Relative paths resolve against the
	// enclosing git repository root when there is one.
	Dir string `mapstructure:"dir"`
}

// AnalysisConfig tunes the ranking engine.
type AnalysisConfig struct {
	// Today pins the reference date (YYYY-MM-DD). Empty means the system date.
	Today        string `mapstructure:"today"`
	SuggestLimit int    `mapstructure:"suggest_limit"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stderr"},
			Rotation: RotationConfig{
				Filename:   "logs/taskrank.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Server: ServerConfig{
			Addr:            ":8000",
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Store: StoreConfig{
			Dir: ".taskrank",
		},
		Analysis: AnalysisConfig{
			SuggestLimit: 3,
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix TASKRANK and `.`/`-` are replaced with `_`.
// Example: TASKRANK_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TASKRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults so env-only configs work
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("store.dir", cfg.Store.Dir)
	v.SetDefault("analysis.today", cfg.Analysis.Today)
	v.SetDefault("analysis.suggest_limit", cfg.Analysis.SuggestLimit)

	if path == "" {
		if envPath := os.Getenv("TASKRANK_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskrank")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taskrank"))
		}
	}

	// A missing config file is fine; defaults and env still apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TodayOverride returns the pinned reference date, if any.
func (c *Config) TodayOverride() (time.Time, bool) {
	if c.Analysis.Today == "" {
		return time.Time{}, false
	}
	d, err := task.ParseDate(c.Analysis.Today)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stderr"}
	}
	if c.Analysis.Today != "" {
		if _, err := task.ParseDate(c.Analysis.Today); err != nil {
			return fmt.Errorf("invalid analysis.today: %w", err)
		}
	}
	if c.Analysis.SuggestLimit < 1 {
		return fmt.Errorf("invalid analysis.suggest_limit: %d", c.Analysis.SuggestLimit)
	}
	if strings.TrimSpace(c.Store.Dir) == "" {
		c.Store.Dir = Default().Store.Dir
	}
	return nil
}
