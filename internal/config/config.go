package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API    APIConfig
	UI     UIConfig
	Log    LogConfig
	Server ServerConfig
}

// APIConfig points the terminal client at a character provider.
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartRoute      string `mapstructure:"start_route"`
	AbortSuperseded bool   `mapstructure:"abort_superseded"`
	ProfileStyle    string `mapstructure:"profile_style"`
}

// LogConfig controls the zap logger. An empty Path logs to stderr.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// ServerConfig holds settings for the bundled provider.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	DataPath     string `mapstructure:"data_path"`
	DatabasePath string `mapstructure:"database_path"`
	Watch        bool   `mapstructure:"watch"`
}

// Load reads configuration from file and env. Env var overrides use prefix STARFOLK_.
// path overrides STARFOLK_CONFIG when non-empty.
func Load(path string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("api.base_url", "http://localhost:4000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.rate_per_second", 10.0)
	v.SetDefault("api.burst", 5)
	v.SetDefault("ui.start_route", "#/")
	v.SetDefault("ui.abort_superseded", false)
	v.SetDefault("ui.profile_style", "dark")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "starfolk", "starfolk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("server.addr", "localhost:4000")
	v.SetDefault("server.data_path", filepath.Join("data", "characters.json"))
	v.SetDefault("server.database_path", filepath.Join(home, ".local", "share", "starfolk", "catalog.db"))
	v.SetDefault("server.watch", false)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("STARFOLK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "starfolk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STARFOLK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicit path that cannot be read is an error; a missing default file is not
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path resolves the config file location: path itself, then $STARFOLK_CONFIG,
// then ~/.config/starfolk/config.toml.
func Path(path string) string {
	if path == "" {
		path = os.Getenv("STARFOLK_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "starfolk", "config.toml")
	}
	return path
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(path string, cfg Config) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.rate_per_second", cfg.API.RatePerSecond)
	v.Set("api.burst", cfg.API.Burst)
	v.Set("ui.start_route", cfg.UI.StartRoute)
	v.Set("ui.abort_superseded", cfg.UI.AbortSuperseded)
	v.Set("ui.profile_style", cfg.UI.ProfileStyle)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("server.data_path", cfg.Server.DataPath)
	v.Set("server.database_path", cfg.Server.DatabasePath)
	v.Set("server.watch", cfg.Server.Watch)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
