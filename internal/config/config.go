package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PathEnv names the env var holding the config file path when none is given explicitly.
const PathEnv = "BOOKSHELF_CONFIG"

type Config struct {
	BindAddr  string   `mapstructure:"bind_addr"`
	DebugMode bool     `mapstructure:"debug_mode"`
	Log       Log      `mapstructure:"log"`
	Database  Database `mapstructure:"database"`
	Catalog   Catalog  `mapstructure:"catalog"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Database struct {
	// Path of the SQLite file, used unless URL is set.
	Path string `mapstructure:"path"`
	// URL of a Postgres database. Takes precedence over Path.
	URL string `mapstructure:"url"`
}

type Catalog struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	// Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads defaults, then the optional config file, then environment variables.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("bind_addr", ":8080")
	v.SetDefault("debug_mode", false)
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.path", "books.db")
	v.SetDefault("database.url", "")
	v.SetDefault("catalog.base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.timeout", time.Duration(0))

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("catalog.api_key", "CATALOG_API_KEY", "GOOGLE_BOOKS_API_KEY")

	if path == "" {
		path = os.Getenv(PathEnv)
	}

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !os.IsNotExist(err) && !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Catalog.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.Catalog.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("invalid log level %q, one of debug, info, warn or error expected", c.Log.Level)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q, json or text expected", c.Log.Format)
	}

	if c.Database.URL == "" && c.Database.Path == "" {
		return errors.New("either database path or database url must be set")
	}

	if c.Catalog.BaseURL == "" {
		return errors.New("catalog base url must be set")
	}

	if c.Catalog.Timeout < 0 {
		return errors.New("catalog timeout must not be negative")
	}

	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.Log.Level))
	return lvl, err
}
