// Package config holds the application configuration and its YAML loader.
package config

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Store    StoreConfig       `yaml:"store"`
	Memory   MemoryConfig      `yaml:"memory"`
	Postgres PostgresConfig    `yaml:"postgres"`
	Redis    RedisConfig       `yaml:"redis"`
	Feed     FeedConfig        `yaml:"feed"`
	Notify   NotifyConfig      `yaml:"notify"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if c.Store.Driver == DriverPostgres {
		if err := c.Postgres.Validate(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Feed.Validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	return c.Notify.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// StoreConfig selects the persistence driver.
type StoreConfig struct {
	Driver string `yaml:"driver"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverMemory)),
	)
}

// MemoryConfig configures the in-memory driver. Seed names an optional
// YAML file with directory entries and graph edges.
type MemoryConfig struct {
	Seed string `yaml:"seed"`
}

// PostgresConfig holds database configuration.
type PostgresConfig struct {
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate"`
}

// Validate validates the Postgres configuration.
func (c *PostgresConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// RedisConfig holds the author cache configuration. An empty Addr disables
// the cache.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	AuthorTTL time.Duration `yaml:"author_ttl"`
}

// Enabled reports whether an author cache is configured.
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// Validate validates the Redis configuration.
func (c *RedisConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AuthorTTL, validation.When(c.Enabled(), validation.Required, validation.Min(time.Second))),
	)
}

// FeedConfig holds listing page sizes.
type FeedConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// Validate validates the feed configuration.
func (c *FeedConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DefaultPageSize, validation.Required, validation.Min(1), validation.Max(c.MaxPageSize)),
		validation.Field(&c.MaxPageSize, validation.Required, validation.Min(1), validation.Max(1000)),
	)
}

// NotifyConfig holds websocket notification settings.
type NotifyConfig struct {
	SendBuffer int `yaml:"send_buffer"`
}

// Validate validates the notification configuration.
func (c *NotifyConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SendBuffer, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a Config that runs against the in-memory store.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port:            8080,
				ShutdownTimeout: 10 * time.Second,
			},
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Redis: RedisConfig{
			AuthorTTL: 10 * time.Minute,
		},
		Feed: FeedConfig{
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Notify: NotifyConfig{
			SendBuffer: 64,
		},
	}
}
