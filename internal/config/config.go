package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	ServiceName string `env:"SERVICE_NAME" env-default:"babybeat-service"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Events      EventsConfig
	RabbitMQ    RabbitMQConfig
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	Addr               string        `env:"HTTP_ADDR" env-default:":3001"`
	ReadTimeout        time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout       time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	CORSAllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// DatabaseConfig holds event store settings
type DatabaseConfig struct {
	Backend     string `env:"STORAGE_BACKEND" env-default:"postgres"`
	URL         string `env:"DATABASE_URL"`
	MaxConns    int32  `env:"DATABASE_MAX_CONNS" env-default:"10"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE" env-default:"true"`
}

// EventsConfig holds event listing and aggregation settings
type EventsConfig struct {
	DefaultLimit int    `env:"EVENTS_DEFAULT_LIMIT" env-default:"100"`
	TimeZone     string `env:"AGGREGATION_TIMEZONE" env-default:"UTC"`
}

// RabbitMQConfig holds RabbitMQ connection and queue settings for the
// import pipeline
type RabbitMQConfig struct {
	URL              string `env:"RABBITMQ_URL"`
	ImportExchange   string `env:"RABBITMQ_IMPORT_EXCHANGE" env-default:"babybeat.import.exchange"`
	ImportQueue      string `env:"RABBITMQ_IMPORT_QUEUE" env-default:"babybeat.import.queue"`
	ImportRoutingKey string `env:"RABBITMQ_IMPORT_ROUTING_KEY" env-default:"event.import"`
	DLQQueue         string `env:"RABBITMQ_DLQ_QUEUE" env-default:"babybeat.import.dlq"`
	PrefetchCount    int    `env:"RABBITMQ_PREFETCH" env-default:"10"`
}

// Load loads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read loads configuration from environment variables without cross-field
// validation, for tools that only need part of it
func Read() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field rules that env tags cannot express
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=%s", BackendPostgres)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of: %s, %s", BackendPostgres, BackendMemory)
	}

	if c.Events.DefaultLimit <= 0 {
		return fmt.Errorf("EVENTS_DEFAULT_LIMIT must be positive, got %d", c.Events.DefaultLimit)
	}

	if _, err := c.Events.Location(); err != nil {
		return err
	}

	return nil
}

// RequireRabbitMQ reports an error when the import pipeline cannot connect
func (c *Config) RequireRabbitMQ() error {
	if c.RabbitMQ.URL == "" {
		return fmt.Errorf("RABBITMQ_URL is required but not set in environment variables")
	}
	return nil
}

// Location resolves the zone used to cut days and weeks
func (c EventsConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid AGGREGATION_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
