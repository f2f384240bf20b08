package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Supported store drivers
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds all application configuration
type Config struct {
	YouTube YouTubeConfig
	DB      DBConfig
	Bot     BotConfig
	Export  ExportConfig
	Server  ServerConfig
	Log     LogConfig
}

// YouTubeConfig holds YouTube Data API configuration
type YouTubeConfig struct {
	APIKey    string        `envconfig:"YOUTUBE_API_KEY"`
	PageSize  int           `envconfig:"YOUTUBE_PAGE_SIZE" default:"50"`
	BatchSize int           `envconfig:"YOUTUBE_BATCH_SIZE" default:"50"`
	MaxPages  int           `envconfig:"YOUTUBE_MAX_PAGES" default:"10"`
	RateLimit float64       `envconfig:"YOUTUBE_RATE_LIMIT" default:"5"`
	Timeout   time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"30s"`
	Region    string        `envconfig:"YOUTUBE_REGION" default:"JP"`
	Language  string        `envconfig:"YOUTUBE_LANGUAGE" default:"ja"`
}

// DBConfig holds database configuration
type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	Path     string `envconfig:"DB_PATH" default:"youtube_analyzer.db"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASSWORD"`
	Database string `envconfig:"DB_NAME" default:"youtube_analyzer"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
}

// BotConfig holds Telegram bot configuration
type BotConfig struct {
	Token         string `envconfig:"BOT_TOKEN"`
	ResultPreview int    `envconfig:"BOT_RESULT_PREVIEW" default:"10"`
}

// ExportConfig holds export configuration
type ExportConfig struct {
	Dir             string `envconfig:"EXPORT_DIR" default:"."`
	CredentialsPath string `envconfig:"GOOGLE_CREDENTIALS_PATH"`
	GCSBucket       string `envconfig:"EXPORT_GCS_BUCKET"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// DSN returns the MySQL data source name
func (c *DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg.YouTube); err != nil {
		return nil, fmt.Errorf("failed to load youtube config: %w", err)
	}

	if err := envconfig.Process("", &cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to load db config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Bot); err != nil {
		return nil, fmt.Errorf("failed to load bot config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Export); err != nil {
		return nil, fmt.Errorf("failed to load export config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.YouTube.PageSize < 1 || c.YouTube.PageSize > 50 {
		return fmt.Errorf("YOUTUBE_PAGE_SIZE must be between 1 and 50")
	}
	if c.YouTube.BatchSize < 1 || c.YouTube.BatchSize > 50 {
		return fmt.Errorf("YOUTUBE_BATCH_SIZE must be between 1 and 50")
	}
	if c.YouTube.MaxPages < 1 {
		return fmt.Errorf("YOUTUBE_MAX_PAGES must be positive")
	}
	if c.YouTube.RateLimit <= 0 {
		return fmt.Errorf("YOUTUBE_RATE_LIMIT must be positive")
	}
	switch c.DB.Driver {
	case DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the mysql driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverSQLite, DriverMySQL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	return nil
}

// ValidateBot checks the settings the Telegram bot needs on top of Validate
func (c *Config) ValidateBot() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Bot.ResultPreview <= 0 {
		return fmt.Errorf("BOT_RESULT_PREVIEW must be positive")
	}
	return nil
}
