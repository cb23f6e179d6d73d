package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress      string        `env:"SERVER_ADDRESS"`
	BaseURL            string        `env:"BASE_URL"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	SQLitePath         string        `env:"SQLITE_PATH"`
	FileStoragePath    string        `env:"FILE_STORAGE_PATH"`
	MigrationsPath     string        `env:"MIGRATIONS_PATH"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
	SlugLength         int           `env:"SLUG_LENGTH" envDefault:"7"`
	SlugMaxAttempts    int           `env:"SLUG_MAX_ATTEMPTS" envDefault:"10"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// ParseFlags reads an optional .env file, environment variables and command line
// flags. Non-empty environment values take precedence over flags.
func ParseFlags() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.ServerAddress, "a", getDefaultServerAddress(), "Address of the server")
	flag.StringVar(&cfg.BaseURL, "b", getDefaultBaseURL(), "Base URL for short URLs")
	flag.StringVar(&cfg.DatabaseDSN, "d", "", "PostgreSQL connection string")
	flag.StringVar(&cfg.SQLitePath, "s", "", "Path to SQLite database file")
	flag.StringVar(&cfg.FileStoragePath, "f", "", "Path to JSON lines storage file")
	flag.StringVar(&cfg.MigrationsPath, "m", getDefaultMigrationsPath(), "Source URL of PostgreSQL migrations")
	flag.DurationVar(&cfg.RequestTimeout, "t", getDefaultRequestTimeout(), "Per-request timeout")

	flag.Parse()

	if envCfg.ServerAddress != "" {
		cfg.ServerAddress = envCfg.ServerAddress
	}
	if envCfg.BaseURL != "" {
		cfg.BaseURL = envCfg.BaseURL
	}
	if envCfg.DatabaseDSN != "" {
		cfg.DatabaseDSN = envCfg.DatabaseDSN
	}
	if envCfg.SQLitePath != "" {
		cfg.SQLitePath = envCfg.SQLitePath
	}
	if envCfg.FileStoragePath != "" {
		cfg.FileStoragePath = envCfg.FileStoragePath
	}
	if envCfg.MigrationsPath != "" {
		cfg.MigrationsPath = envCfg.MigrationsPath
	}
	if envCfg.RequestTimeout != 0 {
		cfg.RequestTimeout = envCfg.RequestTimeout
	}

	cfg.applyDefaultValues()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http") {
		return fmt.Errorf("base URL must start with http: %q", c.BaseURL)
	}
	if c.SlugLength <= 0 {
		return fmt.Errorf("slug length must be positive, got %d", c.SlugLength)
	}
	if c.SlugMaxAttempts <= 0 {
		return fmt.Errorf("slug max attempts must be positive, got %d", c.SlugMaxAttempts)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	return nil
}

// Storage reports which link store backend the configuration selects.
func (c *Config) Storage() string {
	switch {
	case c.DatabaseDSN != "":
		return "postgres"
	case c.SQLitePath != "":
		return "sqlite"
	case c.FileStoragePath != "":
		return "file"
	default:
		return "memory"
	}
}

func (c *Config) applyDefaultValues() {
	if c.ServerAddress == "" {
		c.ServerAddress = getDefaultServerAddress()
	}

	if c.BaseURL == "" {
		c.BaseURL = getDefaultBaseURL()
	}

	if c.MigrationsPath == "" {
		c.MigrationsPath = getDefaultMigrationsPath()
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = getDefaultRequestTimeout()
	}

	if len(c.CORSAllowedOrigins) == 0 {
		c.CORSAllowedOrigins = []string{"*"}
	}
}

func getDefaultServerAddress() string {
	return "localhost:8080"
}

func getDefaultBaseURL() string {
	return "http://localhost:8080"
}

func getDefaultMigrationsPath() string {
	return "file://migrations"
}

func getDefaultRequestTimeout() time.Duration {
	return 5 * time.Second
}
