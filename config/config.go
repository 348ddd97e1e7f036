// Package config loads the folio configuration: defaults, an optional TOML
// file, a .env file and FOLIO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for folio.
type Config struct {
	HoldingsFile string        `toml:"holdings_file"`
	Currency     string        `toml:"currency"` // expected currency of every holding, "" accepts any
	Server       ServerConfig  `toml:"server"`
	Quotes       QuotesConfig  `toml:"quotes"`
	Advisor      AdvisorConfig `toml:"advisor"`
	Logging      LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Addr is the address the server listens on.
func (c ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// QuotesConfig holds the quote provider configuration.
//
// URL is a template where {ticker} is replaced by the holding ticker, Path
// is the JSONPath of the price in the response.
type QuotesConfig struct {
	URL       string  `toml:"url"`
	Path      string  `toml:"path"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
	Timeout   string  `toml:"timeout"`
	Schedule  string  `toml:"schedule"` // cron expression, "" disables periodic refresh
}

// GetTimeout parses the timeout, with a 10s default.
func (c QuotesConfig) GetTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// AdvisorConfig holds the Gemini configuration.
type AdvisorConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// NewDefaultConfig returns a Config with defaults.
func NewDefaultConfig() *Config {
	return &Config{
		HoldingsFile: "holdings.jsonl",
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			AllowedOrigins: []string{"*"},
		},
		Quotes: QuotesConfig{
			RateLimit: 2,
			Timeout:   "10s",
		},
		Advisor: AdvisorConfig{
			Model: "gemini-2.5-flash",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration files in order, later files override earlier
// ones, missing files are skipped. A .env file in the working directory is
// loaded into the environment first, then environment overrides apply.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	config.Currency = strings.ToUpper(config.Currency)
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("FOLIO_HOLDINGS_FILE"); v != "" {
		config.HoldingsFile = v
	}
	if v := os.Getenv("FOLIO_CURRENCY"); v != "" {
		config.Currency = v
	}
	if v := os.Getenv("FOLIO_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("FOLIO_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 0 || p > 65535 {
			return fmt.Errorf("invalid FOLIO_PORT %q: want a port number", v)
		}
		config.Server.Port = p
	}
	if v := os.Getenv("FOLIO_ALLOWED_ORIGINS"); v != "" {
		config.Server.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("FOLIO_QUOTE_URL"); v != "" {
		config.Quotes.URL = v
	}
	if v := os.Getenv("FOLIO_QUOTE_PATH"); v != "" {
		config.Quotes.Path = v
	}
	if v := os.Getenv("FOLIO_QUOTE_SCHEDULE"); v != "" {
		config.Quotes.Schedule = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("FOLIO_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Advisor.APIKey = v
	}
	if v := os.Getenv("FOLIO_GEMINI_MODEL"); v != "" {
		config.Advisor.Model = v
	}
	return nil
}
