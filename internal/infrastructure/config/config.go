package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Response formats requested from the aggregator.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Transports the MCP server can listen on.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all configuration for the freesearch MCP server
type Config struct {
	// Aggregator
	SearxngURL            string `env:"SEARXNG_API_URL"`
	SearxngCookie         string `env:"SEARXNG_COOKIE"`
	SearxngUserAgent      string `env:"SEARXNG_USER_AGENT" envDefault:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
	SearxngRequestTimeout int    `env:"SEARXNG_REQUEST_TIMEOUT" envDefault:"10"` // seconds
	SearxngResponseFormat string `env:"SEARXNG_RESPONSE_FORMAT" envDefault:"auto"`

	// Admission gate
	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND" envDefault:"1"`
	RateLimitPerMonth  int `env:"RATE_LIMIT_PER_MONTH" envDefault:"15000"`

	// Circuit Breaker Configuration
	SearxngCBEnabled          bool `env:"SEARXNG_CB_ENABLED" envDefault:"true"`
	SearxngCBFailureThreshold int  `env:"SEARXNG_CB_FAILURE_THRESHOLD" envDefault:"15"`
	SearxngCBTimeout          int  `env:"SEARXNG_CB_TIMEOUT" envDefault:"45"` // seconds

	// MCP transport
	Transport string `env:"MCP_TRANSPORT" envDefault:"stdio"`
	HTTPPort  string `env:"MCP_HTTP_PORT" envDefault:"8093"`

	// Logging
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"` // json or console
	LogDir           string `env:"LOG_DIR"`
	QueryLogPIILevel string `env:"QUERY_LOG_PII_LEVEL" envDefault:"hashed"` // none, hashed or full

	// Tracing
	OTELEnabled      bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSamplingRate float64 `env:"OTEL_SAMPLING_RATE" envDefault:"1.0"`
	ServiceName      string  `env:"SERVICE_NAME" envDefault:"freesearch-mcp"`
	ServiceVersion   string  `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Environment      string  `env:"ENVIRONMENT" envDefault:"development"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(os.Getenv("LOG_LEVEL")) == "" {
		if legacy := strings.TrimSpace(os.Getenv("ENV_FASTMCP_LOG_LEVEL")); legacy != "" {
			cfg.LogLevel = legacy
		}
	}

	cfg.SearxngURL = strings.TrimRight(strings.TrimSpace(cfg.SearxngURL), "/")
	if cfg.SearxngURL == "" {
		return nil, fmt.Errorf("SEARXNG_API_URL is required")
	}

	cfg.SearxngResponseFormat = strings.ToLower(strings.TrimSpace(cfg.SearxngResponseFormat))
	switch cfg.SearxngResponseFormat {
	case FormatAuto, FormatJSON, FormatHTML:
	default:
		return nil, fmt.Errorf("SEARXNG_RESPONSE_FORMAT must be one of auto, json, html (got %q)", cfg.SearxngResponseFormat)
	}

	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	switch cfg.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return nil, fmt.Errorf("MCP_TRANSPORT must be stdio or http (got %q)", cfg.Transport)
	}

	if cfg.SearxngRequestTimeout <= 0 {
		return nil, fmt.Errorf("SEARXNG_REQUEST_TIMEOUT must be positive")
	}
	return cfg, nil
}

// LoadEnvFiles applies .env files from the working directory and its parent
// when they exist. Later files win.
func LoadEnvFiles() error {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// RequestTimeout returns the aggregator call timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.SearxngRequestTimeout) * time.Second
}

// CBTimeout returns how long the breaker stays open before probing again.
func (c *Config) CBTimeout() time.Duration {
	return time.Duration(c.SearxngCBTimeout) * time.Second
}
