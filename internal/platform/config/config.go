// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (64KB).
	DefaultMaxRequestSize = 64 << 10

	// DefaultClientRetryMaxAttempts is the default number of retry attempts.
	DefaultClientRetryMaxAttempts = 3

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 20

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 4

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultCardFontSize is the glyph size in pixels.
	DefaultCardFontSize = 32

	// DefaultCardOrigin is the top-left text offset in pixels on both axes.
	DefaultCardOrigin = 20

	// DefaultCardLineHeight and DefaultCardLineGap add up to the line step.
	DefaultCardLineHeight = 28
	DefaultCardLineGap    = 10

	// DefaultLayoutMaxWidth is the per-line budget in width units.
	DefaultLayoutMaxWidth = 30

	// DefaultLayoutMargin is subtracted from the budget before a break is allowed.
	DefaultLayoutMargin = 8

	// DefaultLayoutMaxLines caps the lines drawn on a card.
	DefaultLayoutMaxLines = 7
)

// Publisher modes.
const (
	PublisherModeDryRun = "dry_run"
	PublisherModeSocial = "social"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "APP_"

// envNestingSeparator separates key path segments in environment variable names.
const envNestingSeparator = "__"

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"`
	Services  ServicesConfig  `koanf:"services"`
	Quotes    QuotesConfig    `koanf:"quotes"`
	Layout    LayoutConfig    `koanf:"layout"`
	Card      CardConfig      `koanf:"card"`
	Publisher PublisherConfig `koanf:"publisher"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Transport      TransportConfig      `koanf:"transport"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// ServicesConfig contains configuration for downstream services.
type ServicesConfig struct {
	Ratings ServiceEndpointConfig `koanf:"ratings"`
	Social  ServiceEndpointConfig `koanf:"social"`
}

// ServiceEndpointConfig contains configuration for a downstream service endpoint.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
}

// QuotesConfig locates the quote mapping.
type QuotesConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LayoutConfig tunes the line breaker.
type LayoutConfig struct {
	MaxWidth float64 `koanf:"max_width" validate:"gt=0"`
	Margin   float64 `koanf:"margin"    validate:"min=0,ltfield=MaxWidth"`
	MaxLines int     `koanf:"max_lines" validate:"required,min=1"`
}

// CardConfig fixes where cards are read from and written to and how text is placed.
// Offsets and sizes are in template pixels.
type CardConfig struct {
	TemplateDir    string  `koanf:"template_dir"    validate:"required"`
	TemplateFormat string  `koanf:"template_format" validate:"required,oneof=png jpg jpeg"`
	OutputDir      string  `koanf:"output_dir"      validate:"required"`
	FontPath       string  `koanf:"font_path"`
	FontSize       float64 `koanf:"font_size"       validate:"gt=0"`
	OriginX        float64 `koanf:"origin_x"        validate:"min=0"`
	OriginY        float64 `koanf:"origin_y"        validate:"min=0"`
	LineHeight     float64 `koanf:"line_height"     validate:"gt=0"`
	LineGap        float64 `koanf:"line_gap"        validate:"min=0"`
	TextColor      string  `koanf:"text_color"      validate:"required,hexcolor"`
}

// PublisherConfig selects how finished cards leave the service.
type PublisherConfig struct {
	Mode         string   `koanf:"mode"          validate:"required,oneof=dry_run social"`
	ClientID     string   `koanf:"client_id"     validate:"required_if=Mode social"`
	ClientSecret string   `koanf:"client_secret" validate:"required_if=Mode social"`
	TokenURL     string   `koanf:"token_url"     validate:"required_if=Mode social,omitempty,url"`
	AccessToken  string   `koanf:"access_token"`
	RefreshToken string   `koanf:"refresh_token" validate:"required_if=Mode social"`
	Scopes       []string `koanf:"scopes"`
}

// PipelineConfig tunes a card run.
type PipelineConfig struct {
	// Seed fixes quote selection. Zero seeds from the clock.
	Seed uint64 `koanf:"seed"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quote-card-bot",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "60s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.request_timeout":  "45s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotecard.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quote-card-bot",
		"telemetry.sampling_rate": 1.0,

		"client.timeout":                           "15s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "200ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"services.ratings.base_url": "http://localhost:8090",
		"services.ratings.name":     "ratings-service",
		"services.social.base_url":  "http://localhost:8091",
		"services.social.name":      "social-service",

		"quotes.path": "quotes/quotes.yml",

		"layout.max_width": DefaultLayoutMaxWidth,
		"layout.margin":    DefaultLayoutMargin,
		"layout.max_lines": DefaultLayoutMaxLines,

		"card.template_dir":    "templates",
		"card.template_format": "png",
		"card.output_dir":      "out",
		"card.font_path":       "",
		"card.font_size":       DefaultCardFontSize,
		"card.origin_x":        DefaultCardOrigin,
		"card.origin_y":        DefaultCardOrigin,
		"card.line_height":     DefaultCardLineHeight,
		"card.line_gap":        DefaultCardLineGap,
		"card.text_color":      "#FFFFFF",

		"publisher.mode": PublisherModeDryRun,

		"pipeline.seed": 0,
	}
}

// Load loads configuration from the "configs" directory.
// See LoadFrom for precedence.
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix, "__" between nesting levels)
//  2. Profile config file ({dir}/{profile}.yaml)
//  3. Base config file ({dir}/base.yaml)
//  4. Default values
//
// APP_CARD__FONT_PATH sets card.font_path; single underscores stay part of the key.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables
	err = k.Load(env.Provider(EnvPrefix, ".", EnvKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// EnvKey maps an environment variable name onto a config key path.
func EnvKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))

	return strings.ReplaceAll(key, envNestingSeparator, ".")
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
