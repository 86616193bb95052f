package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quote-card-bot",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  45 * time.Second,
			MaxRequestSize:  65536,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 15 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 200 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{
			Ratings: ServiceEndpointConfig{BaseURL: "https://ratings.example.com", Name: "ratings-service"},
			Social:  ServiceEndpointConfig{BaseURL: "https://social.example.com", Name: "social-service"},
		},
		Quotes: QuotesConfig{Path: "quotes/quotes.yml"},
		Layout: LayoutConfig{MaxWidth: 30, Margin: 8, MaxLines: 7},
		Card: CardConfig{
			TemplateDir:    "templates",
			TemplateFormat: "png",
			OutputDir:      "out",
			FontSize:       32,
			OriginX:        20,
			OriginY:        20,
			LineHeight:     28,
			LineGap:        10,
			TextColor:      "#FFFFFF",
		},
		Publisher: PublisherConfig{Mode: PublisherModeDryRun},
	}
}

func socialPublisher() PublisherConfig {
	return PublisherConfig{
		Mode:         PublisherModeSocial,
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     "https://social.example.com/oauth2/token",
		RefreshToken: "refresh",
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.name is required")
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "staging"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment must be one of")
	})
}

func TestConfig_Validate_ServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"minimum valid port", 1, false},
		{"maximum valid port", 65535, false},
		{"zero port", 0, true},
		{"port too high", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "server.port")
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("timeout uses koanf key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.ReadTimeout = 500 * time.Millisecond

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.read_timeout must be at least")
	})
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Log.Level = level

			assert.NoError(t, cfg.Validate())
		})
	}

	t.Run("case sensitive level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Level = "DEBUG"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("file enabled requires path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.path is required when enabled is true")
	})

	t.Run("file max size bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = "/var/log/quotecard.log"
		cfg.Log.File.MaxSizeMB = 1025

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.max_size must be at most 1024")
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	t.Run("enabled requires endpoint", func(t *testing.T) {
		cfg := validConfig()
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.ServiceName = "quote-card-bot"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "telemetry.endpoint")
	})

	for _, tt := range []struct {
		rate    float64
		wantErr bool
	}{
		{0.0, false},
		{1.0, false},
		{-0.1, true},
		{1.1, true},
	} {
		t.Run(fmt.Sprintf("sampling_rate_%v", tt.rate), func(t *testing.T) {
			cfg := validConfig()
			cfg.Telemetry.SamplingRate = tt.rate

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "telemetry.sampling_rate")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_ClientConfig(t *testing.T) {
	t.Run("retry attempts bound", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.Retry.MaxAttempts = 11

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.retry.max_attempts")
	})

	t.Run("circuit breaker half open limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.Client.CircuitBreaker.HalfOpenLimit = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client.circuit_breaker.half_open_limit")
	})

	t.Run("service base url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Services.Ratings.BaseURL = "not a url"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "services.ratings.base_url must be a valid URL")
	})
}

func TestConfig_Validate_LayoutConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LayoutConfig)
		wantErr string
	}{
		{"zero max width", func(l *LayoutConfig) { l.MaxWidth = 0 }, "layout.max_width must be greater than 0"},
		{"negative margin", func(l *LayoutConfig) { l.Margin = -1 }, "layout.margin must be at least 0"},
		{"margin swallows budget", func(l *LayoutConfig) { l.Margin = 30 }, "layout.margin must be less than max_width"},
		{"zero max lines", func(l *LayoutConfig) { l.MaxLines = 0 }, "layout.max_lines"},
		{"zero margin is fine", func(l *LayoutConfig) { l.Margin = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Layout)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_CardConfig(t *testing.T) {
	t.Run("unsupported template format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Card.TemplateFormat = "gif"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card.template_format must be one of")
	})

	t.Run("bad text color", func(t *testing.T) {
		cfg := validConfig()
		cfg.Card.TextColor = "white"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card.text_color must be a hex color")
	})

	t.Run("zero font size", func(t *testing.T) {
		cfg := validConfig()
		cfg.Card.FontSize = 0

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card.font_size")
	})
}

func TestConfig_Validate_PublisherConfig(t *testing.T) {
	t.Run("dry run needs no credentials", func(t *testing.T) {
		cfg := validConfig()

		assert.NoError(t, cfg.Validate())
	})

	t.Run("social with credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Publisher = socialPublisher()

		assert.NoError(t, cfg.Validate())
	})

	t.Run("social requires refresh token", func(t *testing.T) {
		cfg := validConfig()
		cfg.Publisher = socialPublisher()
		cfg.Publisher.RefreshToken = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publisher.refresh_token is required when mode is social")
	})

	t.Run("social requires valid token url", func(t *testing.T) {
		cfg := validConfig()
		cfg.Publisher = socialPublisher()
		cfg.Publisher.TokenURL = "token"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publisher.token_url must be a valid URL")
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Publisher.Mode = "email"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publisher.mode must be one of: dry_run social")
	})
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Quotes.Path = ""

	err := cfg.Validate()
	require.Error(t, err)

	assert.Contains(t, err.Error(), "app.name")
	assert.Contains(t, err.Error(), "quotes.path")
}

func TestConfig_Validate_ZeroSectionReportsFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*Config)
		want  []string
	}{
		{
			name:  "quotes",
			clear: func(c *Config) { c.Quotes = QuotesConfig{} },
			want:  []string{"quotes.path is required"},
		},
		{
			name:  "layout",
			clear: func(c *Config) { c.Layout = LayoutConfig{} },
			want:  []string{"layout.max_width", "layout.max_lines"},
		},
		{
			name:  "ratings endpoint",
			clear: func(c *Config) { c.Services.Ratings = ServiceEndpointConfig{} },
			want:  []string{"services.ratings.base_url", "services.ratings.name is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.clear(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			for _, want := range tt.want {
				assert.Contains(t, err.Error(), want)
			}

			assert.NotContains(t, err.Error(), tt.name+" is required")
		})
	}
}

func TestFormatFieldPath(t *testing.T) {
	tests := []struct {
		namespace string
		expected  string
	}{
		{"Config.server.port", "server.port"},
		{"Config.client.retry.max_attempts", "client.retry.max_attempts"},
		{"Config.Client.Retry.MaxAttempts", "client.retry.max_attempts"},
		{"Config.Telemetry.SamplingRate", "telemetry.sampling_rate"},
		{"Config.Services.Ratings.BaseURL", "services.ratings.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFieldPath(tt.namespace))
		})
	}
}
