// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	JWTSecret      string        `yaml:"jwt_secret" env:"HTTP_JWT_SECRET"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// WebhookPath is the public callback route the gateway posts to.
	WebhookPath string `yaml:"webhook_path"`
	// WebhookLang selects the locale of the webhook result page (en, sl).
	WebhookLang string `yaml:"webhook_lang"`
	// Webhook rate limit per client address, applied only when Redis is configured.
	WebhookRateLimit  int           `yaml:"webhook_rate_limit"`
	WebhookRateWindow time.Duration `yaml:"webhook_rate_window"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite | memory
	URL      string `yaml:"url" env:"DATABASE_URL"`
	Table    string `yaml:"table"`
	MaxConns int32  `yaml:"max_conns"`
	// EnsureSchema creates the correlation table on startup.
	EnsureSchema bool `yaml:"ensure_schema"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" env:"REDIS_URL"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MBillsConfig struct {
	APIKey     string        `yaml:"api_key" env:"MBILLS_API_KEY"`
	APISecret  string        `yaml:"api_secret" env:"MBILLS_API_SECRET"`
	Production bool          `yaml:"production" env:"MBILLS_PRODUCTION"`
	BaseURL    string        `yaml:"base_url"` // overrides the environment default (tests, proxies)
	Timeout    time.Duration `yaml:"timeout"`

	WebhookURL string `yaml:"webhook_url"`
	AppName    string `yaml:"app_name"`
	ChannelID  string `yaml:"channel_id"`
	// DeleteNonceOnWebhook consumes the correlation record when the webhook resolves it.
	DeleteNonceOnWebhook bool `yaml:"delete_nonce_on_webhook"`
}

type Config struct {
	Log      LogConfig      `yaml:"log"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	MBills   MBillsConfig   `yaml:"mbills"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, overlays secrets from the environment,
// applies defaults and validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b, dev)
}

// Parse is LoadConfig without the file read.
func Parse(b []byte, dev bool) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 90 * time.Second
	}
	if cfg.HTTP.WebhookPath == "" {
		cfg.HTTP.WebhookPath = "/mbills/webhook"
	}
	if !strings.HasPrefix(cfg.HTTP.WebhookPath, "/") {
		cfg.HTTP.WebhookPath = "/" + cfg.HTTP.WebhookPath
	}
	if cfg.HTTP.WebhookLang == "" {
		cfg.HTTP.WebhookLang = "en"
	}
	if cfg.HTTP.WebhookRateLimit <= 0 {
		cfg.HTTP.WebhookRateLimit = 30
	}
	if cfg.HTTP.WebhookRateWindow <= 0 {
		cfg.HTTP.WebhookRateWindow = time.Minute
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = "payment_nonce"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.MBills.Timeout <= 0 {
		cfg.MBills.Timeout = 60 * time.Second
	}

	// Minimal validation
	if cfg.MBills.APIKey == "" || cfg.MBills.APISecret == "" {
		return nil, errors.New("mbills.api_key and mbills.api_secret are required")
	}
	switch cfg.Database.Driver {
	case "postgres", "sqlite":
		if cfg.Database.URL == "" {
			return nil, errors.New("database.url is required")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("database.driver %q not supported", cfg.Database.Driver)
	}
	if !validTableName(cfg.Database.Table) {
		return nil, fmt.Errorf("database.table %q is not a valid identifier", cfg.Database.Table)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

// The table name is spliced into SQL text, so only plain identifiers are accepted.
func validTableName(s string) bool {
	if s == "" || len(s) > 63 {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
