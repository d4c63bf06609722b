package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:"127.0.0.1:8090"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// ERPBaseURL is the origin of the backend REST API this console talks to.
	ERPBaseURL     string        `envconfig:"ERP_BASE_URL" default:"http://127.0.0.1:8080/api"`
	ERPTimeout     time.Duration `envconfig:"ERP_TIMEOUT" default:"30s"`
	ResolveTimeout time.Duration `envconfig:"RESOLVE_TIMEOUT" default:"10s"`

	// SessionBackend selects where the operator session is persisted:
	// "file" (workstation config dir) or "redis".
	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"file"`
	SessionDir     string        `envconfig:"SESSION_DIR" default:""`
	SessionSecret  string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.SessionBackend != "file" && cfg.SessionBackend != "redis" {
		return nil, errors.New("session backend must be file or redis")
	}
	return &cfg, nil
}

// IsProduction returns true when the console runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
