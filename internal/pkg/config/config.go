package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Config is the environment-driven configuration of the portal client and
// its CLI.
type Config struct {
	APIBaseURL string `env:"ATLAS_API_URL,      default=http://localhost:8000"`
	Env        string `env:"ENV,                default=development"`
	LogLevel   string `env:"LOG_LEVEL,          default=info"`
	LogPretty  bool   `env:"LOG_PRETTY,         default=true"`

	// HTTPTimeoutSeconds bounds one transport round-trip; the SDK treats an
	// expiry like any other transport failure (status 0).
	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT_SECONDS, default=15"`

	// CredentialsPath overrides where portalctl persists its session
	// cookies between invocations. Empty means the per-user default.
	CredentialsPath string `env:"ATLAS_CREDENTIALS_PATH"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
