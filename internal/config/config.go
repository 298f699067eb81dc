package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Keystone Cleaner"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`

		// Uploaded ledger exports are bounded batches; anything bigger than
		// this is almost certainly the wrong file.
		MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	}

	Rates struct {
		// Base is the reporting currency.
		Base string `envconfig:"RATES_BASE" default:"IDR"`

		// Pairs lists fixed conversion rates as "USD=15800,JPY=105".
		// Loaded once at startup; read-only for the process lifetime.
		Pairs string `envconfig:"RATES_PAIRS" default:""`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
