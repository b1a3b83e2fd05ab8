package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"provenance"`
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"8080"`
	PostgresDSN  string   `env:"POSTGRES_DSN"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`

	// AdminID is the fixed administrator identity established at bootstrap.
	// Role assignment and view-grant override are gated on it.
	AdminID string `env:"ADMIN_ID" envDefault:"admin"`

	// AllowTransferReoffer keeps the permissive semantics where an owner may
	// overwrite an unresolved pending recipient with a fresh nomination.
	AllowTransferReoffer bool `env:"ALLOW_TRANSFER_REOFFER" envDefault:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
