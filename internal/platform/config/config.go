// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration.
type Config struct {
	Addr            string        `env:"MONIKER_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"MONIKER_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DatabaseURL selects the Postgres directory and audit stores. When
	// empty the server runs against seeded in-memory stores (dev mode).
	DatabaseURL string `env:"DATABASE_URL"`

	Redis RedisConfig `envPrefix:"REDIS_"`
	Kafka KafkaConfig `envPrefix:"KAFKA_"`
}

// RedisConfig configures the optional preferred-name cache.
type RedisConfig struct {
	// URL enables the cache when non-empty.
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"30s"`
}

// KafkaConfig configures the optional audit fan-out.
type KafkaConfig struct {
	// Brokers enables the publisher when non-empty.
	Brokers    []string `env:"BROKERS"`
	AuditTopic string   `env:"AUDIT_TOPIC" envDefault:"moniker.audit.disclosures"`
	// Partitions is only used when the publisher has to create the topic.
	Partitions int32 `env:"AUDIT_TOPIC_PARTITIONS" envDefault:"3"`
}

// FromEnv parses configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, nil
}
