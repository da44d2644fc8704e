package redisconn

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls connection establishment. The zero value is not usable;
// populate it directly or load it from the environment with
// NewConfigFromEnv.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	WriteTimeout   time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"10s"`
}

// NewConfigFromEnv loads Config from environment variables.
func NewConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse redis connection config: %w", err)
	}
	return cfg, nil
}
