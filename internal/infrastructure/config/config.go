package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is the explicit process configuration. Every client handle in the
// service is constructed from these values at startup and injected where it
// is needed; nothing reads the environment after Load returns.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" required:"true"`

	// NotifierURL is optional: when blank the service runs with a declared
	// log-only notifier and says so at startup.
	NotifierURL string `envconfig:"NOTIFIER_URL"`

	HTTPAddr         string `envconfig:"HTTP_ADDR" default:":8080"`
	QueueConcurrency int    `envconfig:"QUEUE_CONCURRENCY" default:"10"`
}

// ConfigurationError reports missing or unparsable startup configuration.
// The process refuses to start on one rather than degrading into clients
// that silently return nothing.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return &cfg, nil
}
