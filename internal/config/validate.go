package config

import (
	"net/url"
	"slices"

	"github.com/mrz1836/eureka/internal/constants"
	"github.com/mrz1836/eureka/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - store.backend must be file, memory or redis
//   - store.redis_url must be a redis:// or rediss:// URL when backend is redis
//   - store.lock_timeout and store.redis_idle_timeout must be positive
//   - store.redis_max_idle must not be negative
//   - log sizes and counts must not be negative
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateStoreConfig(&cfg.Store); err != nil {
		return err
	}

	return validateLogConfig(&cfg.Log)
}

// validateStoreConfig checks store-specific configuration values.
func validateStoreConfig(cfg *StoreConfig) error {
	backends := []string{constants.StoreBackendFile, constants.StoreBackendMemory, constants.StoreBackendRedis}
	if !slices.Contains(backends, cfg.Backend) {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.backend must be one of %v, got %q", backends, cfg.Backend)
	}

	if cfg.Backend == constants.StoreBackendRedis {
		if cfg.RedisURL == "" {
			return errors.Wrap(errors.ErrConfigInvalidStore,
				"store.redis_url is required for the redis backend")
		}
		u, err := url.Parse(cfg.RedisURL)
		if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return errors.Wrapf(errors.ErrConfigInvalidStore,
				"store.redis_url must be a redis:// URL, got %q", cfg.RedisURL)
		}
	}

	if cfg.LockTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.lock_timeout must be positive, got %s", cfg.LockTimeout)
	}
	if cfg.RedisIdleTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.redis_idle_timeout must be positive, got %s", cfg.RedisIdleTimeout)
	}
	if cfg.RedisMaxIdle < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidStore,
			"store.redis_max_idle cannot be negative, got %d", cfg.RedisMaxIdle)
	}

	return nil
}

// validateLogConfig checks log rotation values.
func validateLogConfig(cfg *LogConfig) error {
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.Wrap(errors.ErrConfigInvalidLog,
			"log.max_size_mb, log.max_backups and log.max_age_days cannot be negative")
	}
	return nil
}
