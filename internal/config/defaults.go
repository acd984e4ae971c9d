package config

import (
	"path/filepath"

	"github.com/mrz1836/eureka/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
// These defaults are the base layer that config files, environment
// variables and CLI flags override.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:          constants.StoreBackendFile,
			RedisMaxIdle:     constants.DefaultRedisMaxIdle,
			RedisIdleTimeout: constants.DefaultRedisIdleTimeout,
			LockTimeout:      constants.DefaultLockTimeout,
		},
		Templates: TemplatesConfig{
			Dir: filepath.Join(constants.EurekaHome, constants.TemplatesDir),
		},
		Log: LogConfig{
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAgeDays: constants.LogMaxAgeDays,
		},
	}
}
