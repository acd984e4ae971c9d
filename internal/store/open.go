package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrz1836/eureka/internal/clock"
	"github.com/mrz1836/eureka/internal/constants"
	eurekaerrors "github.com/mrz1836/eureka/internal/errors"
)

// Options selects and configures a backend for Open.
type Options struct {
	// Backend is one of constants.StoreBackendFile, StoreBackendMemory or StoreBackendRedis.
	Backend string

	// Dir is the FileStore root. Empty means ~/.eureka.
	Dir string

	RedisURL         string
	RedisMaxIdle     int
	RedisIdleTimeout time.Duration

	LockTimeout time.Duration

	// Clock overrides the clock used to stamp tasks.
	Clock clock.Clock
}

// Open creates the configured store.
func Open(opts Options) (TaskStore, error) {
	storeOpts := []Option{WithClock(opts.Clock), WithLockTimeout(opts.LockTimeout)}

	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case constants.StoreBackendFile, "":
		return NewFileStore(opts.Dir, storeOpts...)
	case constants.StoreBackendMemory:
		return NewMemoryStore(storeOpts...), nil
	case constants.StoreBackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("%w: redis backend requires a redis url", eurekaerrors.ErrConfigInvalidStore)
		}
		return NewRedisStore(opts.RedisURL, opts.RedisMaxIdle, opts.RedisIdleTimeout, storeOpts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", eurekaerrors.ErrConfigInvalidStore, opts.Backend)
	}
}
