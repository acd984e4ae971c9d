// Package constants provides centralized constant values used throughout eureka.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by eureka for organizing data.
const (
	// EurekaHome is the hidden directory name where eureka stores all its data.
	// This directory is created in the user's home directory and, for project
	// overrides, in the project root.
	EurekaHome = ".eureka"

	// ProjectsDir is the directory name under the store root holding one
	// directory per project.
	ProjectsDir = "projects"

	// TasksDir is the directory name where task files are stored inside a project.
	TasksDir = "tasks"

	// TemplatesDir is the default directory for task template files.
	TemplatesDir = "templates"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// EnvPrefix is the prefix for environment variable overrides (EUREKA_STORE_BACKEND, ...).
const EnvPrefix = "EUREKA"

// Store backends.
const (
	// StoreBackendFile keeps tasks as JSON files under the eureka home directory.
	StoreBackendFile = "file"

	// StoreBackendMemory keeps tasks in process memory only.
	StoreBackendMemory = "memory"

	// StoreBackendRedis keeps tasks in Redis hashes.
	StoreBackendRedis = "redis"
)

// Timeout configurations for various operations.
const (
	// DefaultLockTimeout is the maximum duration to wait for a task file lock.
	DefaultLockTimeout = 5 * time.Second

	// LockRetryInterval is the pause between attempts to acquire a task file lock.
	LockRetryInterval = 50 * time.Millisecond

	// DefaultRedisIdleTimeout closes idle Redis connections after this duration.
	DefaultRedisIdleTimeout = 4 * time.Minute

	// DefaultRedisMaxIdle is the number of idle Redis connections kept in the pool.
	DefaultRedisMaxIdle = 4
)

// Schema version constants for data migration support.
const (
	// TaskSchemaVersion is the current version of the stored task format.
	TaskSchemaVersion = 1
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size in megabytes at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)
