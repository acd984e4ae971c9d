package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.eureka/logs/eureka.log
	CLILogFileName = "eureka.log"
)

// Configuration file names.
const (
	// ConfigFileName is the name of both the global (~/.eureka/config.yaml)
	// and the project (.eureka/config.yaml) configuration file.
	ConfigFileName = "config.yaml"
)

// Task file names.
const (
	// TaskFileExt is the extension of stored task files.
	TaskFileExt = ".json"

	// LockFileExt is the extension of per-task lock files.
	LockFileExt = ".lock"
)

// RedisKeyPrefix namespaces every key eureka writes to Redis.
const RedisKeyPrefix = "eureka"
