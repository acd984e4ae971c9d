// Package config provides configuration management for eureka with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (EUREKA_* prefix)
//  3. Project config (.eureka/config.yaml)
//  4. Global config (~/.eureka/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

import "time"

// Config is the root configuration structure for eureka.
type Config struct {
	// Store selects and tunes the task store backend.
	Store StoreConfig `yaml:"store" mapstructure:"store"`

	// Templates contains settings for task templates.
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`

	// Dependencies contains settings for dependency cycle checks.
	Dependencies DependenciesConfig `yaml:"dependencies" mapstructure:"dependencies"`

	// Log contains settings for the CLI log file.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// StoreConfig contains settings for task persistence.
type StoreConfig struct {
	// Backend is one of "file", "memory" or "redis".
	// Default: "file"
	Backend string `yaml:"backend" mapstructure:"backend"`

	// Dir is the root directory of the file store.
	// Default: empty, meaning ~/.eureka
	Dir string `yaml:"dir" mapstructure:"dir"`

	// RedisURL is the redis:// URL used by the redis backend.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`

	// RedisMaxIdle is the number of idle connections kept in the pool.
	// Default: 4
	RedisMaxIdle int `yaml:"redis_max_idle" mapstructure:"redis_max_idle"`

	// RedisIdleTimeout closes idle connections after this duration.
	// Default: 4 minutes
	RedisIdleTimeout time.Duration `yaml:"redis_idle_timeout" mapstructure:"redis_idle_timeout"`

	// LockTimeout bounds how long the file store waits for a task lock.
	// Default: 5 seconds
	LockTimeout time.Duration `yaml:"lock_timeout" mapstructure:"lock_timeout"`
}

// TemplatesConfig contains settings for task templates.
type TemplatesConfig struct {
	// Dir holds custom template files (*.yaml, *.yml, *.json). Templates
	// found here replace built-in templates of the same name.
	// Relative paths are resolved against the working directory.
	// Default: .eureka/templates
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// DependenciesConfig contains settings for dependency cycle checks.
type DependenciesConfig struct {
	// Snapshot loads every task of the project once before a check instead
	// of reading tasks one by one during the traversal.
	// Default: false
	Snapshot bool `yaml:"snapshot" mapstructure:"snapshot"`
}

// LogConfig contains settings for the rotating CLI log file.
type LogConfig struct {
	// File is the path of the log file.
	// Default: empty, meaning ~/.eureka/logs/eureka.log
	File string `yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int `yaml:"max_size_mb" mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `yaml:"max_backups" mapstructure:"max_backups"`

	// MaxAgeDays is the number of days rotated files are kept.
	MaxAgeDays int `yaml:"max_age_days" mapstructure:"max_age_days"`
}
