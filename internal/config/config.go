// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Storage dialects supported by the object store.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// StructuredConfig is the top-level configuration container for the case
// synchronization engine. It aggregates all sub-configurations and is
// populated by merging values from defaults, environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the name and version.
	App App `envPrefix:"APP_"`

	// Storage holds the object store connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP trigger API settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds defaults for outbound calls to remote sources.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds the scheduling settings used by `serve`.
	Workers Workers `envPrefix:"WORKERS_"`

	// Engine tunes the synchronization passes.
	Engine Engine `envPrefix:"ENGINE_"`

	// Log configures log level and the optional rotating log file.
	Log Log `envPrefix:"LOG_"`

	// ResourcesPath is the path to the YAML registry of sources, mappings,
	// schemas and handlers.
	// Env: RESOURCES_PATH
	ResourcesPath string `env:"RESOURCES_PATH"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Name is reported by the version endpoint and used as the log role.
	// Env: APP_NAME
	Name string `env:"NAME"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration of the object store.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the database connection string: a file path (or "file:" URI)
	// for SQLite, a postgres:// URL for PostgreSQL.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Dialect is "sqlite" or "postgres". When empty it is derived from DSN.
	// Env: STORAGE_DB_DIALECT
	Dialect string `env:"DIALECT"`
}

// Server holds network and timeout settings for the HTTP trigger API.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request. Pass runs triggered over HTTP are bound by it.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds defaults for remote calls. A source timeout overrides
// RequestTimeout.
type Adapter struct {
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Env: ADAPTER_USER_AGENT
	UserAgent string `env:"USER_AGENT"`
}

// Workers holds configuration for scheduled passes.
type Workers struct {
	// SyncInterval is the delay between two scheduled passes of a handler.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// Handlers lists the handler names run on schedule. Empty runs none.
	// Env: WORKERS_HANDLERS (comma separated)
	Handlers []string `env:"HANDLERS" envSeparator:","`
}

// Engine tunes synchronization passes.
type Engine struct {
	// Concurrency is the default number of candidates processed at once.
	// Env: ENGINE_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// ObjectLocking serializes overlapping passes on the same object.
	// Env: ENGINE_OBJECT_LOCKING
	ObjectLocking bool `env:"OBJECT_LOCKING"`

	// SkipUnchanged keeps the sync timestamps when the remote content hash
	// did not change, touching only the last-checked time.
	// Env: ENGINE_SKIP_UNCHANGED
	SkipUnchanged bool `env:"SKIP_UNCHANGED"`

	// BusMaxAttempts is the number of deliveries attempted per bus message.
	// Env: ENGINE_BUS_MAX_ATTEMPTS
	BusMaxAttempts int `env:"BUS_MAX_ATTEMPTS"`
}

// Log configures logging.
type Log struct {
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`
	// File enables a rotating log file at this path.
	// Env: LOG_FILE
	File string `env:"FILE"`
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
	// Env: LOG_MAX_AGE_DAYS
	MaxAgeDays int `env:"MAX_AGE_DAYS"`
}

// defaultConfig holds the values used when no source sets a field.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{Name: "casesync"},
		Storage: Storage{
			DB: DB{DSN: "casesync.db"},
		},
		Server: Server{RequestTimeout: 5 * time.Minute},
		Adapter: Adapter{
			RequestTimeout: 30 * time.Second,
			UserAgent:      "casesync",
		},
		Workers: Workers{SyncInterval: time.Minute},
		Engine: Engine{
			Concurrency:    1,
			BusMaxAttempts: 3,
		},
		Log: Log{
			Level:      "debug",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		ResourcesPath: "resources.yaml",
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags (nil flags are skipped)
//  4. JSON file (path resolved from sources 2 and 3)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(flags *FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(flags).
		withJSON().
		build()
}
