// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// applyDerived fills fields whose value follows from other fields.
func (cfg *StructuredConfig) applyDerived() {
	if cfg.Storage.DB.Dialect == "" {
		dsn := strings.ToLower(cfg.Storage.DB.DSN)
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			cfg.Storage.DB.Dialect = DialectPostgres
		} else {
			cfg.Storage.DB.Dialect = DialectSQLite
		}
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.DB.Dialect != DialectSQLite && cfg.Storage.DB.Dialect != DialectPostgres {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.RequestTimeout < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Engine.Concurrency < 1 || cfg.Engine.BusMaxAttempts < 1 {
		return ErrInvalidEngineConfigs
	}

	if cfg.ResourcesPath == "" {
		return ErrInvalidResourcesConfigs
	}

	return nil
}
