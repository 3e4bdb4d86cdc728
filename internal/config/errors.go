// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid remote call settings
	// (for example, a negative request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an unsupported dialect).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid scheduling settings
	// (for example, a negative sync interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidEngineConfigs indicates invalid pass settings
	// (for example, zero concurrency).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
	// ErrInvalidResourcesConfigs indicates a missing resource registry path.
	ErrInvalidResourcesConfigs = errors.New("invalid resources configuration")
)

// Errors returned while loading the resource registry and evaluating
// handler settings.
var (
	// ErrReadingResources is returned when the registry file cannot be read
	// or decoded.
	ErrReadingResources = errors.New("error reading resources")
	// ErrDuplicateResource is returned when two resources of the same kind
	// share a reference or name.
	ErrDuplicateResource = errors.New("duplicate resource")
	// ErrInvalidTimeModifier is returned when a duration expression cannot
	// be evaluated.
	ErrInvalidTimeModifier = errors.New("invalid time modifier")
)
