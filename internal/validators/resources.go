// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldName targets the handler name.
	FieldName = "name"

	// FieldStrategy targets the handler strategy.
	FieldStrategy = "strategy"

	// FieldSchema targets the schema reference of a handler.
	FieldSchema = "schema"

	// FieldSource targets the source reference of a handler.
	FieldSource = "source"

	// FieldMapping targets the mapping reference of a handler.
	FieldMapping = "mapping"

	// FieldTopic targets the bus topic of a dispatch or inline handler.
	FieldTopic = "topic"

	// FieldBeforeTimeModifier targets the discovery time bound expression.
	FieldBeforeTimeModifier = "before_time_modifier"

	// FieldTypeFilter checks that at most one of caseTypes and typePrefix is set.
	FieldTypeFilter = "type_filter"

	// FieldConcurrency targets the candidate fan-out limit.
	FieldConcurrency = "concurrency"

	// FieldReference targets the registry reference of a source, mapping or schema.
	FieldReference = "reference"

	// FieldLocation targets the base URL of a source.
	FieldLocation = "location"

	// FieldTimeout targets the request timeout of a source.
	FieldTimeout = "timeout"

	// FieldRules targets the rules of a mapping.
	FieldRules = "rules"

	// FieldIdentifierField targets the natural-key field of a schema.
	FieldIdentifierField = "identifier_field"
)

var allowedStrategies = []models.Strategy{
	models.StrategyPull,
	models.StrategyPush,
	models.StrategyDispatch,
	models.StrategyInline,
}

// handlerFields lists the fields checked per strategy when none are given.
var handlerFields = map[models.Strategy][]string{
	models.StrategyPull:     {FieldName, FieldStrategy, FieldSchema, FieldSource, FieldMapping, FieldConcurrency},
	models.StrategyPush:     {FieldName, FieldStrategy, FieldSchema, FieldSource, FieldMapping, FieldBeforeTimeModifier, FieldTypeFilter, FieldConcurrency},
	models.StrategyDispatch: {FieldName, FieldStrategy, FieldSchema, FieldTopic, FieldBeforeTimeModifier, FieldTypeFilter, FieldConcurrency},
	models.StrategyInline:   {FieldName, FieldStrategy, FieldSchema, FieldSource, FieldMapping, FieldTopic},
}

// ResourceValidator implements [Validator] for the registry resources:
// models.Resources, models.HandlerConfig, models.Source, models.Mapping and
// models.Schema, as values or pointers.
//
// It checks the shape of each resource only. Whether a handler's references
// resolve is decided when the handler runs.
type ResourceValidator struct{}

// NewResourceValidator constructs a new ResourceValidator.
func NewResourceValidator() Validator {
	return &ResourceValidator{}
}

// Validate dispatches on the dynamic type of obj. Returns ErrUnsupportedType
// for anything else.
func (v *ResourceValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Resources:
		return v.validateResources(ctx, value)
	case *models.Resources:
		return v.validateResources(ctx, *value)

	case models.HandlerConfig:
		return v.validateHandler(ctx, value, fields...)
	case *models.HandlerConfig:
		return v.validateHandler(ctx, *value, fields...)

	case models.Source:
		return v.validateSource(ctx, value, fields...)
	case *models.Source:
		return v.validateSource(ctx, *value, fields...)

	case models.Mapping:
		return v.validateMapping(ctx, value, fields...)
	case *models.Mapping:
		return v.validateMapping(ctx, *value, fields...)

	case models.Schema:
		return v.validateSchema(ctx, value, fields...)
	case *models.Schema:
		return v.validateSchema(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateResources validates every entry of the registry and reports the
// first failure with the offending entry.
func (v *ResourceValidator) validateResources(ctx context.Context, r models.Resources) error {
	for _, s := range r.Sources {
		if err := v.validateSource(ctx, s); err != nil {
			return fmt.Errorf("source %q: %w", s.Reference, err)
		}
	}
	for _, m := range r.Mappings {
		if err := v.validateMapping(ctx, m); err != nil {
			return fmt.Errorf("mapping %q: %w", m.Reference, err)
		}
	}
	for _, s := range r.Schemas {
		if err := v.validateSchema(ctx, s); err != nil {
			return fmt.Errorf("schema %q: %w", s.Reference, err)
		}
	}
	for _, h := range r.Handlers {
		if err := v.validateHandler(ctx, h); err != nil {
			return fmt.Errorf("handler %q: %w", h.Name, err)
		}
	}
	return nil
}

// validateHandler validates a handler configuration. Without fields, the
// set checked depends on the strategy (see handlerFields); an unknown
// strategy fails on FieldStrategy first.
func (v *ResourceValidator) validateHandler(ctx context.Context, h models.HandlerConfig, fields ...string) error {
	if len(fields) == 0 {
		var ok bool
		if fields, ok = handlerFields[h.Strategy]; !ok {
			fields = []string{FieldName, FieldStrategy}
		}
	}

	for _, f := range fields {
		switch f {
		case FieldName:
			if h.Name == "" {
				return ErrEmptyName
			}
		case FieldStrategy:
			if !slices.Contains(allowedStrategies, h.Strategy) {
				return fmt.Errorf("%w: %q", ErrInvalidStrategy, h.Strategy)
			}
		case FieldSchema:
			if h.Schema == "" {
				return ErrEmptySchema
			}
		case FieldSource:
			if h.Source == "" {
				return ErrEmptySource
			}
		case FieldMapping:
			if h.Mapping == "" {
				return ErrEmptyMapping
			}
		case FieldTopic:
			if h.Topic == "" {
				return ErrEmptyTopic
			}
		case FieldBeforeTimeModifier:
			if _, err := config.ParseTimeModifier(h.BeforeTimeModifier, time.Now()); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidTimeModifier, err)
			}
		case FieldTypeFilter:
			if h.CaseTypes != "" && h.TypePrefix != "" {
				return ErrConflictingTypeFilters
			}
		case FieldConcurrency:
			if h.Concurrency < 0 {
				return ErrInvalidConcurrency
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateSource validates a remote source.
//
// Default validated fields: Reference, Location, Timeout.
func (v *ResourceValidator) validateSource(ctx context.Context, s models.Source, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldReference, FieldLocation, FieldTimeout}
	}

	for _, f := range fields {
		switch f {
		case FieldReference:
			if s.Reference == "" {
				return ErrEmptyReference
			}
		case FieldLocation:
			if s.Location == "" {
				return ErrEmptyLocation
			}
			u, err := url.Parse(s.Location)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return ErrInvalidLocation
			}
		case FieldTimeout:
			if s.Timeout < 0 {
				return ErrInvalidTimeout
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateMapping validates a mapping definition.
//
// Default validated fields: Reference, Rules.
func (v *ResourceValidator) validateMapping(ctx context.Context, m models.Mapping, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldReference, FieldRules}
	}

	for _, f := range fields {
		switch f {
		case FieldReference:
			if m.Reference == "" {
				return ErrEmptyReference
			}
		case FieldRules:
			if len(m.Mapping) == 0 && !m.Passthrough {
				return ErrEmptyMappingRules
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateSchema validates a schema entry.
//
// Default validated fields: Reference, IdentifierField.
func (v *ResourceValidator) validateSchema(ctx context.Context, s models.Schema, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldReference, FieldIdentifierField}
	}

	for _, f := range fields {
		switch f {
		case FieldReference:
			if s.Reference == "" {
				return ErrEmptyReference
			}
		case FieldIdentifierField:
			if s.IdentifierField == "" {
				return ErrEmptyIdentifierField
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
