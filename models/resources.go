// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Strategy selects how a handler moves objects between the local store and
// a remote source.
type Strategy string

const (
	// StrategyPull fetches remote items and hydrates them locally.
	StrategyPull Strategy = "pull"
	// StrategyPush maps discovered objects and pushes them inline.
	StrategyPush Strategy = "push"
	// StrategyDispatch publishes discovered objects on the bus.
	StrategyDispatch Strategy = "dispatch"
	// StrategyInline consumes a published object and pushes it.
	StrategyInline Strategy = "inline"
)

// Source is a named remote endpoint.
type Source struct {
	Reference string            `yaml:"reference" json:"reference"`
	Name      string            `yaml:"name" json:"name"`
	Location  string            `yaml:"location" json:"location"`
	Headers   map[string]string `yaml:"headers" json:"headers,omitempty"`
	Timeout   time.Duration     `yaml:"timeout" json:"timeout,omitempty"`
}

// Mapping is a declarative transformation: every Mapping entry copies the
// value found at the source dot path (value) to the target dot path (key).
type Mapping struct {
	Reference   string            `yaml:"reference" json:"reference"`
	Mapping     map[string]string `yaml:"mapping" json:"mapping"`
	Unset       []string          `yaml:"unset" json:"unset,omitempty"`
	Passthrough bool              `yaml:"passthrough" json:"passthrough"`
}

// Schema describes a local object type.
type Schema struct {
	Reference string `yaml:"reference" json:"reference"`
	// IdentifierField is the natural-key field of the schema's objects.
	IdentifierField string `yaml:"identifierField" json:"identifier_field"`
	// Definition is an optional JSON Schema document flattened before
	// mapping.
	Definition map[string]any `yaml:"definition" json:"definition,omitempty"`
}

// HandlerConfig is the configuration surface of one synchronization handler.
type HandlerConfig struct {
	Name     string   `yaml:"name" json:"name"`
	Strategy Strategy `yaml:"strategy" json:"strategy"`

	Schema  string `yaml:"schema" json:"schema,omitempty"`
	Source  string `yaml:"source" json:"source,omitempty"`
	Mapping string `yaml:"mapping" json:"mapping,omitempty"`

	// BeforeTimeModifier is a duration expression such as "-10 minutes"
	// applied to the pass start time to bound the creation date of
	// candidates.
	BeforeTimeModifier string `yaml:"beforeTimeModifier" json:"before_time_modifier,omitempty"`
	// CaseTypes is a comma separated list of type codes.
	CaseTypes  string `yaml:"caseTypes" json:"case_types,omitempty"`
	TypeField  string `yaml:"typeField" json:"type_field,omitempty"`
	TypePrefix string `yaml:"typePrefix" json:"type_prefix,omitempty"`

	Topic          string `yaml:"topic" json:"topic,omitempty"`
	DocumentTopic  string `yaml:"documentTopic" json:"document_topic,omitempty"`
	DocumentsField string `yaml:"documentsField" json:"documents_field,omitempty"`

	Endpoint         string `yaml:"endpoint" json:"endpoint,omitempty"`
	DocumentEndpoint string `yaml:"documentEndpoint" json:"document_endpoint,omitempty"`
	Entity           string `yaml:"entity" json:"entity,omitempty"`

	// Concurrency bounds the number of candidates processed at once.
	Concurrency int `yaml:"concurrency" json:"concurrency,omitempty"`
}

// Resources is the registry of sources, mappings, schemas and handlers.
type Resources struct {
	Sources  []Source        `yaml:"sources" json:"sources"`
	Mappings []Mapping       `yaml:"mappings" json:"mappings"`
	Schemas  []Schema        `yaml:"schemas" json:"schemas"`
	Handlers []HandlerConfig `yaml:"handlers" json:"handlers"`
}

// FindSource returns the source registered under reference.
func (r *Resources) FindSource(reference string) (Source, bool) {
	for _, s := range r.Sources {
		if s.Reference == reference {
			return s, true
		}
	}
	return Source{}, false
}

// FindMapping returns the mapping registered under reference.
func (r *Resources) FindMapping(reference string) (Mapping, bool) {
	for _, m := range r.Mappings {
		if m.Reference == reference {
			return m, true
		}
	}
	return Mapping{}, false
}

// FindSchema returns the schema registered under reference.
func (r *Resources) FindSchema(reference string) (Schema, bool) {
	for _, s := range r.Schemas {
		if s.Reference == reference {
			return s, true
		}
	}
	return Schema{}, false
}

// FindHandler returns the handler configured under name.
func (r *Resources) FindHandler(name string) (HandlerConfig, bool) {
	for _, h := range r.Handlers {
		if h.Name == name {
			return h, true
		}
	}
	return HandlerConfig{}, false
}

// HandlerConfigs returns every configured handler.
func (r *Resources) HandlerConfigs() []HandlerConfig {
	return r.Handlers
}
