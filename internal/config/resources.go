// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MKhiriev/go-case-sync/models"
	"gopkg.in/yaml.v3"
)

// Defaults applied to registry entries that leave the field empty.
const (
	DefaultIdentifierField  = "identificatie"
	DefaultTypeField        = "embedded.zaaktype.identificatie"
	DefaultEndpoint         = "/api/requests"
	DefaultDocumentEndpoint = "/api/documents"
	DefaultDocumentsField   = "documents"
	DefaultEntity           = "requests"
)

// LoadResources reads the YAML registry at path. Unknown keys are rejected,
// defaults are applied and duplicate references are reported as
// [ErrDuplicateResource].
func LoadResources(path string) (*models.Resources, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadingResources, err)
	}

	return ParseResources(raw)
}

// ParseResources decodes a YAML registry document.
func ParseResources(raw []byte) (*models.Resources, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	resources := &models.Resources{}
	if err := decoder.Decode(resources); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrReadingResources, err)
	}

	if err := checkDuplicates(resources); err != nil {
		return nil, err
	}

	applyResourceDefaults(resources)
	return resources, nil
}

func applyResourceDefaults(r *models.Resources) {
	for i := range r.Schemas {
		if r.Schemas[i].IdentifierField == "" {
			r.Schemas[i].IdentifierField = DefaultIdentifierField
		}
	}

	for i := range r.Handlers {
		h := &r.Handlers[i]
		if h.TypeField == "" {
			h.TypeField = DefaultTypeField
		}
		if h.Endpoint == "" {
			h.Endpoint = DefaultEndpoint
		}
		if h.DocumentEndpoint == "" {
			h.DocumentEndpoint = DefaultDocumentEndpoint
		}
		if h.DocumentsField == "" {
			h.DocumentsField = DefaultDocumentsField
		}
		if h.Entity == "" {
			h.Entity = DefaultEntity
		}
	}
}

func checkDuplicates(r *models.Resources) error {
	seen := make(map[string]struct{})
	check := func(kind, key string) error {
		id := kind + "/" + key
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s %q", ErrDuplicateResource, kind, key)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, s := range r.Sources {
		if err := check("source", s.Reference); err != nil {
			return err
		}
	}
	for _, m := range r.Mappings {
		if err := check("mapping", m.Reference); err != nil {
			return err
		}
	}
	for _, s := range r.Schemas {
		if err := check("schema", s.Reference); err != nil {
			return err
		}
	}
	for _, h := range r.Handlers {
		if err := check("handler", h.Name); err != nil {
			return err
		}
	}

	return nil
}
