// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package mapper transforms structured payloads according to declarative
// [models.Mapping] definitions.
//
// Paths use gjson syntax for reading ("embedded.zaaktype.identificatie",
// "documents.#.file") and sjson syntax for writing. A source path that does
// not resolve leaves the target absent; it is never an error.
package mapper

import "github.com/MKhiriev/go-case-sync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/mapper_mock.go -package=mock

// Mapper applies a mapping definition to an input structure.
type Mapper interface {
	// Map returns a new structure built from input by mapping. It does not
	// modify input.
	Map(mapping models.Mapping, input map[string]any) (map[string]any, error)
}
