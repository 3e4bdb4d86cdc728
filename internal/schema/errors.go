// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import "errors"

var (
	// ErrSchemaResolution is returned when a "$ref" is not a string, is not
	// root-relative, or points at a node that does not exist in the base
	// document.
	ErrSchemaResolution = errors.New("schema reference cannot be resolved")

	// ErrCyclicReference is returned when resolving a "$ref" revisits a
	// reference that is already being resolved.
	ErrCyclicReference = errors.New("cyclic schema reference")
)
