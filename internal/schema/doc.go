// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package schema resolves internal JSON Schema references.
//
// A reference is a "$ref" key whose value is a root-relative pointer such as
// "#/definitions/address". [Flatten] replaces every such key with the fields
// of the node it points to, so the resulting document is self-contained and
// can be used directly to drive field mappings.
//
// Resolution is bounded: a pointer into a missing node fails with
// [ErrSchemaResolution] and a pointer that leads back to itself fails with
// [ErrCyclicReference].
package schema
