// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Reserved filter fields. Any other field name is a dot path into the
// object data.
const (
	FieldSelfID               = "_self.id"
	FieldSelfSchemaRef        = "_self.schema.ref"
	FieldSelfDateCreated      = "_self.dateCreated"
	FieldSelfDateModified     = "_self.dateModified"
	FieldSelfSynchronizations = "_self.synchronizations"
)

// Operator is a predicate operator understood by the object store.
type Operator string

const (
	OpEqual  Operator = "equal"
	OpIsNull Operator = "is_null"
	OpLike   Operator = "like"
	OpBefore Operator = "before"
	OpIn     Operator = "in"
)

// Predicate is one condition on a field. Value is ignored for OpIsNull,
// a time.Time for OpBefore, a []string for OpIn and a scalar otherwise.
type Predicate struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
}

// Filter selects objects of the listed schemas satisfying every predicate.
type Filter struct {
	SchemaRefs []string    `json:"schema_refs,omitempty"`
	Predicates []Predicate `json:"predicates,omitempty"`
	Limit      uint64      `json:"limit,omitempty"`
}

// Where appends a predicate and returns the filter for chaining.
func (f Filter) Where(field string, op Operator, value any) Filter {
	predicates := make([]Predicate, 0, len(f.Predicates)+1)
	predicates = append(predicates, f.Predicates...)
	f.Predicates = append(predicates, Predicate{Field: field, Operator: op, Value: value})
	return f
}
