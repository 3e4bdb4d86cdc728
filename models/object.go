// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TimestampLayout is the wall-clock layout used when timestamps are compared
// as text (SQLite) or rendered in filters and reports.
const TimestampLayout = "2006-01-02 15:04:05"

// Object is a locally stored object of a given schema. Data holds the
// schema-shaped payload; the remaining fields are storage metadata exposed
// to filters under the "_self" namespace.
type Object struct {
	ID        string         `json:"id"`
	SchemaRef string         `json:"schema_ref"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Synchronizations lists the synchronization records linked to the
	// object. It is empty until the object has been synchronized at least
	// once.
	Synchronizations []Synchronization `json:"synchronizations,omitempty"`
}

// Value returns the value stored in Data under key, or nil.
func (o Object) Value(key string) any {
	if o.Data == nil {
		return nil
	}
	return o.Data[key]
}

// Payload returns the object data enriched with a "_self" metadata block,
// the shape published on the bus and handed to mappings.
func (o Object) Payload() map[string]any {
	payload := make(map[string]any, len(o.Data)+1)
	for k, v := range o.Data {
		payload[k] = v
	}

	self := map[string]any{
		"id":          o.ID,
		"schema":      map[string]any{"ref": o.SchemaRef},
		"dateCreated": o.CreatedAt.UTC().Format(TimestampLayout),
	}
	if !o.UpdatedAt.IsZero() {
		self["dateModified"] = o.UpdatedAt.UTC().Format(TimestampLayout)
	}
	payload["_self"] = self

	return payload
}

// SearchResult is the answer of an object search.
type SearchResult struct {
	Results []Object `json:"results"`
	Total   int      `json:"total"`
}
