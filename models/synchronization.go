// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Synchronization links one local object to one remote source and entity
// type. At most one record exists per (ObjectID, SourceID) pair.
type Synchronization struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	ObjectID string `json:"object_id"`
	Entity   string `json:"entity"`

	// LastSynced is the time of the last successful push or pull.
	LastSynced *time.Time `json:"last_synced,omitempty"`
	// SourceLastChanged is the remote-side modification time as observed.
	SourceLastChanged *time.Time `json:"source_last_changed,omitempty"`
	// LastChecked is the time of the most recent comparison.
	LastChecked *time.Time `json:"last_checked,omitempty"`

	// Hash is the hex sha384 digest of the canonical remote response body.
	Hash string `json:"hash"`
}

// IsNew reports whether the record has never been synchronized.
func (s Synchronization) IsNew() bool {
	return s.LastSynced == nil
}
