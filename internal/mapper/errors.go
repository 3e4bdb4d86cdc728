// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mapper

import "errors"

var (
	// ErrInvalidInput is returned when the input cannot be encoded as JSON.
	ErrInvalidInput = errors.New("mapping input is not serializable")
	// ErrInvalidTargetPath is returned when a target or unset path is not a
	// valid sjson path.
	ErrInvalidTargetPath = errors.New("invalid mapping target path")
)
