// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors reported by the request handlers before the service layer
// is reached. Callers can match against them with [errors.Is].
var (
	// ErrInvalidLimit is returned when the "limit" query parameter of a pass
	// run is not a non-negative integer.
	ErrInvalidLimit = errors.New("invalid `limit` query parameter")

	// ErrInvalidBody is returned when a request body is empty or is not a
	// JSON object.
	ErrInvalidBody = errors.New("request body must be a JSON object")

	// ErrIntegrityCheck is returned when the body digest announced by the
	// client does not match the received body.
	ErrIntegrityCheck = errors.New("integrity check failed")
)
