// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// errNoServersAreCreated is returned by NewServer without an HTTP
	// handler or listen address.
	errNoServersAreCreated = errors.New("no servers are created")

	// errShutdown wraps a graceful shutdown that did not finish within
	// shutdownTimeout.
	errShutdown = errors.New("server shutdown failed")
)
