// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app implements the long-running `serve` mode of the
// synchronization engine.
//
// It wires the HTTP trigger API, scheduled pass workers and the bus
// consumers of inline handlers into a single process lifecycle.
package app
