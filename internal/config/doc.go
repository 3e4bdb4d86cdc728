// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON config file
//
// The main entry points are [GetStructuredConfig] for runtime settings and
// [LoadResources] for the YAML registry of sources, mappings, schemas and
// handlers. [ParseTimeModifier] evaluates the duration expressions used by
// handler discovery filters.
package config
