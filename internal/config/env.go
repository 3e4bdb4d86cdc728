// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// envParsers overrides the caarlos0/env parsing of some field types.
var envParsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(time.Duration(0)): parseEnvDuration,
}

// parseEnv populates cfg from environment variables. Struct fields are
// mapped via their `env` and `envPrefix` tags defined on [StructuredConfig]
// and its nested types.
func parseEnv(cfg any) error {
	if err := env.ParseWithOptions(cfg, env.Options{FuncMap: envParsers}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// parseEnvDuration accepts a Go duration ("90s", "1h30m") or a bare number
// of seconds ("90"), the form most deployment manifests use for timeouts.
func parseEnvDuration(v string) (any, error) {
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	return d, nil
}
