// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package mapper

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/MKhiriev/go-case-sync/models"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type pathMapper struct{}

// NewMapper returns a [Mapper] backed by gjson/sjson path expressions.
func NewMapper() Mapper {
	return &pathMapper{}
}

// Map implements [Mapper]. With Passthrough the input is copied first;
// mapping entries are then applied in target-path order and Unset paths
// are removed last.
func (m *pathMapper) Map(mapping models.Mapping, input map[string]any) (map[string]any, error) {
	if input == nil {
		input = map[string]any{}
	}

	src, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	out := []byte("{}")
	if mapping.Passthrough {
		out = append([]byte(nil), src...)
	}

	targets := make([]string, 0, len(mapping.Mapping))
	for target := range mapping.Mapping {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		value := gjson.GetBytes(src, mapping.Mapping[target])
		if !value.Exists() {
			continue
		}

		out, err = sjson.SetRawBytes(out, target, []byte(value.Raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTargetPath, target, err)
		}
	}

	for _, path := range mapping.Unset {
		out, err = sjson.DeleteBytes(out, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidTargetPath, path, err)
		}
	}

	result := make(map[string]any)
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return result, nil
}
