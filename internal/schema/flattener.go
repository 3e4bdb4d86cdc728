// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package schema

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// RefKey is the key marking a schema reference.
const RefKey = "$ref"

// Flatten resolves every "$ref" in fragment against fragment itself.
// The input is never modified; the result is a deep copy.
func Flatten(fragment map[string]any) (map[string]any, error) {
	return FlattenWithBase(fragment, fragment)
}

// FlattenWithBase resolves every "$ref" in fragment against base. Resolved
// nodes are flattened against the same base and merged into the node that
// referenced them, resolved fields winning over siblings of the "$ref" key.
func FlattenWithBase(fragment, base map[string]any) (map[string]any, error) {
	if fragment == nil {
		return nil, nil
	}

	f := &flattener{base: base}
	return f.flattenMap(fragment, nil)
}

type flattener struct {
	base map[string]any
}

// flattenMap flattens node. path holds the references being resolved, in
// resolution order.
func (f *flattener) flattenMap(node map[string]any, path []string) (map[string]any, error) {
	result := make(map[string]any, len(node))

	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == RefKey {
			continue
		}
		value, err := f.flattenValue(node[key], path)
		if err != nil {
			return nil, err
		}
		result[key] = value
	}

	rawRef, ok := node[RefKey]
	if !ok {
		return result, nil
	}

	ref, ok := rawRef.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string, got %T", ErrSchemaResolution, RefKey, rawRef)
	}
	if slices.Contains(path, ref) {
		chain := append(slices.Clone(path), ref)
		return nil, fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(chain, " -> "))
	}

	target, err := f.lookup(ref)
	if err != nil {
		return nil, err
	}

	targetMap, ok := target.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q points at a %T, not an object", ErrSchemaResolution, ref, target)
	}

	resolved, err := f.flattenMap(targetMap, append(slices.Clone(path), ref))
	if err != nil {
		return nil, err
	}

	for k, v := range resolved {
		result[k] = v
	}

	return result, nil
}

func (f *flattener) flattenValue(value any, path []string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return f.flattenMap(v, path)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			flattened, err := f.flattenValue(item, path)
			if err != nil {
				return nil, err
			}
			out[i] = flattened
		}
		return out, nil
	default:
		return v, nil
	}
}

// lookup walks the base document along ref. The first segment ("#") is
// discarded; the remaining ones are object keys or list indexes.
func (f *flattener) lookup(ref string) (any, error) {
	segments := strings.Split(ref, "/")
	if segments[0] != "#" && segments[0] != "" {
		return nil, fmt.Errorf("%w: %q is not a root-relative reference", ErrSchemaResolution, ref)
	}

	var current any = f.base
	for _, raw := range segments[1:] {
		segment := unescapePointer(raw)

		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, fmt.Errorf("%w: %q: segment %q not found", ErrSchemaResolution, ref, segment)
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("%w: %q: index %q out of range", ErrSchemaResolution, ref, segment)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("%w: %q: segment %q not found", ErrSchemaResolution, ref, segment)
		}
	}

	return current, nil
}

func unescapePointer(segment string) string {
	if !strings.Contains(segment, "~") {
		return segment
	}
	return strings.ReplaceAll(strings.ReplaceAll(segment, "~1", "/"), "~0", "~")
}
