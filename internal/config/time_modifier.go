// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var relativeModifier = regexp.MustCompile(`^([+-]?)\s*(\d+)\s*(seconds?|secs?|minutes?|mins?|hours?|days?|weeks?)(\s+ago)?$`)

var modifierUnits = map[string]time.Duration{
	"sec":    time.Second,
	"second": time.Second,
	"min":    time.Minute,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
}

var naturalParser = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseTimeModifier applies a duration expression to now. Accepted forms:
//
//	"-10 minutes", "+1 hour", "10 minutes ago"  relative amounts
//	"-90s", "-1h30m"                            Go durations
//	"yesterday", "last week"                    natural language
//
// An empty expression returns now unchanged.
func ParseTimeModifier(expr string, now time.Time) (time.Time, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return now, nil
	}

	if m := relativeModifier.FindStringSubmatch(expr); m != nil {
		amount, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidTimeModifier, expr, err)
		}

		unit := modifierUnits[strings.TrimSuffix(m[3], "s")]
		offset := time.Duration(amount) * unit
		if m[1] == "-" || m[4] != "" {
			offset = -offset
		}
		return now.Add(offset), nil
	}

	if d, err := time.ParseDuration(strings.ReplaceAll(expr, " ", "")); err == nil {
		return now.Add(d), nil
	}

	r, err := naturalParser.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidTimeModifier, expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeModifier, expr)
	}

	return r.Time, nil
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries.
func SplitList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
