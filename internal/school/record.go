// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Tolerant, read-only accessors over a decoded school record.

package school

import (
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// FieldState describes what a record lookup found at a path.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldPresent
	FieldMalformed
)

func (s FieldState) String() string {
	switch s {
	case FieldPresent:
		return "present"
	case FieldMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Record is a decoded JSON object. Path segments address nested objects by key
// and list elements by decimal index.
type Record map[string]any

func (r Record) lookup(path []string) (any, bool) {
	var cur any = map[string]any(r)
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Record:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Has reports whether a non-null value exists at path.
func (r Record) Has(path ...string) bool {
	_, ok := r.lookup(path)
	return ok
}

// Float reads a finite number. Numeric strings are accepted; booleans,
// objects and lists are malformed.
func (r Record) Float(path ...string) (float64, FieldState) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, FieldAbsent
	}
	switch t := v.(type) {
	case bool, map[string]any, []any:
		return 0, FieldMalformed
	case string:
		if t == "" {
			return 0, FieldAbsent
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, FieldMalformed
	}
	return f, FieldPresent
}

// String reads a non-empty string.
func (r Record) String(path ...string) (string, FieldState) {
	v, ok := r.lookup(path)
	if !ok {
		return "", FieldAbsent
	}
	s, isString := v.(string)
	if !isString {
		return "", FieldMalformed
	}
	if s == "" {
		return "", FieldAbsent
	}
	return s, FieldPresent
}

// Strings reads a list of strings. Non-string elements make the list malformed.
func (r Record) Strings(path ...string) ([]string, FieldState) {
	v, ok := r.lookup(path)
	if !ok {
		return nil, FieldAbsent
	}
	list, isList := v.([]any)
	if !isList {
		return nil, FieldMalformed
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if _, isString := item.(string); !isString {
			return nil, FieldMalformed
		}
		out = append(out, cast.ToString(item))
	}
	return out, FieldPresent
}

// Count returns the length of a list, whatever its element types.
func (r Record) Count(path ...string) (int, FieldState) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, FieldAbsent
	}
	list, isList := v.([]any)
	if !isList {
		return 0, FieldMalformed
	}
	return len(list), FieldPresent
}

// Object reports whether path holds an object and how many keys it has.
func (r Record) Object(path ...string) (int, FieldState) {
	v, ok := r.lookup(path)
	if !ok {
		return 0, FieldAbsent
	}
	switch obj := v.(type) {
	case map[string]any:
		return len(obj), FieldPresent
	case Record:
		return len(obj), FieldPresent
	default:
		return 0, FieldMalformed
	}
}
