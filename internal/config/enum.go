package config

import (
	"fmt"
	"sort"
	"strings"
)

// enum maps case-insensitive spellings onto typed values.
type enum[T comparable] struct {
	values map[string]T
	keys   []string
}

func newEnum[T comparable](values map[string]T) *enum[T] {
	e := &enum[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		k = clean(k)
		e.values[k] = v
		e.keys = append(e.keys, k)
	}
	sort.Strings(e.keys)
	return e
}

// parse returns the value spelled by raw.
func (e *enum[T]) parse(raw string) (T, error) {
	if v, ok := e.values[clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %s", raw, strings.Join(e.keys, ", "))
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
