// Package util collects small generic helpers shared across the engine,
// the HTTP API, and the ingestion adapter — trimmed from the teacher's
// much larger pkg/util down to what a headless engine actually needs.
package util

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Select returns a if sel is true, otherwise b. Handy for picking between
// two expressions without repeating the condition.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}

// SortedMapKeys returns the keys of m in ascending order.
func SortedMapKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// MapSlice returns the slice that results from applying xform to every
// element of from.
func MapSlice[F, T any](from []F, xform func(F) T) []T {
	to := make([]T, 0, len(from))
	for _, item := range from {
		to = append(to, xform(item))
	}
	return to
}

// FilterSlice returns a new slice containing only the elements of s for
// which pred returns true.
func FilterSlice[V any](s []V, pred func(V) bool) []V {
	var filtered []V
	for _, item := range s {
		if pred(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// DuplicateSlice returns a newly allocated copy of s.
func DuplicateSlice[V any](s []V) []V {
	dupe := make([]V, len(s))
	copy(dupe, s)
	return dupe
}
