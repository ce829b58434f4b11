// Package rank produces sorted top/bottom-N slices from aggregate collections.
package rank

import (
	"math"
	"sort"
)

// Direction fixes, per metric domain, whether a lower or higher key is better.
// It is configuration, never inferred from the data.
type Direction int

const (
	// AscendingBest means lower values rank best (e.g. PM2.5 concentration).
	AscendingBest Direction = iota

	// DescendingBest means higher values rank best (e.g. water coverage).
	DescendingBest
)

// DefaultN is the leaderboard length used by the overview pipelines.
const DefaultN = 15

// Top splits a collection into best-first and worst-first slices of at most n
// entries each. Entries with a non-finite key are excluded. Sorting is stable,
// so entries with equal keys keep their input (first-seen) order; with fewer
// than n valid entries both slices simply contain all of them.
func Top[T any](items []T, key func(T) float64, dir Direction, n int) (best, worst []T) {
	valid := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if math.IsNaN(k) || math.IsInf(k, 0) {
			continue
		}
		valid = append(valid, item)
	}

	ascending := make([]T, len(valid))
	copy(ascending, valid)
	sort.SliceStable(ascending, func(i, j int) bool {
		return key(ascending[i]) < key(ascending[j])
	})

	descending := make([]T, len(valid))
	copy(descending, valid)
	sort.SliceStable(descending, func(i, j int) bool {
		return key(descending[i]) > key(descending[j])
	})

	if dir == AscendingBest {
		return truncate(ascending, n), truncate(descending, n)
	}
	return truncate(descending, n), truncate(ascending, n)
}

// Valid returns the entries with a finite key, preserving input order.
func Valid[T any](items []T, key func(T) float64) []T {
	valid := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if math.IsNaN(k) || math.IsInf(k, 0) {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}

func truncate[T any](items []T, n int) []T {
	if n < 0 || n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
