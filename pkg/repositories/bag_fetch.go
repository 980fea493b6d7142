package repositories

import (
	"cmp"
	"slices"
)

// positionsOf records where each id sits in items.
func positionsOf[T any](items []T, idOf func(T) int64) map[int64]int {
	positions := make(map[int64]int, len(items))
	for i, item := range items {
		positions[idOf(item)] = i
	}
	return positions
}

// reorderByPosition sorts fetched back into the order captured by positions.
// Items missing from positions sort last, keeping their relative order.
func reorderByPosition[T any](fetched []T, positions map[int64]int, idOf func(T) int64) []T {
	out := slices.Clone(fetched)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(position(positions, idOf(a)), position(positions, idOf(b)))
	})
	return out
}

func position(positions map[int64]int, id int64) int {
	if p, ok := positions[id]; ok {
		return p
	}
	return len(positions)
}
