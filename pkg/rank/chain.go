package rank

import (
	"cmp"
	"slices"
)

// Comparator returns a negative number when a sorts before b, a positive
// number when b sorts before a and zero when neither is preferred.
type Comparator[T any] func(a, b T) int

// Chain evaluates tiers in order and returns the first non-zero result.
// A chain of strict weak orderings is itself a strict weak ordering.
func Chain[T any](tiers ...Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		for _, tier := range tiers {
			if c := tier(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// PreferTrue sorts true before false.
func PreferTrue(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// Ascending sorts smaller values first.
func Ascending[K cmp.Ordered](a, b K) int {
	return cmp.Compare(a, b)
}

// Descending sorts larger values first.
func Descending[K cmp.Ordered](a, b K) int {
	return cmp.Compare(b, a)
}

// By lifts a comparator over keys into a comparator over values.
func By[T any, K any](key func(T) K, compare Comparator[K]) Comparator[T] {
	return func(a, b T) int {
		return compare(key(a), key(b))
	}
}

// optional is a value that may be missing. Missing values sort after every
// present value.
type optional struct {
	value int
	ok    bool
}

func descendingOptional(a, b optional) int {
	if c := PreferTrue(a.ok, b.ok); c != 0 {
		return c
	}
	if !a.ok {
		return 0
	}
	return Descending(a.value, b.value)
}

// sortStable builds one entry per item, sorts the entries stably and
// returns the items in the new order. items is left untouched.
func sortStable[T any, E any](items []T, build func(i int, item T) E, compare Comparator[E], unwrap func(E) T) []T {
	entries := make([]E, len(items))
	for i, item := range items {
		entries[i] = build(i, item)
	}
	slices.SortStableFunc(entries, compare)

	sorted := make([]T, len(entries))
	for i, e := range entries {
		sorted[i] = unwrap(e)
	}
	return sorted
}
