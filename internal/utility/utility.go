package utility

import "math/rand/v2"

// Between returns a uniformly random value in [lo, hi].
func Between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Float64()*(hi-lo)
}

// Pick returns a uniformly random element of items, or the zero value when empty.
func Pick[T any](items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rand.IntN(len(items))]
}
