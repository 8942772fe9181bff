// Package sampler estimates π by drawing points in the unit square and
// counting the ones that land inside the unit quarter-disk.
package sampler

import (
	"github.com/xor-shift/montecarlo/util/rng"
)

// Run draws n (x, y) pairs from a xorshift64 generator seeded with seed and
// returns how many satisfy x*x+y*y <= 1.
//
// x is always drawn before y. A zero seed yields a stream of zeros, so every
// point is the origin and Run returns n.
func Run(n, seed uint64) uint64 {
	state := rng.NewXorshift64(seed)
	inside := uint64(0)

	for i := uint64(0); i < n; i++ {
		x := state.NextFloat()
		y := state.NextFloat()

		if x*x+y*y <= 1.0 {
			inside++
		}
	}

	return inside
}

// RunObserved is Run with progress reporting. fn is called with the number of
// completed iterations and the running count after every `every` iterations,
// and once more when the loop ends unless that point was already reported.
// every == 0 only reports the end. fn may be nil.
func RunObserved(n, seed, every uint64, fn func(done, inside uint64)) uint64 {
	state := rng.NewXorshift64(seed)
	inside := uint64(0)

	for i := uint64(0); i < n; i++ {
		x := state.NextFloat()
		y := state.NextFloat()

		if x*x+y*y <= 1.0 {
			inside++
		}

		if fn != nil && every != 0 && (i+1)%every == 0 {
			fn(i+1, inside)
		}
	}

	if fn != nil && (every == 0 || n%every != 0 || n == 0) {
		fn(n, inside)
	}

	return inside
}

// Estimate turns an inside count into the π estimate 4*inside/n. It returns 0
// for n == 0.
func Estimate(inside, n uint64) float64 {
	if n == 0 {
		return 0
	}

	return 4.0 * float64(inside) / float64(n)
}
