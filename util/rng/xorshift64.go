package rng

import (
	"math"

	"github.com/xor-shift/montecarlo/util"
)

// maxUint64 rounds up to 2^64 as a float64, so the all-ones state maps to 1.0.
const maxUint64 = float64(math.MaxUint64)

// Xorshift64State is Marsaglia's xorshift64 with the (13, 7, 17) triple.
//
// Zero is a fixed point of the transform: a generator seeded with 0 returns 0
// forever. Callers are expected to pass a non-zero seed; the generator does
// not check.
type Xorshift64State struct {
	State uint64
}

func NewXorshift64(seed uint64) *Xorshift64State {
	return &Xorshift64State{
		State: seed,
	}
}

// Next advances the state and returns it.
func (state *Xorshift64State) Next() uint64 {
	return xorshift64PermuteState(&state.State)
}

// NextFloat advances the state and returns it scaled into [0, 1].
func (state *Xorshift64State) NextFloat() float64 {
	return float64(state.Next()) / maxUint64
}

func (state *Xorshift64State) String() string {
	return util.ArrayToString([]uint64{state.State})
}

// Vector is one step of a generator: the raw state after the step and the
// float NextFloat would have returned for it.
type Vector struct {
	State uint64  `json:"state"`
	Float float64 `json:"float"`
}

// Vectors returns the first k steps of a generator seeded with seed.
func Vectors(seed uint64, k int) []Vector {
	state := NewXorshift64(seed)
	ret := make([]Vector, 0, k)

	for i := 0; i < k; i++ {
		s := state.Next()
		ret = append(ret, Vector{
			State: s,
			Float: float64(s) / maxUint64,
		})
	}

	return ret
}
