package rng

// permutes a uint64 state according to xorshift64
// https://www.jstatsoft.org/article/view/v008i14
func xorshift64PermuteState(s *uint64) uint64 {
	x := *s

	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17

	*s = x

	return x
}
