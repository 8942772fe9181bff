package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKnownCounts(t *testing.T) {
	tests := []struct {
		seed uint64
		n    uint64
		want uint64
	}{
		{42, 1, 1},
		{42, 5, 5},
		{42, 10, 10},
		{42, 100, 80},
		{42, 1000, 803},
		{42, 10000, 7797},
		{1, 5, 2},
		{1, 100, 79},
		{1, 1000, 797},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, Run(tt.n, tt.seed), "Run(%d, %d)", tt.n, tt.seed)
	}
}

func TestRunDeterministic(t *testing.T) {
	for _, seed := range []uint64{1, 42, 0x9e3779b97f4a7c15, math.MaxUint64} {
		assert.Equal(t, Run(5000, seed), Run(5000, seed))
	}
}

func TestRunZeroLength(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42} {
		assert.Zero(t, Run(0, seed))
	}
}

func TestRunZeroSeedCountsEverything(t *testing.T) {
	for _, n := range []uint64{0, 1, 17, 10000} {
		assert.Equal(t, n, Run(n, 0))
	}
}

func TestRunRange(t *testing.T) {
	for seed := uint64(1); seed < 50; seed++ {
		got := Run(200, seed)
		require.LessOrEqual(t, got, uint64(200))
	}
}

func TestRunConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 10M sample run in short mode")
	}

	const n = 10_000_000
	inside := Run(n, 42)

	assert.Equal(t, uint64(7853478), inside)
	assert.InDelta(t, math.Pi, Estimate(inside, n), 0.01)
}

func TestRunObservedMonotonic(t *testing.T) {
	var calls []uint64
	last := uint64(0)

	got := RunObserved(1000, 42, 1, func(done, inside uint64) {
		require.Equal(t, uint64(len(calls)+1), done)
		require.GreaterOrEqual(t, inside, last)
		require.LessOrEqual(t, inside, last+1)
		require.LessOrEqual(t, inside, done)

		last = inside
		calls = append(calls, inside)
	})

	assert.Equal(t, uint64(803), got)
	assert.Len(t, calls, 1000)
	assert.Equal(t, got, calls[len(calls)-1])
}

func TestRunObservedReporting(t *testing.T) {
	type report struct{ done, inside uint64 }

	collect := func(n, every uint64) []report {
		var reports []report
		RunObserved(n, 42, every, func(done, inside uint64) {
			reports = append(reports, report{done, inside})
		})
		return reports
	}

	t.Run("every divides n", func(t *testing.T) {
		reports := collect(100, 25)
		require.Len(t, reports, 4)
		assert.Equal(t, uint64(25), reports[0].done)
		assert.Equal(t, report{100, 80}, reports[3])
	})

	t.Run("final partial chunk", func(t *testing.T) {
		reports := collect(100, 30)
		require.Len(t, reports, 4)
		assert.Equal(t, report{100, 80}, reports[3])
	})

	t.Run("end only", func(t *testing.T) {
		assert.Equal(t, []report{{100, 80}}, collect(100, 0))
	})

	t.Run("empty run", func(t *testing.T) {
		assert.Equal(t, []report{{0, 0}}, collect(0, 10))
	})

	t.Run("nil callback", func(t *testing.T) {
		assert.Equal(t, uint64(80), RunObserved(100, 42, 10, nil))
	})
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0.0, Estimate(0, 0))
	assert.Equal(t, 4.0, Estimate(5, 5))
	assert.Equal(t, 3.2, Estimate(80, 100))
	assert.Equal(t, 3.212, Estimate(803, 1000))
}

func BenchmarkRun(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Run(10000, 42)
	}
}

func TestRunObservedMatchesRun(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 1 << 63} {
		assert.Equal(t, Run(3000, seed), RunObserved(3000, seed, 7, func(uint64, uint64) {}))
	}
}
