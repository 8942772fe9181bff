package sampler

import (
	"sync"

	"github.com/xor-shift/montecarlo/util"
	"github.com/xor-shift/montecarlo/util/rng"
)

// MaxWorkers bounds the fan-out of RunParallel.
const MaxWorkers = 256

type partial struct {
	worker int
	inside uint64
}

// WorkerSeeds derives one seed per worker from a xorshift64 stream started at
// seed. The derived seeds are non-zero whenever seed is.
func WorkerSeeds(seed uint64, workers int) []uint64 {
	seeder := rng.NewXorshift64(seed)
	seeds := make([]uint64, workers)

	for i := range seeds {
		seeds[i] = seeder.Next()
	}

	return seeds
}

// RunParallel splits n across workers goroutines, each with its own
// generator, and sums their counts. The per-worker counts are returned in
// worker order.
//
// With workers <= 1 the result is identical to Run(n, seed). Otherwise the
// total is deterministic for a given (n, seed, workers) but differs from the
// single-stream count.
func RunParallel(n, seed uint64, workers int) (uint64, []uint64) {
	if workers <= 1 {
		inside := Run(n, seed)
		return inside, []uint64{inside}
	}

	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	shares := util.SplitEvenly(n, workers)
	seeds := WorkerSeeds(seed, workers)

	wg := &sync.WaitGroup{}
	results := make(chan partial, workers)

	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(worker int) {
			defer wg.Done()

			results <- partial{
				worker: worker,
				inside: Run(shares[worker], seeds[worker]),
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	partials := make([]uint64, workers)
	total := uint64(0)

	for p := range results {
		partials[p.worker] = p.inside
		total += p.inside
	}

	return total, partials
}
