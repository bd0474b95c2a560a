// Package sampler - multi-chain driver.
package sampler

import (
	"context"
	"sync"

	"github.com/katalvlaran/hmc/core"
)

// ChainResult bundles one chain's output. Err is non-nil when the chain
// aborted; Warmup and Samples hold whatever was flushed before the abort.
type ChainResult struct {
	Chain   int
	Warmup  []core.Sample
	Samples []core.Sample
	Err     error
}

// Divergences counts divergent sampling-phase draws.
func (r ChainResult) Divergences() int {
	var n int
	for _, s := range r.Samples {
		if s.Divergent {
			n++
		}
	}

	return n
}

// RunChains runs numChains independent chains of model concurrently, one
// goroutine per chain, each on its own SplitMix64-derived RNG substream of
// the configured seed. Chains share only the configuration; a fatal error
// in one chain never stops the others. Results are ordered by chain id.
func RunChains(ctx context.Context, model core.Model, numChains int, options ...Option) []ChainResult {
	if numChains < 1 {
		numChains = 1
	}

	results := make([]ChainResult, numChains)

	var wg sync.WaitGroup
	for c := 0; c < numChains; c++ {
		wg.Add(1)
		go func(chain int) {
			defer wg.Done()

			opts := make([]Option, 0, len(options)+1)
			opts = append(opts, options...)
			opts = append(opts, withChainStream(uint64(chain)))

			res := ChainResult{Chain: chain}
			s, err := New(model, opts...)
			if err != nil {
				res.Err = err
				results[chain] = res

				return
			}

			var w MemoryWriter
			res.Err = s.Run(ctx, &w)
			res.Warmup = w.Warmup
			res.Samples = w.Samples
			results[chain] = res
		}(c)
	}
	wg.Wait()

	return results
}
