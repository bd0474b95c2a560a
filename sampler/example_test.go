package sampler_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/hmc/sampler"
)

// ExampleSampler_Run samples a 2-D standard normal with full adaptive
// warmup and collects the draws in memory.
func ExampleSampler_Run() {
	s, err := sampler.New(iidNormalModel{dim: 2},
		sampler.WithSeed(42),
		sampler.WithWarmup(500),
		sampler.WithSamples(200),
		sampler.WithoutWarmupSamples(),
	)
	if err != nil {
		fmt.Println("setup:", err)

		return
	}

	var w sampler.MemoryWriter
	if err := s.Run(context.Background(), &w); err != nil {
		fmt.Println("run:", err)

		return
	}

	fmt.Println("draws:", len(w.Samples))
	fmt.Println("dim:", len(w.Samples[0].Position))
	// Output:
	// draws: 200
	// dim: 2
}

// ExampleRunChains runs four independent chains concurrently from one seed.
func ExampleRunChains() {
	results := sampler.RunChains(context.Background(), iidNormalModel{dim: 1}, 4,
		sampler.WithSeed(7),
		sampler.WithWarmup(200),
		sampler.WithSamples(100),
		sampler.WithoutWarmupSamples(),
	)

	for _, res := range results {
		fmt.Printf("chain %d: %d draws, err=%v\n", res.Chain, len(res.Samples), res.Err)
	}
	// Output:
	// chain 0: 100 draws, err=<nil>
	// chain 1: 100 draws, err=<nil>
	// chain 2: 100 draws, err=<nil>
	// chain 3: 100 draws, err=<nil>
}
