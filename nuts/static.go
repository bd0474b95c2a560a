// Package nuts - static (fixed-length) HMC transition kernel.
//
// Plain HMC is a configuration choice, not a separate sampler hierarchy:
// Static satisfies the same transition contract as Kernel, replacing tree
// doubling with a fixed number of leapfrog steps and a single Metropolis
// accept/reject at the trajectory end.
package nuts

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/dynamics"
)

// DefaultStaticSteps is the fixed leapfrog count for plain-HMC kernels.
const DefaultStaticSteps = 32

// Static is a fixed-step-count HMC kernel. One Static serves one chain.
type Static struct {
	h         *dynamics.Hamiltonian
	steps     int
	maxDeltaH float64

	// work is the trajectory endpoint, reused across transitions.
	work *core.PhasePoint
}

// NewStatic builds a plain-HMC kernel over h taking steps leapfrog steps
// per transition. steps <= 0 selects DefaultStaticSteps; maxDeltaH <= 0
// selects DefaultMaxEnergyError.
func NewStatic(h *dynamics.Hamiltonian, steps int, maxDeltaH float64) *Static {
	if steps <= 0 {
		steps = DefaultStaticSteps
	}
	if maxDeltaH <= 0 {
		maxDeltaH = DefaultMaxEnergyError
	}

	return &Static{
		h:         h,
		steps:     steps,
		maxDeltaH: maxDeltaH,
		work:      core.NewPhasePoint(h.Dim()),
	}
}

// Transition integrates a fixed-length trajectory from z and applies one
// Metropolis correction. A divergent trajectory is rejected outright and
// reported through Sample.Divergent.
func (s *Static) Transition(z *core.PhasePoint, eps float64, rng *rand.Rand) (core.Sample, error) {
	if err := s.h.Init(z, rng); err != nil {
		return core.Sample{}, fmt.Errorf("nuts: current state invalid: %w", err)
	}
	h0 := s.h.Energy(z)
	if math.IsNaN(h0) || math.IsInf(h0, 0) {
		return core.Sample{}, fmt.Errorf("nuts: current state invalid: %w", dynamics.ErrNonFiniteDensity)
	}

	s.work.CopyFrom(z)

	var (
		divergent bool
		taken     int
	)
	for i := 0; i < s.steps; i++ {
		taken++
		if err := dynamics.Leapfrog(s.h, s.work, eps); err != nil {
			divergent = true

			break
		}
		if h := s.h.Energy(s.work); math.IsNaN(h) || h-h0 > s.maxDeltaH {
			divergent = true

			break
		}
	}

	alpha := 0.0
	energy := h0
	if !divergent {
		h1 := s.h.Energy(s.work)
		alpha = math.Min(1, math.Exp(h0-h1))
		if rng.Float64() < alpha {
			z.CopyFrom(s.work)
			energy = h1
		}
	}

	pos := make([]float64, len(z.Position))
	copy(pos, z.Position)

	return core.Sample{
		Position:    pos,
		LogDensity:  z.LogDensity,
		AcceptStat:  alpha,
		TreeDepth:   0,
		Divergent:   divergent,
		NumLeapfrog: taken,
		Energy:      energy,
	}, nil
}
