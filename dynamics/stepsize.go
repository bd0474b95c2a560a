// Package dynamics - one-shot step-size search.
//
// FindStepsize picks a starting ε before any trajectory is built, and is
// re-run every time the metric changes during warmup. The search is a pure
// doubling/halving bisection on the one-step energy error; it consumes
// randomness only for momentum resampling.
package dynamics

import (
	"errors"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmc/core"
)

// MaxStepsize bounds the search from above; exceeding it signals a
// likely-improper or pathological posterior.
const MaxStepsize = 1e7

// logSearchThreshold is log(0.8): the one-step energy error at which the
// search flips from growing to shrinking ε.
var logSearchThreshold = math.Log(0.8)

var (
	// ErrImproperPosterior is returned when the search exceeds MaxStepsize.
	ErrImproperPosterior = errors.New("dynamics: step-size search exceeded upper bound; posterior may be improper")

	// ErrStepsizeSearch is returned when the search decays ε to exactly zero.
	ErrStepsizeSearch = errors.New("dynamics: step-size search decayed to zero")
)

// FindStepsize searches for a step size whose one-step acceptance sits near
// 0.8, starting from the nominal eps. z supplies the current position and a
// fresh model cache; it is restored to its entry state before returning.
//
// Early exit: a nominal eps that is zero, above MaxStepsize, or non-finite
// is returned unchanged (no-op) — the caller opted out of the search.
//
// Non-finite energies are treated as +Inf, biasing the search toward
// smaller step sizes.
//
// Errors: ErrImproperPosterior, ErrStepsizeSearch.
//
// Complexity: O(search iterations), one leapfrog + one model refresh each.
func FindStepsize(h *Hamiltonian, z *core.PhasePoint, eps float64, rng *rand.Rand) (float64, error) {
	if eps == 0 || eps > MaxStepsize || math.IsNaN(eps) || math.IsInf(eps, 0) {
		return eps, nil
	}

	// Checkpoint: the search must not move the chain.
	checkpoint := z.Clone()
	defer z.CopyFrom(checkpoint)

	deltaH := probeStep(h, z, checkpoint, eps, rng)

	var direction int
	if deltaH > logSearchThreshold {
		direction = 1
	} else {
		direction = -1
	}

	for {
		deltaH = probeStep(h, z, checkpoint, eps, rng)

		if direction == 1 && !(deltaH > logSearchThreshold) {
			break
		}
		if direction == -1 && !(deltaH < logSearchThreshold) {
			break
		}

		if direction == 1 {
			eps *= 2
		} else {
			eps *= 0.5
		}

		if eps > MaxStepsize {
			return 0, ErrImproperPosterior
		}
		if eps == 0 {
			return 0, ErrStepsizeSearch
		}
	}

	return eps, nil
}

// probeStep restores z from checkpoint, resamples momentum, integrates one
// leapfrog step of size eps, and returns ΔH = H0 − H1 with non-finite
// energies collapsed to ±Inf so the comparison logic stays total.
func probeStep(h *Hamiltonian, z *core.PhasePoint, checkpoint *core.PhasePoint, eps float64, rng *rand.Rand) float64 {
	z.CopyFrom(checkpoint)
	h.SampleMomentum(z, rng)

	h0 := h.Energy(z)
	if math.IsNaN(h0) {
		h0 = math.Inf(1)
	}

	var h1 float64
	if err := Leapfrog(h, z, eps); err != nil {
		h1 = math.Inf(1)
	} else {
		h1 = h.Energy(z)
		if math.IsNaN(h1) {
			h1 = math.Inf(1)
		}
	}

	return h0 - h1
}
