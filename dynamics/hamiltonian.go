// Package dynamics - Hamiltonian energy evaluation.
//
// This file owns the model boundary: every log-density/gradient call in the
// module flows through Hamiltonian.Refresh, which maps model failures and
// non-finite values to the single recoverable sentinel ErrNonFiniteDensity.
package dynamics

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmc/core"
)

// ErrNonFiniteDensity indicates the model produced a non-finite log-density
// or gradient, or rejected the position as out of support. Callers treat it
// as a divergence, not a fatal error.
var ErrNonFiniteDensity = errors.New("dynamics: non-finite log-density or gradient")

// Hamiltonian evaluates total energy and owns calls to the external model.
// It reads, never mutates, the chain's Metric.
//
// Not safe for concurrent use; each chain owns its own Hamiltonian.
type Hamiltonian struct {
	model  core.Model
	metric *core.Metric

	// vbuf is scratch for velocity Σp in the leapfrog position update.
	vbuf []float64
}

// NewHamiltonian pairs a model with a metric of matching dimension.
//
// Errors: core.ErrDimensionMismatch when the dimensions disagree.
func NewHamiltonian(model core.Model, metric *core.Metric) (*Hamiltonian, error) {
	if model.Dim() != metric.Dim() {
		return nil, core.ErrDimensionMismatch
	}

	return &Hamiltonian{
		model:  model,
		metric: metric,
		vbuf:   make([]float64, model.Dim()),
	}, nil
}

// Metric exposes the metric for momentum sampling and velocity computation.
func (h *Hamiltonian) Metric() *core.Metric { return h.metric }

// Dim reports the model dimension.
func (h *Hamiltonian) Dim() int { return h.model.Dim() }

// Refresh evaluates the model at z.Position, caching log-density and
// gradient on z. Any model error or non-finite result is wrapped into
// ErrNonFiniteDensity; the cache is left unspecified on failure and callers
// must discard z or restore it from a checkpoint.
//
// Complexity: one model evaluation.
func (h *Hamiltonian) Refresh(z *core.PhasePoint) error {
	lp, err := h.model.LogDensityGradient(z.Position, z.Gradient)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNonFiniteDensity, err)
	}
	if math.IsNaN(lp) || math.IsInf(lp, 0) {
		return fmt.Errorf("%w: log-density %v", ErrNonFiniteDensity, lp)
	}
	for i, g := range z.Gradient {
		if math.IsNaN(g) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: gradient[%d] %v", ErrNonFiniteDensity, i, g)
		}
	}
	z.LogDensity = lp

	return nil
}

// Init samples a fresh momentum from N(0, Σ⁻¹) and refreshes the cached
// model evaluation at z.Position. Called once at the start of every
// transition.
func (h *Hamiltonian) Init(z *core.PhasePoint, rng *rand.Rand) error {
	h.metric.SampleMomentum(z.Momentum, rng)

	return h.Refresh(z)
}

// SampleMomentum resamples only the momentum, leaving the position cache
// untouched. Used by the step-size search, which restores the position from
// a checkpoint between probes.
func (h *Hamiltonian) SampleMomentum(z *core.PhasePoint, rng *rand.Rand) {
	h.metric.SampleMomentum(z.Momentum, rng)
}

// Energy returns H(z) = -log π(q) + ½·pᵀΣp using the cached log-density.
// The caller is responsible for the cache being fresh (Refresh/Init).
//
// Complexity: O(D) for unit/diag metrics, O(D²) for dense.
func (h *Hamiltonian) Energy(z *core.PhasePoint) float64 {
	return -z.LogDensity + h.metric.Kinetic(z.Momentum)
}
