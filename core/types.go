// Package core - phase-space value types and shared sentinels.
//
// This file declares PhasePoint, Sample, the Model contract, and the
// sentinel errors shared across packages.
//
// Design:
//   - Value semantics with explicit Clone/CopyFrom; no hidden sharing.
//   - Strict sentinels; no fmt.Errorf where a sentinel suffices.
//   - Hot-path discipline: CopyFrom reuses buffers, Clone allocates once.
package core

import "errors"

// Sentinel errors shared by phase-space operations.
var (
	// ErrDimensionMismatch indicates a slice or matrix whose shape disagrees
	// with the model dimension.
	ErrDimensionMismatch = errors.New("core: dimension mismatch")

	// ErrMetricNotPositiveDefinite indicates a proposed mass-matrix update
	// that is not finite and positive-definite.
	ErrMetricNotPositiveDefinite = errors.New("core: metric not positive-definite")
)

// Model is the external target-density contract consumed by the sampler.
//
// LogDensityGradient evaluates the log-density at q and writes ∇log π(q)
// into grad (len(grad) == Dim()). A model may return an error for positions
// outside its support; callers map that to a divergence, never a fatal error.
//
// Implementations must not retain q or grad, and must not mutate shared
// state visible to other chains (see the concurrency contract in sampler).
type Model interface {
	// Dim reports the dimension D of the position space.
	Dim() int

	// LogDensityGradient returns log π(q) and writes its gradient into grad.
	LogDensityGradient(q, grad []float64) (float64, error)
}

// PhasePoint holds one point of Hamiltonian phase space together with the
// cached model evaluation at its position.
//
// The cache (LogDensity, Gradient) is valid only while Position is unchanged
// since the last model evaluation; dynamics.Hamiltonian owns that refresh.
type PhasePoint struct {
	// Position is the model-space coordinate q, length D.
	Position []float64

	// Momentum is the auxiliary momentum p, length D.
	Momentum []float64

	// LogDensity caches log π(Position).
	LogDensity float64

	// Gradient caches ∇log π(Position), length D.
	Gradient []float64
}

// NewPhasePoint allocates a zero PhasePoint of dimension dim.
//
// Complexity: O(D) time and space.
func NewPhasePoint(dim int) *PhasePoint {
	return &PhasePoint{
		Position: make([]float64, dim),
		Momentum: make([]float64, dim),
		Gradient: make([]float64, dim),
	}
}

// Dim reports the dimension of the point.
func (z *PhasePoint) Dim() int { return len(z.Position) }

// Clone returns an independent deep copy of z.
//
// Complexity: O(D) time and space.
func (z *PhasePoint) Clone() *PhasePoint {
	c := NewPhasePoint(len(z.Position))
	c.CopyFrom(z)

	return c
}

// CopyFrom overwrites z with src, reusing z's buffers.
// The two points must have equal dimension; misuse is a programmer error
// and panics via the built-in copy bounds check upstream.
//
// Complexity: O(D) time, zero allocations.
func (z *PhasePoint) CopyFrom(src *PhasePoint) {
	copy(z.Position, src.Position)
	copy(z.Momentum, src.Momentum)
	copy(z.Gradient, src.Gradient)
	z.LogDensity = src.LogDensity
}

// Sample is the public output of one transition. Ownership passes to the
// caller; the sampler never retains a produced Sample.
type Sample struct {
	// Position is the selected position, length D. Freshly allocated per
	// transition so writers may retain it.
	Position []float64

	// LogDensity is log π(Position).
	LogDensity float64

	// AcceptStat is the trajectory-averaged Metropolis acceptance
	// probability across the expansion steps.
	AcceptStat float64

	// TreeDepth is the number of completed doublings (0-based cap index).
	TreeDepth int

	// Divergent reports whether any trajectory segment exceeded the energy
	// error threshold or produced a non-finite energy.
	Divergent bool

	// NumLeapfrog is the total count of integrator steps taken.
	NumLeapfrog int

	// Energy is the Hamiltonian H at the selected point.
	Energy float64
}
