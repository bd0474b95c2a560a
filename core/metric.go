// SPDX-License-Identifier: MIT

// Package core - mass-matrix metric as a tagged variant.
//
// The Metric reshapes the momentum distribution to match the target's
// covariance structure. Three representations are supported:
//
//   - UnitMetric  — identity; zero storage, zero arithmetic overhead.
//   - DiagMetric  — per-coordinate variances (diagonal Σ).
//   - DenseMetric — full covariance Σ with a cached Cholesky factor.
//
// Convention: the stored quantity is the estimated posterior covariance Σ,
// i.e. the inverse mass matrix. Momentum is N(0, Σ⁻¹), kinetic energy is
// ½·pᵀΣp, velocity is Σp. With Σ = LLᵀ, a momentum draw is the triangular
// solve Lᵀp = z for z ~ N(0, I).
//
// Invariant: a Metric is always finite and positive-definite. Mutators
// reject any update that would break this (ErrMetricNotPositiveDefinite);
// the previous metric stays in force on rejection.
package core

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MetricKind tags the Metric representation.
type MetricKind uint8

const (
	// UnitMetric uses the identity mass matrix.
	UnitMetric MetricKind = iota

	// DiagMetric uses a diagonal inverse mass matrix (one variance per coordinate).
	DiagMetric

	// DenseMetric uses a full positive-definite inverse mass matrix.
	DenseMetric
)

// String implements fmt.Stringer for diagnostics.
func (k MetricKind) String() string {
	switch k {
	case UnitMetric:
		return "unit"
	case DiagMetric:
		return "diag"
	case DenseMetric:
		return "dense"
	default:
		return "unknown"
	}
}

// Metric is the mass-matrix representation read by the Hamiltonian on every
// integration step and mutated only at adaptation-window boundaries.
//
// Not safe for concurrent use; each chain owns its own Metric.
type Metric struct {
	kind MetricKind
	dim  int

	// variance holds diagonal Σ entries (DiagMetric only).
	variance []float64

	// cov and chol hold dense Σ and its factorization (DenseMetric only).
	cov  *mat.SymDense
	chol mat.Cholesky

	// zbuf is scratch for the dense momentum solve.
	zbuf *mat.VecDense
}

// NewMetric returns an identity-initialized Metric of the given kind and
// dimension. Panics on dim <= 0 (programmer error, as with nonsensical
// option values elsewhere in this module).
//
// Complexity: O(D) for unit/diag, O(D²) for dense.
func NewMetric(kind MetricKind, dim int) *Metric {
	if dim <= 0 {
		panic("core: NewMetric: dim must be positive")
	}
	m := &Metric{kind: kind, dim: dim}

	switch kind {
	case DiagMetric:
		m.variance = make([]float64, dim)
		for i := range m.variance {
			m.variance[i] = 1
		}
	case DenseMetric:
		m.cov = mat.NewSymDense(dim, nil)
		for i := 0; i < dim; i++ {
			m.cov.SetSym(i, i, 1)
		}
		// Identity always factorizes.
		m.chol.Factorize(m.cov)
		m.zbuf = mat.NewVecDense(dim, nil)
	}

	return m
}

// Kind reports the representation tag.
func (m *Metric) Kind() MetricKind { return m.kind }

// Dim reports the dimension D.
func (m *Metric) Dim() int { return m.dim }

// SampleMomentum overwrites p with a draw from N(0, Σ⁻¹) using rng.
//
// Complexity: O(D) for unit/diag, O(D²) for dense (one triangular solve).
func (m *Metric) SampleMomentum(p []float64, rng *rand.Rand) {
	switch m.kind {
	case DiagMetric:
		var i int
		for i = range p {
			p[i] = rng.NormFloat64() / math.Sqrt(m.variance[i])
		}
	case DenseMetric:
		for i := 0; i < m.dim; i++ {
			m.zbuf.SetVec(i, rng.NormFloat64())
		}
		// Solve Lᵀp = z so that Cov(p) = L⁻ᵀL⁻¹ = Σ⁻¹.
		var l mat.TriDense
		m.chol.LTo(&l)
		pv := mat.NewVecDense(m.dim, p)
		if err := pv.SolveVec(l.TTri(), m.zbuf); err != nil {
			// The factor is triangular with positive diagonal; a solve can
			// only fail if the PD invariant was broken, which mutators forbid.
			panic("core: momentum solve on non-PD metric: " + err.Error())
		}
	default:
		for i := range p {
			p[i] = rng.NormFloat64()
		}
	}
}

// Kinetic returns the kinetic energy ½·pᵀΣp.
//
// Complexity: O(D) for unit/diag, O(D²) for dense.
func (m *Metric) Kinetic(p []float64) float64 {
	switch m.kind {
	case DiagMetric:
		var sum float64
		for i, pi := range p {
			sum += m.variance[i] * pi * pi
		}

		return 0.5 * sum
	case DenseMetric:
		pv := mat.NewVecDense(m.dim, p)

		return 0.5 * mat.Inner(pv, m.cov, pv)
	default:
		return 0.5 * floats.Dot(p, p)
	}
}

// Velocity writes dq/dt = Σp into out.
//
// Complexity: O(D) for unit/diag, O(D²) for dense.
func (m *Metric) Velocity(p, out []float64) {
	switch m.kind {
	case DiagMetric:
		for i, pi := range p {
			out[i] = m.variance[i] * pi
		}
	case DenseMetric:
		ov := mat.NewVecDense(m.dim, out)
		ov.MulVec(m.cov, mat.NewVecDense(m.dim, p))
	default:
		copy(out, p)
	}
}

// SetDiagonal replaces the diagonal Σ entries. Only valid for DiagMetric.
//
// Errors:
//   - ErrDimensionMismatch when len(variance) != D or the kind is not DiagMetric.
//   - ErrMetricNotPositiveDefinite when any entry is non-finite or non-positive.
//
// Complexity: O(D).
func (m *Metric) SetDiagonal(variance []float64) error {
	if m.kind != DiagMetric || len(variance) != m.dim {
		return ErrDimensionMismatch
	}
	for _, v := range variance {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return ErrMetricNotPositiveDefinite
		}
	}
	copy(m.variance, variance)

	return nil
}

// SetDense replaces the dense Σ. Only valid for DenseMetric.
// The update is applied atomically: on any failure the previous metric,
// including its factorization, remains in force.
//
// Errors:
//   - ErrDimensionMismatch when cov is not D×D or the kind is not DenseMetric.
//   - ErrMetricNotPositiveDefinite when cov has non-finite entries or the
//     Cholesky factorization fails.
//
// Complexity: O(D³) (factorization).
func (m *Metric) SetDense(cov *mat.SymDense) error {
	if m.kind != DenseMetric || cov.SymmetricDim() != m.dim {
		return ErrDimensionMismatch
	}
	var i, j int
	for i = 0; i < m.dim; i++ {
		for j = i; j < m.dim; j++ {
			if v := cov.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return ErrMetricNotPositiveDefinite
			}
		}
	}

	var chol mat.Cholesky
	if !chol.Factorize(cov) {
		return ErrMetricNotPositiveDefinite
	}

	m.cov.CopySym(cov)
	m.chol = chol

	return nil
}

// VarianceSnapshot returns a fresh copy of the diagonal of Σ, for logging
// metric snapshots at window close. Unit metrics report all ones.
//
// Complexity: O(D) time and space.
func (m *Metric) VarianceSnapshot() []float64 {
	out := make([]float64, m.dim)
	switch m.kind {
	case DiagMetric:
		copy(out, m.variance)
	case DenseMetric:
		for i := 0; i < m.dim; i++ {
			out[i] = m.cov.At(i, i)
		}
	default:
		for i := range out {
			out[i] = 1
		}
	}

	return out
}
