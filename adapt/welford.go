// Package adapt - Welford-style online moment estimators.
//
// Both estimators accumulate in a single pass with the numerically stable
// recurrence; the covariance variant uses the symmetric rank-one form
//
//	M2 ← M2 + ((n−1)/n)·δδᵀ,  δ = x − mean_{n−1}
//
// which is algebraically identical to the textbook update but keeps M2
// exactly symmetric in floating point, so it can live in a mat.SymDense.
package adapt

import (
	"gonum.org/v1/gonum/mat"
)

// VarianceEstimator accumulates per-coordinate running variance over
// D-dimensional draws. Reset at the end of each adaptation window.
type VarianceEstimator struct {
	n    int
	mean []float64
	m2   []float64
}

// NewVarianceEstimator allocates an estimator of dimension dim.
func NewVarianceEstimator(dim int) *VarianceEstimator {
	return &VarianceEstimator{
		mean: make([]float64, dim),
		m2:   make([]float64, dim),
	}
}

// AddSample folds one draw into the running moments.
//
// Complexity: O(D), zero allocations.
func (e *VarianceEstimator) AddSample(q []float64) {
	e.n++
	inv := 1 / float64(e.n)
	for i, qi := range q {
		delta := qi - e.mean[i]
		e.mean[i] += delta * inv
		e.m2[i] += delta * (qi - e.mean[i])
	}
}

// Count reports the number of accumulated draws.
func (e *VarianceEstimator) Count() int { return e.n }

// SampleVariance writes the per-coordinate sample variance (n−1 divisor)
// into out. With fewer than two draws the variance is all zeros.
func (e *VarianceEstimator) SampleVariance(out []float64) {
	if e.n < 2 {
		for i := range out {
			out[i] = 0
		}

		return
	}
	inv := 1 / float64(e.n-1)
	for i := range out {
		out[i] = e.m2[i] * inv
	}
}

// Reset clears the estimator for the next window.
func (e *VarianceEstimator) Reset() {
	e.n = 0
	for i := range e.mean {
		e.mean[i] = 0
		e.m2[i] = 0
	}
}

// CovarianceEstimator accumulates a running full covariance over
// D-dimensional draws, for the dense metric.
type CovarianceEstimator struct {
	n    int
	mean []float64
	m2   *mat.SymDense

	// delta is scratch for the rank-one update.
	delta *mat.VecDense
}

// NewCovarianceEstimator allocates an estimator of dimension dim.
func NewCovarianceEstimator(dim int) *CovarianceEstimator {
	return &CovarianceEstimator{
		mean:  make([]float64, dim),
		m2:    mat.NewSymDense(dim, nil),
		delta: mat.NewVecDense(dim, nil),
	}
}

// AddSample folds one draw into the running moments.
//
// Complexity: O(D²), zero allocations.
func (e *CovarianceEstimator) AddSample(q []float64) {
	e.n++
	n := float64(e.n)
	for i, qi := range q {
		e.delta.SetVec(i, qi-e.mean[i])
	}
	// Symmetric rank-one form of the Welford cross-moment update.
	e.m2.SymRankOne(e.m2, (n-1)/n, e.delta)
	inv := 1 / n
	for i := range e.mean {
		e.mean[i] += e.delta.AtVec(i) * inv
	}
}

// Count reports the number of accumulated draws.
func (e *CovarianceEstimator) Count() int { return e.n }

// SampleCovariance writes the sample covariance (n−1 divisor) into dst,
// which must be D×D. With fewer than two draws dst is zeroed.
func (e *CovarianceEstimator) SampleCovariance(dst *mat.SymDense) {
	d := len(e.mean)
	if e.n < 2 {
		dst.Zero()

		return
	}
	inv := 1 / float64(e.n-1)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			dst.SetSym(i, j, e.m2.At(i, j)*inv)
		}
	}
}

// Reset clears the estimator for the next window.
func (e *CovarianceEstimator) Reset() {
	e.n = 0
	for i := range e.mean {
		e.mean[i] = 0
	}
	e.m2.Zero()
}
