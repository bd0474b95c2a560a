// SPDX-License-Identifier: MIT

// Package adapt - windowed metric adapter.
package adapt

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/hmc/core"
)

// ErrAdaptation indicates a closed covariance window produced a non-finite
// or non-positive-definite estimate. Fatal: continuing with a degenerate
// metric would invalidate the Markov chain.
var ErrAdaptation = errors.New("adapt: degenerate metric estimate at window close")

// Shrinkage constants: var' = (n/(n+5))·var + 1e-3·(5/(n+5)).
const (
	shrinkPseudoCount = 5.0
	shrinkFloor       = 1e-3
)

// MetricAdapter owns metric mutation during warmup: it accumulates chain
// positions inside estimation windows and rewrites the metric at every
// window close. It is the only component allowed to mutate a Metric.
type MetricAdapter struct {
	metric *core.Metric
	sched  *WindowSchedule

	// Exactly one of these is non-nil, matching the metric kind.
	varEst *VarianceEstimator
	covEst *CovarianceEstimator

	// varBuf/covBuf hold the window's regularized estimate.
	varBuf []float64
	covBuf *mat.SymDense
}

// NewMetricAdapter pairs a metric with a window schedule. Unit metrics
// carry no estimate; the adapter still tracks the schedule so callers
// observe the same window cadence regardless of kind.
func NewMetricAdapter(metric *core.Metric, sched *WindowSchedule) *MetricAdapter {
	a := &MetricAdapter{metric: metric, sched: sched}
	switch metric.Kind() {
	case core.DiagMetric:
		a.varEst = NewVarianceEstimator(metric.Dim())
		a.varBuf = make([]float64, metric.Dim())
	case core.DenseMetric:
		a.covEst = NewCovarianceEstimator(metric.Dim())
		a.covBuf = mat.NewSymDense(metric.Dim(), nil)
	}

	return a
}

// Learn feeds one warmup position into the open estimation window and
// reports whether the metric was rewritten (i.e. a window just closed).
// The caller reacts to true by re-initializing the step size against the
// new metric.
//
// Errors: ErrAdaptation (fatal) when the closed window's estimate is
// non-finite or fails factorization.
func (a *MetricAdapter) Learn(position []float64) (bool, error) {
	inWindow := a.sched.InWindow()
	closing := a.sched.Closing()
	a.sched.Advance()

	if !inWindow {
		return false, nil
	}

	switch {
	case a.varEst != nil:
		a.varEst.AddSample(position)
	case a.covEst != nil:
		a.covEst.AddSample(position)
	}

	if !closing {
		return false, nil
	}

	if err := a.rewrite(); err != nil {
		return false, err
	}

	return true, nil
}

// rewrite computes the regularized window estimate, stores it into the
// metric, and resets the estimator for the next (doubled) window.
func (a *MetricAdapter) rewrite() error {
	switch {
	case a.varEst != nil:
		n := float64(a.varEst.Count())
		a.varEst.SampleVariance(a.varBuf)
		shrink := n / (n + shrinkPseudoCount)
		floor := shrinkFloor * (shrinkPseudoCount / (n + shrinkPseudoCount))
		for i, v := range a.varBuf {
			a.varBuf[i] = shrink*v + floor
		}
		if !finiteAll(a.varBuf) {
			return fmt.Errorf("%w: diagonal variance", ErrAdaptation)
		}
		if err := a.metric.SetDiagonal(a.varBuf); err != nil {
			return fmt.Errorf("%w: %v", ErrAdaptation, err)
		}
		a.varEst.Reset()

	case a.covEst != nil:
		n := float64(a.covEst.Count())
		a.covEst.SampleCovariance(a.covBuf)
		shrink := n / (n + shrinkPseudoCount)
		floor := shrinkFloor * (shrinkPseudoCount / (n + shrinkPseudoCount))
		d := a.covBuf.SymmetricDim()
		var i, j int
		for i = 0; i < d; i++ {
			for j = i; j < d; j++ {
				v := shrink * a.covBuf.At(i, j)
				if i == j {
					v += floor
				}
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("%w: covariance entry (%d,%d)", ErrAdaptation, i, j)
				}
				a.covBuf.SetSym(i, j, v)
			}
		}
		if err := a.metric.SetDense(a.covBuf); err != nil {
			return fmt.Errorf("%w: %v", ErrAdaptation, err)
		}
		a.covEst.Reset()

	default:
		// Unit metric: nothing to estimate, but the window cadence is
		// still honored so step-size re-anchoring fires uniformly.
	}

	return nil
}

// finiteAll reports whether every entry is finite.
func finiteAll(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
