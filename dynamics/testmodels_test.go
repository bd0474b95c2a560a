package dynamics_test

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// iidNormalModel is a D-dimensional standard normal target:
// log π(q) = -½·qᵀq (up to a constant), ∇log π(q) = -q.
type iidNormalModel struct{ dim int }

func (m iidNormalModel) Dim() int { return m.dim }

func (m iidNormalModel) LogDensityGradient(q, grad []float64) (float64, error) {
	var lp float64
	for i, qi := range q {
		lp -= 0.5 * qi * qi
		grad[i] = -qi
	}

	return lp, nil
}

// scaledNormalModel is a 1-D normal with precision a:
// log π(q) = -½·a·q², ∇log π(q) = -a·q.
type scaledNormalModel struct{ a float64 }

func (m scaledNormalModel) Dim() int { return 1 }

func (m scaledNormalModel) LogDensityGradient(q, grad []float64) (float64, error) {
	grad[0] = -m.a * q[0]

	return -0.5 * m.a * q[0] * q[0], nil
}

// flatModel has a constant density: the one-step energy error is always
// zero, so the step-size search doubles without bound.
type flatModel struct{ dim int }

func (m flatModel) Dim() int { return m.dim }

func (m flatModel) LogDensityGradient(q, grad []float64) (float64, error) {
	for i := range grad {
		grad[i] = 0
	}

	return 0, nil
}

// errOutOfSupport is the domain error raised by originOnlyModel.
var errOutOfSupport = errors.New("position out of support")

// originOnlyModel accepts only the origin; any leapfrog step away from it
// fails, so the step-size search halves without bound.
type originOnlyModel struct{ dim int }

func (m originOnlyModel) Dim() int { return m.dim }

func (m originOnlyModel) LogDensityGradient(q, grad []float64) (float64, error) {
	if floats.Norm(q, 2) > 0 {
		return 0, errOutOfSupport
	}
	for i := range grad {
		grad[i] = 0
	}

	return 0, nil
}
