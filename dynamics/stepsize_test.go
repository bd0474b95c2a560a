package dynamics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/dynamics"
)

// TestFindStepsize_BoundsOnNormalTarget verifies that the returned ε
// satisfies 0 < ε ≤ 1e7 and that the chain position is untouched.
func TestFindStepsize_BoundsOnNormalTarget(t *testing.T) {
	h := newHamiltonian(t, iidNormalModel{dim: 1})
	rng := core.NewRNG(3)

	z := core.NewPhasePoint(1)
	z.Position[0] = 0.5
	require.NoError(t, h.Refresh(z))
	before := z.Clone()

	eps, err := dynamics.FindStepsize(h, z, 1, rng)
	require.NoError(t, err)
	assert.Greater(t, eps, 0.0)
	assert.LessOrEqual(t, eps, dynamics.MaxStepsize)

	assert.Equal(t, before.Position, z.Position, "search must restore the chain position")
	assert.Equal(t, before.LogDensity, z.LogDensity)
}

// TestFindStepsize_ShrinksForStiffTarget checks the halving branch: a very
// high-precision target needs a step size well below the nominal 1.
func TestFindStepsize_ShrinksForStiffTarget(t *testing.T) {
	metric := core.NewMetric(core.UnitMetric, 1)
	h, err := dynamics.NewHamiltonian(scaledNormalModel{a: 1e6}, metric)
	require.NoError(t, err)
	rng := core.NewRNG(9)

	z := core.NewPhasePoint(1)
	z.Position[0] = 1e-3
	require.NoError(t, h.Refresh(z))

	eps, err := dynamics.FindStepsize(h, z, 1, rng)
	require.NoError(t, err)
	assert.Greater(t, eps, 0.0)
	assert.Less(t, eps, 0.1, "stiff target must force ε down")
}

// TestFindStepsize_EarlyExit verifies the no-op contract for out-of-range
// nominal step sizes.
func TestFindStepsize_EarlyExit(t *testing.T) {
	h := newHamiltonian(t, iidNormalModel{dim: 1})
	rng := core.NewRNG(1)
	z := core.NewPhasePoint(1)
	require.NoError(t, h.Refresh(z))

	eps, err := dynamics.FindStepsize(h, z, 0, rng)
	require.NoError(t, err)
	assert.Zero(t, eps, "ε==0 is returned unchanged")

	eps, err = dynamics.FindStepsize(h, z, 2e7, rng)
	require.NoError(t, err)
	assert.Equal(t, 2e7, eps, "ε above the bound is returned unchanged")

	eps, err = dynamics.FindStepsize(h, z, math.NaN(), rng)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(eps), "non-finite ε is returned unchanged")
}

// TestFindStepsize_ImproperPosterior checks the doubling escape: a flat
// density has zero energy error at any ε, so the search exceeds the bound.
func TestFindStepsize_ImproperPosterior(t *testing.T) {
	h := newHamiltonian(t, flatModel{dim: 1})
	rng := core.NewRNG(2)
	z := core.NewPhasePoint(1)
	require.NoError(t, h.Refresh(z))

	_, err := dynamics.FindStepsize(h, z, 1, rng)
	assert.ErrorIs(t, err, dynamics.ErrImproperPosterior)
}

// TestFindStepsize_DecaysToZero checks the halving escape: a target whose
// every step fails keeps halving until ε underflows to exactly zero.
func TestFindStepsize_DecaysToZero(t *testing.T) {
	h := newHamiltonian(t, originOnlyModel{dim: 1})
	rng := core.NewRNG(4)
	z := core.NewPhasePoint(1)
	require.NoError(t, h.Refresh(z))

	_, err := dynamics.FindStepsize(h, z, 1, rng)
	assert.ErrorIs(t, err, dynamics.ErrStepsizeSearch)
}
