package nuts_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/dynamics"
	"github.com/katalvlaran/hmc/nuts"
)

// iidNormalModel is a D-dimensional standard normal target.
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

func newNormalKernel(t *testing.T, dim, maxDepth int) (*nuts.Kernel, *core.PhasePoint) {
	t.Helper()
	h, err := dynamics.NewHamiltonian(iidNormalModel{dim: dim}, core.NewMetric(core.UnitMetric, dim))
	require.NoError(t, err)

	z := core.NewPhasePoint(dim)
	require.NoError(t, h.Refresh(z))

	return nuts.NewKernel(h, maxDepth, 0), z
}

// TestKernel_StandardNormalMoments runs a fixed-step-size chain on a 1-D
// standard normal and checks the first two moments of the draws.
func TestKernel_StandardNormalMoments(t *testing.T) {
	k, z := newNormalKernel(t, 1, nuts.DefaultMaxTreeDepth)
	rng := core.NewRNG(17)

	const (
		discard = 200
		keep    = 4000
	)
	draws := make([]float64, 0, keep)
	for i := 0; i < discard+keep; i++ {
		s, err := k.Transition(z, 0.9, rng)
		require.NoError(t, err)
		if i >= discard {
			draws = append(draws, s.Position[0])
		}
	}

	assert.InDelta(t, 0.0, stat.Mean(draws, nil), 0.1, "sample mean of N(0,1) draws")
	assert.InDelta(t, 1.0, stat.Variance(draws, nil), 0.2, "sample variance of N(0,1) draws")
}

// TestKernel_MaxDepthZero verifies the depth-cap edge case: every
// transition performs exactly one leapfrog step and reports depth 0.
func TestKernel_MaxDepthZero(t *testing.T) {
	k, z := newNormalKernel(t, 2, 0)
	rng := core.NewRNG(23)

	for i := 0; i < 200; i++ {
		s, err := k.Transition(z, 0.5, rng)
		require.NoError(t, err)
		assert.Equal(t, 1, s.NumLeapfrog, "max depth 0 takes exactly one step")
		assert.Equal(t, 0, s.TreeDepth)
	}
}

// TestKernel_Reproducible checks that a fixed seed reproduces the chain
// draw for draw.
func TestKernel_Reproducible(t *testing.T) {
	k1, z1 := newNormalKernel(t, 3, nuts.DefaultMaxTreeDepth)
	k2, z2 := newNormalKernel(t, 3, nuts.DefaultMaxTreeDepth)
	r1 := core.NewRNG(99)
	r2 := core.NewRNG(99)

	for i := 0; i < 100; i++ {
		s1, err1 := k1.Transition(z1, 0.7, r1)
		s2, err2 := k2.Transition(z2, 0.7, r2)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, s1, s2, "identical streams must yield identical samples")
	}
}

// TestKernel_AcceptStatInUnitInterval bounds the reported statistic.
func TestKernel_AcceptStatInUnitInterval(t *testing.T) {
	k, z := newNormalKernel(t, 2, nuts.DefaultMaxTreeDepth)
	rng := core.NewRNG(31)

	for i := 0; i < 300; i++ {
		s, err := k.Transition(z, 1.1, rng)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.AcceptStat, 0.0)
		assert.LessOrEqual(t, s.AcceptStat, 1.0)
		assert.GreaterOrEqual(t, s.NumLeapfrog, 1)
	}
}

// TestKernel_DivergenceRecoverable forces an immediate divergence with a
// grossly oversized step and verifies the transition survives, flags the
// draw, and leaves the chain position unchanged.
func TestKernel_DivergenceRecoverable(t *testing.T) {
	k, z := newNormalKernel(t, 1, nuts.DefaultMaxTreeDepth)
	z.Position[0] = 0.3
	rng := core.NewRNG(41)

	before := z.Position[0]
	s, err := k.Transition(z, 1e4, rng)
	require.NoError(t, err, "divergence is a diagnostic, not a failure")
	assert.True(t, s.Divergent)
	assert.Equal(t, before, z.Position[0], "divergent first doubling keeps the old state")
	assert.Equal(t, before, s.Position[0])
}

// TestKernel_InvalidStateFatal verifies that a corrupt persistent state
// (non-finite density at the current position) aborts the transition.
func TestKernel_InvalidStateFatal(t *testing.T) {
	k, z := newNormalKernel(t, 1, nuts.DefaultMaxTreeDepth)
	z.Position[0] = math.NaN()

	_, err := k.Transition(z, 0.5, core.NewRNG(1))
	assert.ErrorIs(t, err, dynamics.ErrNonFiniteDensity)
}

// TestStatic_FixedStepCount verifies the plain-HMC kernel contract:
// constant leapfrog count, depth always zero, sane moments.
func TestStatic_FixedStepCount(t *testing.T) {
	h, err := dynamics.NewHamiltonian(iidNormalModel{dim: 1}, core.NewMetric(core.UnitMetric, 1))
	require.NoError(t, err)
	z := core.NewPhasePoint(1)
	require.NoError(t, h.Refresh(z))

	s := nuts.NewStatic(h, 16, 0)
	rng := core.NewRNG(53)

	draws := make([]float64, 0, 3000)
	for i := 0; i < 3200; i++ {
		smp, terr := s.Transition(z, 0.25, rng)
		require.NoError(t, terr)
		assert.Equal(t, 16, smp.NumLeapfrog)
		assert.Equal(t, 0, smp.TreeDepth)
		if i >= 200 {
			draws = append(draws, smp.Position[0])
		}
	}

	assert.InDelta(t, 0.0, stat.Mean(draws, nil), 0.1)
	assert.InDelta(t, 1.0, stat.Variance(draws, nil), 0.25)
}
