package sampler_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/hmc/sampler"
)

// TestOptions_PanicOnNonsense verifies every option constructor rejects
// programmer-error inputs by panicking, matching the constructor contract.
func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { sampler.WithWarmup(-1) })
	assert.Panics(t, func() { sampler.WithSamples(-1) })
	assert.Panics(t, func() { sampler.WithThinning(0) })
	assert.Panics(t, func() { sampler.WithTargetAccept(0) })
	assert.Panics(t, func() { sampler.WithTargetAccept(1) })
	assert.Panics(t, func() { sampler.WithTargetAccept(math.NaN()) })
	assert.Panics(t, func() { sampler.WithMaxTreeDepth(-1) })
	assert.Panics(t, func() { sampler.WithStepsizeJitter(-0.1) })
	assert.Panics(t, func() { sampler.WithStepsizeJitter(1.0) })
	assert.Panics(t, func() { sampler.WithInitialStepsize(-1) })
	assert.Panics(t, func() { sampler.WithInitialStepsize(math.Inf(1)) })
	assert.Panics(t, func() { sampler.WithStaticSteps(0) })
	assert.Panics(t, func() { sampler.WithInitRetries(0) })
	assert.Panics(t, func() { sampler.WithInitialPosition(nil) })
	assert.Panics(t, func() { sampler.WithAdaptationWindows(-1, 0, 0) })
}

// TestOptions_BoundaryValuesAccepted pins the legal edges of each range.
func TestOptions_BoundaryValuesAccepted(t *testing.T) {
	assert.NotPanics(t, func() { sampler.WithWarmup(0) })
	assert.NotPanics(t, func() { sampler.WithSamples(0) })
	assert.NotPanics(t, func() { sampler.WithThinning(1) })
	assert.NotPanics(t, func() { sampler.WithMaxTreeDepth(0) })
	assert.NotPanics(t, func() { sampler.WithStepsizeJitter(0) })
	assert.NotPanics(t, func() { sampler.WithInitialStepsize(0) })
	assert.NotPanics(t, func() { sampler.WithStaticSteps(1) })
	assert.NotPanics(t, func() { sampler.WithAdaptationWindows(0, 0, 0) })
}

// TestOptions_InitialPositionIsCopied guards against aliasing: mutating the
// caller's slice after constructing the option must not leak into the chain.
func TestOptions_InitialPositionIsCopied(t *testing.T) {
	q := []float64{0.5}
	opt := sampler.WithInitialPosition(q)
	q[0] = math.NaN()

	s, err := sampler.New(iidNormalModel{dim: 1}, opt,
		sampler.WithWarmup(10), sampler.WithSamples(1))
	assert.NoError(t, err)

	var w sampler.MemoryWriter
	assert.NoError(t, s.Run(context.Background(), &w))
}

// TestOptions_NilLoggerKeepsDefault verifies WithLogger(nil) keeps the
// discard logger rather than installing a nil sink.
func TestOptions_NilLoggerKeepsDefault(t *testing.T) {
	s, err := sampler.New(iidNormalModel{dim: 1}, sampler.WithLogger(nil),
		sampler.WithWarmup(10), sampler.WithSamples(1))
	assert.NoError(t, err)
	assert.NoError(t, s.Run(context.Background(), &sampler.MemoryWriter{}))
}
