package adapt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hmc/adapt"
	"github.com/katalvlaran/hmc/core"
)

// closesOf replays a schedule over the full warmup and collects the
// iterations at which a window closes.
func closesOf(w *adapt.WindowSchedule, numWarmup int) []int {
	var closes []int
	for i := 0; i < numWarmup; i++ {
		if w.Closing() {
			closes = append(closes, i)
		}
		w.Advance()
	}

	return closes
}

// TestWindowSchedule_DefaultWarmup1000 pins the canonical schedule:
// doubling windows between the 75/50 buffers close at exactly these
// iterations.
func TestWindowSchedule_DefaultWarmup1000(t *testing.T) {
	w := adapt.NewWindowSchedule(1000, 0, 0, 0)
	assert.False(t, w.Shrunk())

	assert.Equal(t, []int{99, 149, 249, 449, 949}, closesOf(w, 1000))
}

// TestWindowSchedule_ExactFitSingleWindow covers warmup that fits exactly
// one base window between the buffers.
func TestWindowSchedule_ExactFitSingleWindow(t *testing.T) {
	w := adapt.NewWindowSchedule(150, 75, 50, 25)
	assert.False(t, w.Shrunk())

	assert.Equal(t, []int{99}, closesOf(w, 150))
}

// TestWindowSchedule_ShrinksSmallWarmup verifies proportional shrinking
// when the requested buffers cannot fit.
func TestWindowSchedule_ShrinksSmallWarmup(t *testing.T) {
	w := adapt.NewWindowSchedule(100, 75, 50, 25)
	assert.True(t, w.Shrunk())

	// init=15, term=10 ⇒ the single absorbed window closes at 89.
	assert.Equal(t, []int{89}, closesOf(w, 100))
}

// TestWindowSchedule_InWindowBounds checks the active-phase predicate at
// the buffer edges.
func TestWindowSchedule_InWindowBounds(t *testing.T) {
	w := adapt.NewWindowSchedule(1000, 0, 0, 0)

	for i := 0; i < 1000; i++ {
		in := w.InWindow()
		if i < 75 || i >= 950 {
			assert.False(t, in, "iteration %d is in a buffer", i)
		} else {
			assert.True(t, in, "iteration %d is in the estimation phase", i)
		}
		w.Advance()
	}
}

// TestMetricAdapter_LearnTrueExactlyAtCloses verifies that Learn returns
// true exactly at window boundaries and false otherwise.
func TestMetricAdapter_LearnTrueExactlyAtCloses(t *testing.T) {
	metric := core.NewMetric(core.DiagMetric, 1)
	sched := adapt.NewWindowSchedule(1000, 0, 0, 0)
	ma := adapt.NewMetricAdapter(metric, sched)
	rng := core.NewRNG(7)

	var closes []int
	for i := 0; i < 1000; i++ {
		updated, err := ma.Learn([]float64{rng.NormFloat64()})
		require.NoError(t, err)
		if updated {
			closes = append(closes, i)
		}
	}

	assert.Equal(t, []int{99, 149, 249, 449, 949}, closes)
}
