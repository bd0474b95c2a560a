// Package adapt - dual-averaging step-size controller.
package adapt

import "math"

// Dual-averaging hyperparameter defaults.
const (
	// DefaultTargetAccept is δ, the target average acceptance statistic.
	DefaultTargetAccept = 0.8

	// defaultGamma scales the primal update.
	defaultGamma = 0.05

	// defaultKappa is the iterate-averaging decay exponent.
	defaultKappa = 0.75

	// defaultT0 stabilizes the early learning rate.
	defaultT0 = 10.0
)

// DualAveraging nudges the step size toward the target acceptance δ.
// Zero value is not usable; construct with NewDualAveraging.
//
// Not safe for concurrent use; each chain owns its own controller.
type DualAveraging struct {
	delta float64
	gamma float64
	kappa float64
	t0    float64

	counter int
	sBar    float64
	xBar    float64
	mu      float64
}

// NewDualAveraging returns a controller targeting acceptance delta.
// delta outside (0, 1) selects DefaultTargetAccept.
func NewDualAveraging(delta float64) *DualAveraging {
	if delta <= 0 || delta >= 1 {
		delta = DefaultTargetAccept
	}

	return &DualAveraging{
		delta: delta,
		gamma: defaultGamma,
		kappa: defaultKappa,
		t0:    defaultT0,
	}
}

// SetMu overwrites the controller's anchor, conventionally log(10·ε) of a
// freshly initialized step size.
func (da *DualAveraging) SetMu(mu float64) { da.mu = mu }

// Restart clears the averaged state. Called whenever the metric changes;
// the anchor μ is deliberately preserved (SetMu re-anchors separately).
func (da *DualAveraging) Restart() {
	da.counter = 0
	da.sBar = 0
	da.xBar = 0
}

// Learn consumes one acceptance statistic and returns the next step size.
// acceptStat above 1 is clamped (multinomial trajectories can report
// slightly above 1 through averaging noise).
func (da *DualAveraging) Learn(acceptStat float64) float64 {
	da.counter++
	if acceptStat > 1 {
		acceptStat = 1
	}

	m := float64(da.counter)
	eta := 1 / (m + da.t0)
	da.sBar = (1-eta)*da.sBar + eta*(da.delta-acceptStat)

	x := da.mu - da.sBar*math.Sqrt(m)/da.gamma
	xEta := math.Pow(m, -da.kappa)
	da.xBar = (1-xEta)*da.xBar + xEta*x

	return math.Exp(x)
}

// Adapted returns exp(x̄), the smoothed step size frozen at the end of
// warmup. Meaningless before the first Learn call.
func (da *DualAveraging) Adapted() float64 {
	return math.Exp(da.xBar)
}

// Count reports iterations since construction or the last Restart.
func (da *DualAveraging) Count() int { return da.counter }
