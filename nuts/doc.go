// Package nuts implements the transition kernels that advance one chain by
// one draw: the No-U-Turn sampler (recursive trajectory doubling with
// multinomial state selection) and a static fixed-length HMC kernel.
//
// # No-U-Turn transitions
//
// Each call to Kernel.Transition resamples momentum, then grows a binary
// trajectory by doubling: at each doubling the trajectory is extended either
// forward or backward in time (equal probability) by a subtree of the
// current size. Subtrees are combined by multinomial sampling over path
// probabilities exp(H0 − H), unbiased within a subtree and biased toward
// the fresh subtree across doublings, so longer useful trajectories pull
// the selected state away from the start while leaving the target density
// invariant.
//
// Growth stops when any of the following holds:
//
//   - No-U-turn: at the trajectory (or any subtree) extremes, the momentum
//     no longer carries the trajectory away from its span, measured with
//     metric-aware velocities: ⟨q⁺−q⁻, Σp⁻⟩ < 0 or ⟨q⁺−q⁻, Σp⁺⟩ < 0.
//   - Divergence: a leaf's energy error H − H0 exceeds MaxEnergyError
//     (default 1000) or is non-finite. The subtree is excluded; the
//     transition still returns a (possibly unchanged) sample flagged
//     Divergent.
//   - Depth cap: MaxTreeDepth doublings completed (default 10). Not an
//     error; the cap is simply recorded in Sample.TreeDepth.
//
// The first doubling is always attempted, so MaxTreeDepth==0 performs
// exactly one leapfrog step and reports depth 0.
//
// The reported AcceptStat is the trajectory-averaged Metropolis acceptance
// probability min(1, exp(H0 − H)) over every integrator step taken,
// including steps inside rejected subtrees; the dual-averaging controller
// in adapt consumes exactly this statistic.
//
// # Determinism
//
// Transitions consume randomness only through the supplied *rand.Rand
// (momentum draws, direction choices, multinomial selection); a fixed seed
// reproduces the chain exactly.
//
// # What kernels never touch
//
// A kernel updates the persistent PhasePoint and nothing else: the Metric
// and step size are mutated only by the warmup adapters in package adapt.
package nuts
