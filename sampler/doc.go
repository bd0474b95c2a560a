// Package sampler composes the transition kernels and warmup adapters into
// the per-chain iteration loop, and drives multiple independent chains.
//
// # State machine
//
// One chain moves through INITIALIZING → WARMUP → SAMPLING → DONE:
//
//   - INITIALIZING: find (or validate) a starting position with finite
//     density and gradient, then run the one-shot step-size search.
//   - WARMUP (num_warmup iterations): one transition, then dual-averaging
//     step-size learning, then windowed metric learning. Whenever a metric
//     window closes, the step size is re-initialized against the new metric
//     and dual averaging is re-anchored at log(10·ε) and restarted —
//     trading a short re-settling period for a metric-consistent step size.
//   - WARMUP → SAMPLING: metric and step size freeze (ε ← exp(x̄)).
//   - SAMPLING (num_samples iterations): transitions only.
//
// Each iteration in either phase produces exactly one Sample; warmup writes
// can be suppressed (WithoutWarmupSamples) and sampling-phase writes thinned
// (WithThinning).
//
// # Concurrency & cancellation
//
// One chain is strictly single-threaded; chains share nothing but the
// configuration and derive decorrelated RNG streams from one seed
// (core.DeriveRNG). RunChains runs each chain on its own goroutine. The
// context is polled once per iteration boundary, never mid-trajectory, and
// the already-produced sample is flushed before stopping.
//
// # Errors
//
//	ErrInitialization - no finite starting point found within the retry budget (fatal).
//	ErrWriter         - the sample writer failed (fatal; wraps the cause).
//
// Fatal errors from collaborators pass through unwrapped where they carry
// their own sentinels: dynamics.ErrImproperPosterior,
// dynamics.ErrStepsizeSearch, adapt.ErrAdaptation. Every fatal error aborts
// only the owning chain.
package sampler
