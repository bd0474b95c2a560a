// Package core defines the phase-space value types and collaborator contracts
// shared by every other package in the module: PhasePoint, Metric, Sample,
// the Model interface supplying log-densities and gradients, and the
// deterministic RNG policy.
//
// # Data model
//
//   - PhasePoint — position q, momentum p, cached log-density and gradient.
//     Owned exclusively by one chain; Clone/CopyFrom support checkpointing
//     around a trajectory.
//   - Metric — tagged variant over {unit, diagonal, dense} mass-matrix
//     representations. Always positive-definite and finite; mutated only by
//     the warmup metric adapter, read on every integration step.
//   - Sample — the public output of one transition: new position, log-density,
//     accept statistic, tree depth, divergence flag, leapfrog count, energy.
//
// # Conventions
//
// The metric stores the estimated posterior covariance Σ (the inverse mass
// matrix). Momentum is drawn from N(0, Σ⁻¹), the kinetic energy is ½·pᵀΣp,
// and the velocity (dq/dt) is Σp. For the dense variant Σ is kept alongside
// its Cholesky factor so momentum sampling is a single triangular solve.
//
// # Determinism
//
// No package-level RNG state exists anywhere in this module. Every stochastic
// operation takes an explicit *rand.Rand; NewRNG and DeriveRNG (SplitMix64
// stream derivation) give reproducible, decorrelated per-chain streams.
//
// # Errors
//
//	ErrDimensionMismatch       - slice or matrix shape disagrees with the model dimension.
//	ErrMetricNotPositiveDefinite - a proposed metric failed the finite/PD check.
//
// See: dynamics for energies and integration, nuts for transitions,
// adapt for warmup estimation, sampler for orchestration.
package core
