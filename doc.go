// Package hmc is an adaptive Hamiltonian Monte Carlo / No-U-Turn sampling
// library: given a differentiable target log-density it produces a sequence
// of correlated draws approximating that density, tuning its own step size
// and mass-matrix metric during warmup.
//
// 🚀 What is hmc?
//
//	A deterministic, composition-first sampling core that brings together:
//		• Phase-space primitives: positions, momenta, unit/diagonal/dense metrics
//		• Hamiltonian dynamics: symplectic leapfrog integration
//		• No-U-Turn transitions: recursive doubling with multinomial selection
//		• Warmup adaptation: dual-averaging step size + windowed covariance metric
//		• Orchestration: warmup/sampling state machine, multi-chain driver
//
// ✨ Why choose hmc?
//
//   - Explicit randomness – every stochastic operation takes a *rand.Rand;
//     same seed ⇒ identical chains across platforms
//   - Composition over hierarchy – one Sampler built from small collaborators,
//     no virtual dispatch, no shared mutable base state
//   - Honest failure modes – divergences are diagnostics, pathological
//     posteriors are sentinel errors, never silent corruption
//
// Everything is organized under five subpackages:
//
//	core/     — PhasePoint, Metric, Sample, Model contract, RNG policy
//	dynamics/ — Hamiltonian energies, leapfrog integrator, step-size search
//	nuts/     — No-U-Turn and static-HMC transition kernels
//	adapt/    — dual averaging, Welford estimators, adaptation windows
//	sampler/  — warmup/sampling orchestrator, options, chains, writers
//
// Quick sketch of one iteration:
//
//	momentum ~ N(0, M) ──► leapfrog trajectory ──► multinomial pick ──► Sample
//	                         │ (warmup only)
//	                         └──► dual averaging ──► windowed covariance ──► M
//
// Dive into each package's doc.go for contracts, complexity and error sets.
//
//	go get github.com/katalvlaran/hmc
package hmc
