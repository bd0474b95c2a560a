// Package dynamics implements Hamiltonian energies, the symplectic leapfrog
// integrator, and the one-shot step-size search that seeds warmup.
//
// The Hamiltonian over phase space z = (q, p) is
//
//	H(z) = -log π(q) + ½·pᵀ Σ p
//
// where Σ is the inverse mass matrix held by the chain's core.Metric. The
// Hamiltonian owns every call to the external model; non-finite log-densities
// or gradients surface as ErrNonFiniteDensity, which callers treat as a
// divergence, never a fatal error.
//
// # Leapfrog
//
// Leapfrog advances a PhasePoint by one half/full/half step of size ε:
//
//	p ← p + (ε/2)·∇log π(q)
//	q ← q + ε·Σp
//	p ← p + (ε/2)·∇log π(q)
//
// The scheme is time-reversible and volume-preserving to floating-point
// precision; detailed balance of the sampler depends on this, so no
// optimization may reorder or fuse the updates.
//
// # Step-size search
//
// FindStepsize doubles or halves a nominal ε until the one-step energy error
// crosses log(0.8), biasing toward smaller steps whenever an energy is
// non-finite. The search is bounded to (0, 1e7].
//
// # Errors
//
//	ErrNonFiniteDensity   - model returned a non-finite value or a domain error (recoverable).
//	ErrImproperPosterior  - step-size search exceeded 1e7 (fatal; posterior likely improper).
//	ErrStepsizeSearch     - step-size search decayed to exactly zero (fatal).
package dynamics
