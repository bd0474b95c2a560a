// SPDX-License-Identifier: MIT

// Package dynamics - symplectic leapfrog integration.
package dynamics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmc/core"
)

// Leapfrog advances z in place by one step of size eps under h.
// A negative eps integrates backward in time; the scheme is exactly
// self-inverse under momentum negation.
//
// Contract: z's gradient cache must be fresh on entry; it is fresh on
// successful exit. On error (ErrNonFiniteDensity from the interior model
// evaluation) z is left mid-step and must be restored from a checkpoint.
//
// Complexity: one model evaluation, O(D) vector work (O(D²) dense velocity).
func Leapfrog(h *Hamiltonian, z *core.PhasePoint, eps float64) error {
	half := 0.5 * eps

	// Half-step momentum: p ← p + (ε/2)·∇log π(q).
	floats.AddScaled(z.Momentum, half, z.Gradient)

	// Full-step position: q ← q + ε·Σp.
	h.metric.Velocity(z.Momentum, h.vbuf)
	floats.AddScaled(z.Position, eps, h.vbuf)

	if err := h.Refresh(z); err != nil {
		return err
	}

	// Half-step momentum with the new gradient.
	floats.AddScaled(z.Momentum, half, z.Gradient)

	return nil
}
