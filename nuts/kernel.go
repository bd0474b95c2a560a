// SPDX-License-Identifier: MIT

// Package nuts - No-U-Turn transition kernel.
//
// Design:
//   - Composition over hierarchy: the kernel holds a Hamiltonian and scalar
//     policy (depth cap, divergence threshold); no virtual dispatch.
//   - Explicit randomness: every stochastic choice draws from the rng
//     argument, never from package state.
//   - The trajectory extremes are evolved in place; each subtree returns
//     cloned endpoint snapshots for the u-turn checks of enclosing nodes.
package nuts

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/dynamics"
)

const (
	// DefaultMaxTreeDepth caps trajectory doublings.
	DefaultMaxTreeDepth = 10

	// DefaultMaxEnergyError is the divergence threshold on H − H0.
	DefaultMaxEnergyError = 1000.0
)

// Kernel is the No-U-Turn transition kernel. One Kernel serves one chain.
type Kernel struct {
	h         *dynamics.Hamiltonian
	maxDepth  int
	maxDeltaH float64

	// scratch buffers for the u-turn criterion
	dq, va, vb []float64
}

// NewKernel builds a NUTS kernel over h. maxDepth < 0 selects
// DefaultMaxTreeDepth; maxDeltaH <= 0 selects DefaultMaxEnergyError.
func NewKernel(h *dynamics.Hamiltonian, maxDepth int, maxDeltaH float64) *Kernel {
	if maxDepth < 0 {
		maxDepth = DefaultMaxTreeDepth
	}
	if maxDeltaH <= 0 {
		maxDeltaH = DefaultMaxEnergyError
	}
	d := h.Dim()

	return &Kernel{
		h:         h,
		maxDepth:  maxDepth,
		maxDeltaH: maxDeltaH,
		dq:        make([]float64, d),
		va:        make([]float64, d),
		vb:        make([]float64, d),
	}
}

// proposal is the multinomially selected representative of a subtree:
// position, cached log-density, and total energy at that leaf.
type proposal struct {
	position   []float64
	logDensity float64
	energy     float64
}

// subtree carries a built subtree's endpoint snapshots (in time order),
// its selected proposal, and its total log weight.
type subtree struct {
	zMinus, zPlus *core.PhasePoint
	prop          proposal
	logW          float64
}

// trek is the per-transition accumulator threaded through the recursion.
type trek struct {
	k   *Kernel
	eps float64
	rng *rand.Rand
	h0  float64

	sumMetro  float64
	nLeapfrog int
	divergent bool
}

// Transition grows one No-U-Turn trajectory from z and advances z to the
// multinomially selected point. The Metric and step size are read, never
// written.
//
// Errors: a non-finite density at the current chain position is fatal
// (wrapped dynamics.ErrNonFiniteDensity) — the persistent state is corrupt.
// Divergences inside the trajectory are recoverable and reported through
// Sample.Divergent instead.
func (k *Kernel) Transition(z *core.PhasePoint, eps float64, rng *rand.Rand) (core.Sample, error) {
	if err := k.h.Init(z, rng); err != nil {
		return core.Sample{}, fmt.Errorf("nuts: current state invalid: %w", err)
	}
	h0 := k.h.Energy(z)
	if math.IsNaN(h0) || math.IsInf(h0, 0) {
		return core.Sample{}, fmt.Errorf("nuts: current state invalid: %w", dynamics.ErrNonFiniteDensity)
	}

	t := &trek{k: k, eps: eps, rng: rng, h0: h0}

	// Trajectory extremes in time order, evolved in place by each doubling.
	zMinus := z.Clone()
	zPlus := z.Clone()

	// The initial point carries weight exp(H0−H0) = 1, i.e. logW = 0.
	selected := snapshot(z, h0)
	trajLogW := 0.0

	var depth int
	for {
		var sub *subtree
		var ok bool
		if rng.Float64() < 0.5 {
			sub, ok = t.build(depth, zPlus, +1)
		} else {
			sub, ok = t.build(depth, zMinus, -1)
		}
		if !ok {
			// Divergent or internally u-turned subtree: excluded from
			// selection, growth stops.
			break
		}

		// Progressive multinomial selection, biased toward the fresh
		// subtree by its relative path probability.
		if sub.logW > trajLogW || rng.Float64() < math.Exp(sub.logW-trajLogW) {
			selected = sub.prop
		}
		trajLogW = logAddExp(trajLogW, sub.logW)

		// No-U-turn across the full merged trajectory.
		if k.uTurn(zMinus, zPlus) {
			break
		}
		if depth == k.maxDepth {
			break
		}
		depth++
	}

	// Commit the selected point as the new chain state.
	copy(z.Position, selected.position)
	z.LogDensity = selected.logDensity

	accept := 0.0
	if t.nLeapfrog > 0 {
		accept = t.sumMetro / float64(t.nLeapfrog)
	}

	return core.Sample{
		Position:    selected.position,
		LogDensity:  selected.logDensity,
		AcceptStat:  accept,
		TreeDepth:   depth,
		Divergent:   t.divergent,
		NumLeapfrog: t.nLeapfrog,
		Energy:      selected.energy,
	}, nil
}

// build extends the trajectory by 2^depth leapfrog steps in direction dir,
// advancing zEdge in place. It returns the built subtree and whether it is
// eligible for selection (no divergence, no internal u-turn).
func (t *trek) build(depth int, zEdge *core.PhasePoint, dir float64) (*subtree, bool) {
	if depth == 0 {
		return t.leaf(zEdge, dir)
	}

	first, ok := t.build(depth-1, zEdge, dir)
	if !ok {
		return nil, false
	}
	second, ok := t.build(depth-1, zEdge, dir)
	if !ok {
		return nil, false
	}

	// Merge endpoint snapshots in time order: building backward means the
	// second half covers earlier times.
	var lo, hi *core.PhasePoint
	if dir > 0 {
		lo, hi = first.zMinus, second.zPlus
	} else {
		lo, hi = second.zMinus, first.zPlus
	}

	if t.k.uTurn(lo, hi) {
		return nil, false
	}

	// Unbiased multinomial choice between the halves by relative weight.
	total := logAddExp(first.logW, second.logW)
	prop := first.prop
	if t.rng.Float64() < math.Exp(second.logW-total) {
		prop = second.prop
	}

	return &subtree{zMinus: lo, zPlus: hi, prop: prop, logW: total}, true
}

// leaf takes a single leapfrog step from zEdge and scores it.
func (t *trek) leaf(zEdge *core.PhasePoint, dir float64) (*subtree, bool) {
	t.nLeapfrog++

	if err := dynamics.Leapfrog(t.k.h, zEdge, dir*t.eps); err != nil {
		// Non-finite density mid-step: the leaf is divergent by definition.
		t.divergent = true

		return nil, false
	}

	h := t.k.h.Energy(zEdge)
	if math.IsNaN(h) {
		h = math.Inf(1)
	}

	// The accept statistic accumulates over every step taken, divergent
	// leaves included.
	t.sumMetro += math.Min(1, math.Exp(t.h0-h))

	if h-t.h0 > t.k.maxDeltaH {
		t.divergent = true

		return nil, false
	}

	snap := zEdge.Clone()

	return &subtree{
		zMinus: snap,
		zPlus:  snap,
		prop:   snapshot(zEdge, h),
		logW:   t.h0 - h,
	}, true
}

// uTurn reports whether the trajectory spanned by endpoints a (earliest)
// and b (latest) has started doubling back, using metric-aware velocities.
func (k *Kernel) uTurn(a, b *core.PhasePoint) bool {
	floats.SubTo(k.dq, b.Position, a.Position)
	k.h.Metric().Velocity(a.Momentum, k.va)
	k.h.Metric().Velocity(b.Momentum, k.vb)

	return floats.Dot(k.dq, k.va) < 0 || floats.Dot(k.dq, k.vb) < 0
}

// snapshot copies the selectable part of a phase point.
func snapshot(z *core.PhasePoint, energy float64) proposal {
	pos := make([]float64, len(z.Position))
	copy(pos, z.Position)

	return proposal{position: pos, logDensity: z.LogDensity, energy: energy}
}

// logAddExp returns log(exp(a)+exp(b)) without overflow.
func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	m := math.Max(a, b)

	return m + math.Log(math.Exp(a-m)+math.Exp(b-m))
}
