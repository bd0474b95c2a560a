// SPDX-License-Identifier: MIT

// Package sampler - per-chain orchestrator.
//
// The Sampler is a state machine over {INITIALIZING, WARMUP, SAMPLING,
// DONE} composing a transition kernel with the warmup adapters. All
// mutable chain state (phase point, step size, metric, adaptation state)
// lives here and is passed explicitly into each collaborator; nothing is
// shared between chains.
package sampler

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"github.com/katalvlaran/hmc/adapt"
	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/dynamics"
	"github.com/katalvlaran/hmc/nuts"
)

var (
	// ErrInitialization indicates no finite initial log-density/gradient was
	// found within the retry budget. Fatal, surfaced before any transition.
	ErrInitialization = errors.New("sampler: no finite initial point found")

	// ErrChainConsumed indicates Run was called twice on one Sampler.
	ErrChainConsumed = errors.New("sampler: chain already run")
)

// chainState enumerates the orchestrator phases.
type chainState uint8

const (
	stateInitializing chainState = iota
	stateWarmup
	stateSampling
	stateDone
)

// kernel is the one-method transition capability; nuts.Kernel and
// nuts.Static both satisfy it.
type kernel interface {
	Transition(z *core.PhasePoint, eps float64, rng *rand.Rand) (core.Sample, error)
}

// Sampler runs one chain. Construct with New, drive with Run; a Sampler
// is single-use and not safe for concurrent use.
type Sampler struct {
	model  core.Model
	opts   Options
	metric *core.Metric
	h      *dynamics.Hamiltonian
	kern   kernel
	da     *adapt.DualAveraging
	ma     *adapt.MetricAdapter

	z     *core.PhasePoint
	eps   float64
	rng   *rand.Rand
	state chainState
}

// New assembles a chain over model. The kernel, metric and adaptation
// strategy are fixed at construction from the options; see package doc
// for the iteration semantics.
func New(model core.Model, options ...Option) (*Sampler, error) {
	o := gatherOptions(options...)

	metric := core.NewMetric(o.metricKind, model.Dim())
	h, err := dynamics.NewHamiltonian(model, metric)
	if err != nil {
		return nil, err
	}

	var kern kernel
	if o.staticSteps > 0 {
		kern = nuts.NewStatic(h, o.staticSteps, 0)
	} else {
		kern = nuts.NewKernel(h, o.maxTreeDepth, 0)
	}

	sched := adapt.NewWindowSchedule(o.numWarmup, o.initBuffer, o.termBuffer, o.baseWindow)
	if sched.Shrunk() {
		o.logger.Warnf("warmup %d too short for the requested adaptation buffers; shrinking proportionally", o.numWarmup)
	}

	return &Sampler{
		model:  model,
		opts:   o,
		metric: metric,
		h:      h,
		kern:   kern,
		da:     adapt.NewDualAveraging(o.targetAccept),
		ma:     adapt.NewMetricAdapter(metric, sched),
		z:      core.NewPhasePoint(model.Dim()),
		rng:    core.DeriveRNG(o.seed, o.chain),
		state:  stateInitializing,
	}, nil
}

// Run executes the full warmup/sampling loop, writing every produced
// sample to w. It returns nil on completion, ctx.Err() on interruption
// (after flushing the already-produced sample), or the first fatal error.
func (s *Sampler) Run(ctx context.Context, w SampleWriter) error {
	if s.state != stateInitializing {
		return ErrChainConsumed
	}

	if err := s.initialize(); err != nil {
		return err
	}

	s.state = stateWarmup
	if err := s.warmup(ctx, w); err != nil {
		return err
	}

	s.state = stateSampling
	if err := s.sample(ctx, w); err != nil {
		return err
	}

	s.state = stateDone

	return nil
}

// Stepsize reports the current step size (the frozen ε after Run).
func (s *Sampler) Stepsize() float64 { return s.eps }

// Metric exposes the chain's metric (frozen after warmup).
func (s *Sampler) Metric() *core.Metric { return s.metric }

// initialize finds a starting point with finite density and runs the
// one-shot step-size search (unless a nonzero ε was supplied).
func (s *Sampler) initialize() error {
	if s.opts.initial != nil {
		if len(s.opts.initial) != s.model.Dim() {
			return core.ErrDimensionMismatch
		}
		copy(s.z.Position, s.opts.initial)
		if err := s.h.Refresh(s.z); err != nil {
			return errors.Join(ErrInitialization, err)
		}
	} else if err := s.randomInit(); err != nil {
		return err
	}

	if s.opts.initialStepsize > 0 {
		// User-pinned ε: trusted as-is, adaptation may still move it.
		s.eps = s.opts.initialStepsize
	} else {
		eps, err := dynamics.FindStepsize(s.h, s.z, 1, s.rng)
		if err != nil {
			return err
		}
		s.eps = eps
	}
	s.da.SetMu(math.Log(10 * s.eps))

	return nil
}

// randomInit retries uniform draws from [-r, r]^D until the model yields a
// finite density and gradient.
func (s *Sampler) randomInit() error {
	var attempt int
	for attempt = 0; attempt < s.opts.initRetries; attempt++ {
		for i := range s.z.Position {
			s.z.Position[i] = DefaultInitRadius * (2*s.rng.Float64() - 1)
		}
		if err := s.h.Refresh(s.z); err == nil {
			return nil
		}
	}
	s.opts.logger.Warnf("initialization failed after %d attempts", s.opts.initRetries)

	return ErrInitialization
}

// warmup runs the adaptive phase: transition, step-size learning, metric
// learning, and step-size re-anchoring at metric window closes.
func (s *Sampler) warmup(ctx context.Context, w SampleWriter) error {
	for i := 0; i < s.opts.numWarmup; i++ {
		if err := interrupted(ctx); err != nil {
			return err
		}

		eps := s.jittered()
		smp, err := s.kern.Transition(s.z, eps, s.rng)
		if err != nil {
			return err
		}

		s.eps = s.da.Learn(smp.AcceptStat)

		updated, err := s.ma.Learn(s.z.Position)
		if err != nil {
			return err
		}
		if updated {
			// The metric changed under the chain: re-derive ε against it
			// and re-anchor dual averaging, discarding its progress. The
			// gradient cache on z may be stale after a tree commit, so
			// refresh before integrating from it.
			if rerr := s.h.Refresh(s.z); rerr != nil {
				return rerr
			}
			eps2, ferr := dynamics.FindStepsize(s.h, s.z, s.eps, s.rng)
			if ferr != nil {
				return ferr
			}
			s.eps = eps2
			s.da.SetMu(math.Log(10 * eps2))
			s.da.Restart()
			s.opts.logger.MetricUpdated(i, s.metric.Kind(), s.metric.VarianceSnapshot())
		}

		s.opts.logger.Iteration(i, true, eps, smp)
		if s.opts.storeWarmup {
			if werr := w.WriteSample(smp, true); werr != nil {
				return wrapWriterErr(werr)
			}
		}
	}

	// Freeze: the smoothed dual-averaging iterate becomes the sampling ε.
	if s.da.Count() > 0 {
		s.eps = s.da.Adapted()
	}

	return nil
}

// sample runs the post-warmup phase with frozen metric and step size.
func (s *Sampler) sample(ctx context.Context, w SampleWriter) error {
	for j := 0; j < s.opts.numSamples; j++ {
		if err := interrupted(ctx); err != nil {
			return err
		}

		eps := s.jittered()
		smp, err := s.kern.Transition(s.z, eps, s.rng)
		if err != nil {
			return err
		}

		s.opts.logger.Iteration(s.opts.numWarmup+j, false, eps, smp)
		if j%s.opts.thinning == 0 {
			if werr := w.WriteSample(smp, false); werr != nil {
				return wrapWriterErr(werr)
			}
		}
	}

	return nil
}

// jittered applies the per-transition step-size jitter.
func (s *Sampler) jittered() float64 {
	if s.opts.stepsizeJitter == 0 {
		return s.eps
	}

	return s.eps * (1 + s.opts.stepsizeJitter*(2*s.rng.Float64()-1))
}

// interrupted polls the context once per iteration boundary.
func interrupted(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
