// SPDX-License-Identifier: MIT

// Package sampler: functional configuration for chain construction.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each knob impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package sampler

import (
	"math"

	"github.com/katalvlaran/hmc/adapt"
	"github.com/katalvlaran/hmc/core"
	"github.com/katalvlaran/hmc/nuts"
)

// DEFAULTS - single source of truth for zero-value behavior.
const (
	// DefaultNumWarmup is the warmup iteration count.
	DefaultNumWarmup = 1000

	// DefaultNumSamples is the sampling iteration count.
	DefaultNumSamples = 1000

	// DefaultThinning keeps every draw.
	DefaultThinning = 1

	// DefaultInitRetries bounds the random-initialization search.
	DefaultInitRetries = 100

	// DefaultInitRadius is the half-width of the uniform random-init box.
	DefaultInitRadius = 2.0
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicCountNegative   = "sampler: iteration counts must be non-negative"
	panicThinningInvalid = "sampler: WithThinning: k must be >= 1"
	panicTargetInvalid   = "sampler: WithTargetAccept: delta must be in (0, 1)"
	panicDepthNegative   = "sampler: WithMaxTreeDepth: depth must be >= 0"
	panicJitterInvalid   = "sampler: WithStepsizeJitter: fraction must be in [0, 1)"
	panicStepsizeInvalid = "sampler: WithInitialStepsize: eps must be finite and >= 0"
	panicStepsNegative   = "sampler: WithStaticSteps: steps must be >= 1"
	panicRetriesInvalid  = "sampler: WithInitRetries: retries must be >= 1"
	panicInitialEmpty    = "sampler: WithInitialPosition: position must be non-empty"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Public entry points accept `...Option` and resolve them via gatherOptions.
type Options struct {
	// iteration plan
	numWarmup  int
	numSamples int
	thinning   int

	// transition policy
	targetAccept    float64
	maxTreeDepth    int
	stepsizeJitter  float64
	initialStepsize float64 // 0 means "search"
	staticSteps     int     // >0 selects the plain-HMC kernel

	// metric policy
	metricKind core.MetricKind
	initBuffer int
	termBuffer int
	baseWindow int

	// initialization
	seed        int64
	chain       uint64 // RNG substream id, set by RunChains
	initRetries int
	initial     []float64 // nil means "random search"

	// output policy
	storeWarmup bool
	logger      Logger
}

// defaultOptions reflects the DEFAULTS constants above.
func defaultOptions() Options {
	return Options{
		numWarmup:    DefaultNumWarmup,
		numSamples:   DefaultNumSamples,
		thinning:     DefaultThinning,
		targetAccept: adapt.DefaultTargetAccept,
		maxTreeDepth: nuts.DefaultMaxTreeDepth,
		metricKind:   core.DiagMetric,
		initBuffer:   adapt.DefaultInitBuffer,
		termBuffer:   adapt.DefaultTermBuffer,
		baseWindow:   adapt.DefaultBaseWindow,
		initRetries:  DefaultInitRetries,
		storeWarmup:  true,
		logger:       NopLogger{},
	}
}

// gatherOptions applies setters over the defaults.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// WithWarmup sets the warmup iteration count.
func WithWarmup(n int) Option {
	if n < 0 {
		panic(panicCountNegative)
	}

	return func(o *Options) { o.numWarmup = n }
}

// WithSamples sets the sampling iteration count.
func WithSamples(n int) Option {
	if n < 0 {
		panic(panicCountNegative)
	}

	return func(o *Options) { o.numSamples = n }
}

// WithThinning keeps every k-th sampling-phase draw (warmup is never thinned).
func WithThinning(k int) Option {
	if k < 1 {
		panic(panicThinningInvalid)
	}

	return func(o *Options) { o.thinning = k }
}

// WithTargetAccept sets the dual-averaging target acceptance δ.
func WithTargetAccept(delta float64) Option {
	if delta <= 0 || delta >= 1 || math.IsNaN(delta) {
		panic(panicTargetInvalid)
	}

	return func(o *Options) { o.targetAccept = delta }
}

// WithMaxTreeDepth caps trajectory doublings. Depth 0 is legal and takes
// exactly one leapfrog step per transition.
func WithMaxTreeDepth(depth int) Option {
	if depth < 0 {
		panic(panicDepthNegative)
	}

	return func(o *Options) { o.maxTreeDepth = depth }
}

// WithMetricKind selects the mass-matrix representation.
func WithMetricKind(kind core.MetricKind) Option {
	return func(o *Options) { o.metricKind = kind }
}

// WithAdaptationWindows overrides the warmup schedule buffers; zero values
// keep the respective default.
func WithAdaptationWindows(initBuffer, termBuffer, baseWindow int) Option {
	if initBuffer < 0 || termBuffer < 0 || baseWindow < 0 {
		panic(panicCountNegative)
	}

	return func(o *Options) {
		if initBuffer > 0 {
			o.initBuffer = initBuffer
		}
		if termBuffer > 0 {
			o.termBuffer = termBuffer
		}
		if baseWindow > 0 {
			o.baseWindow = baseWindow
		}
	}
}

// WithStepsizeJitter applies per-transition uniform jitter:
// ε·(1 + jitter·(2u−1)), u ~ U(0,1).
func WithStepsizeJitter(fraction float64) Option {
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		panic(panicJitterInvalid)
	}

	return func(o *Options) { o.stepsizeJitter = fraction }
}

// WithInitialStepsize sets the nominal ε; 0 (the default) means "search".
func WithInitialStepsize(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicStepsizeInvalid)
	}

	return func(o *Options) { o.initialStepsize = eps }
}

// WithStaticSteps selects the plain-HMC kernel with a fixed leapfrog count
// instead of No-U-Turn tree doubling.
func WithStaticSteps(steps int) Option {
	if steps < 1 {
		panic(panicStepsNegative)
	}

	return func(o *Options) { o.staticSteps = steps }
}

// WithSeed fixes the RNG seed (0 selects the stable default seed).
func WithSeed(seed int64) Option {
	return func(o *Options) { o.seed = seed }
}

// withChainStream selects the RNG substream for one chain of a multi-chain
// run. Internal: RunChains assigns stream ids, single chains keep stream 0.
func withChainStream(chain uint64) Option {
	return func(o *Options) { o.chain = chain }
}

// WithInitRetries bounds the random-initialization search.
func WithInitRetries(n int) Option {
	if n < 1 {
		panic(panicRetriesInvalid)
	}

	return func(o *Options) { o.initRetries = n }
}

// WithInitialPosition supplies a starting position, skipping the random
// search. The slice is copied.
func WithInitialPosition(q []float64) Option {
	if len(q) == 0 {
		panic(panicInitialEmpty)
	}
	c := make([]float64, len(q))
	copy(c, q)

	return func(o *Options) { o.initial = c }
}

// WithoutWarmupSamples suppresses writer output during warmup; diagnostics
// still flow to the logger.
func WithoutWarmupSamples() Option {
	return func(o *Options) { o.storeWarmup = false }
}

// WithLogger injects the warning/diagnostics sink (default: NopLogger).
func WithLogger(l Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}
