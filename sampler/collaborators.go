// Package sampler - output collaborators: sample writers and loggers.
package sampler

import (
	"errors"
	"fmt"
	"log"

	"github.com/katalvlaran/hmc/core"
)

// ErrWriter wraps a failure from the SampleWriter collaborator. The chain
// aborts; already-written samples remain with the writer.
var ErrWriter = errors.New("sampler: sample writer failed")

// SampleWriter receives each produced Sample in iteration order. The core
// guarantees exactly one call per completed iteration unless warmup writes
// are suppressed or sampling draws are thinned.
//
// Ownership of the Sample (including its Position slice) passes to the
// writer.
type SampleWriter interface {
	WriteSample(s core.Sample, warmup bool) error
}

// MemoryWriter collects samples in memory, split by phase.
type MemoryWriter struct {
	Warmup  []core.Sample
	Samples []core.Sample
}

// WriteSample implements SampleWriter.
func (w *MemoryWriter) WriteSample(s core.Sample, warmup bool) error {
	if warmup {
		w.Warmup = append(w.Warmup, s)
	} else {
		w.Samples = append(w.Samples, s)
	}

	return nil
}

// Logger receives human-readable warnings and structured per-iteration
// diagnostics. Implementations must be cheap when discarding: the sampler
// calls Iteration once per transition.
type Logger interface {
	// Warnf reports a human-readable warning (e.g. shrunk adaptation
	// buffers, step-size search anomalies).
	Warnf(format string, args ...interface{})

	// Iteration reports one transition's diagnostics.
	Iteration(iter int, warmup bool, eps float64, s core.Sample)

	// MetricUpdated reports a metric rewrite at a window close, with the
	// diagonal snapshot of the new inverse mass matrix.
	MetricUpdated(iter int, kind core.MetricKind, variance []float64)
}

// NopLogger discards everything.
type NopLogger struct{}

// Warnf implements Logger.
func (NopLogger) Warnf(string, ...interface{}) {}

// Iteration implements Logger.
func (NopLogger) Iteration(int, bool, float64, core.Sample) {}

// MetricUpdated implements Logger.
func (NopLogger) MetricUpdated(int, core.MetricKind, []float64) {}

// StdLogger writes through the standard library logger, reporting every
// Every-th iteration (plus all warnings and metric updates).
type StdLogger struct {
	// Every controls iteration-report cadence; <=0 reports every 100th.
	Every int
}

// Warnf implements Logger.
func (l StdLogger) Warnf(format string, args ...interface{}) {
	log.Printf("WARN "+format, args...)
}

// Iteration implements Logger.
func (l StdLogger) Iteration(iter int, warmup bool, eps float64, s core.Sample) {
	every := l.Every
	if every <= 0 {
		every = 100
	}
	if iter%every != 0 {
		return
	}
	phase := "sample"
	if warmup {
		phase = "warmup"
	}
	log.Printf("%s %d: eps=%.3g depth=%d leapfrog=%d accept=%.2f energy=%.4g divergent=%v",
		phase, iter, eps, s.TreeDepth, s.NumLeapfrog, s.AcceptStat, s.Energy, s.Divergent)
}

// MetricUpdated implements Logger.
func (l StdLogger) MetricUpdated(iter int, kind core.MetricKind, variance []float64) {
	log.Printf("metric (%s) updated at warmup %d: diag=%v", kind, iter, variance)
}

// wrapWriterErr attaches the writer sentinel.
func wrapWriterErr(err error) error {
	return fmt.Errorf("%w: %v", ErrWriter, err)
}
