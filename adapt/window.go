// Package adapt - adaptation window schedule.
//
// The schedule partitions warmup iterations (0-based) into
//
//	[0, init)                      — initial fast buffer, step size only
//	[init, numWarmup-term)         — doubling estimation windows
//	[numWarmup-term, numWarmup)    — terminal fast buffer
//
// The first estimation window has the base size; each subsequent window
// doubles. A window whose doubled successor could not fit before the
// terminal buffer absorbs the remainder and closes at the last estimation
// iteration. When the requested buffers do not fit inside warmup, they are
// shrunk proportionally (15% / 10% / remainder), mirroring how the rest of
// this package favors degraded adaptation over hard failure.
package adapt

// Window schedule defaults.
const (
	// DefaultInitBuffer is the step-size-only lead-in.
	DefaultInitBuffer = 75

	// DefaultTermBuffer is the step-size-only tail.
	DefaultTermBuffer = 50

	// DefaultBaseWindow is the first estimation window size.
	DefaultBaseWindow = 25
)

// WindowSchedule tracks the warmup iteration cursor and the boundary of
// the currently open estimation window. Derived once per chain from the
// requested warmup length.
type WindowSchedule struct {
	numWarmup  int
	initBuffer int
	termBuffer int

	counter    int // current warmup iteration, 0-based
	windowSize int // current estimation window size
	nextClose  int // iteration index at which the open window closes
	shrunk     bool
}

// NewWindowSchedule derives the schedule for numWarmup iterations.
// Non-positive buffer or window arguments select the defaults.
//
// Complexity: O(1).
func NewWindowSchedule(numWarmup, initBuffer, termBuffer, baseWindow int) *WindowSchedule {
	if initBuffer <= 0 {
		initBuffer = DefaultInitBuffer
	}
	if termBuffer <= 0 {
		termBuffer = DefaultTermBuffer
	}
	if baseWindow <= 0 {
		baseWindow = DefaultBaseWindow
	}

	w := &WindowSchedule{numWarmup: numWarmup}

	if initBuffer+termBuffer+baseWindow > numWarmup {
		// Requested buffers do not fit: shrink proportionally.
		w.shrunk = true
		w.initBuffer = numWarmup * 15 / 100
		w.termBuffer = numWarmup * 10 / 100
		baseWindow = numWarmup - w.initBuffer - w.termBuffer
	} else {
		w.initBuffer = initBuffer
		w.termBuffer = termBuffer
	}

	w.windowSize = baseWindow
	w.nextClose = w.initBuffer + baseWindow - 1
	w.absorb()

	return w
}

// Shrunk reports whether the requested buffers had to be shrunk to fit.
func (w *WindowSchedule) Shrunk() bool { return w.shrunk }

// InWindow reports whether the current iteration lies inside an active
// estimation window.
func (w *WindowSchedule) InWindow() bool {
	return w.counter >= w.initBuffer && w.counter < w.numWarmup-w.termBuffer
}

// Closing reports whether the current iteration is the last of the open
// estimation window.
func (w *WindowSchedule) Closing() bool {
	return w.InWindow() && w.counter == w.nextClose
}

// Advance moves the cursor to the next warmup iteration, rolling over to
// the next (doubled) window when the open one has just closed.
func (w *WindowSchedule) Advance() {
	if w.Closing() {
		w.windowSize *= 2
		w.nextClose = w.counter + w.windowSize
		w.absorb()
	}
	w.counter++
}

// absorb extends the open window to the end of the estimation phase when
// its doubled successor could not fit before the terminal buffer.
func (w *WindowSchedule) absorb() {
	last := w.numWarmup - w.termBuffer - 1
	if w.nextClose == last {
		return
	}
	if w.nextClose+2*w.windowSize >= w.numWarmup-w.termBuffer {
		w.nextClose = last
	}
}
