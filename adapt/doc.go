// Package adapt implements the two coupled warmup controllers: Nesterov
// dual averaging for the step size and windowed Welford covariance
// estimation for the mass-matrix metric.
//
// # Dual averaging
//
// DualAveraging is a stochastic-approximation controller driving the
// long-run average acceptance statistic toward a target δ (default 0.8).
// Per warmup iteration, with counter m, hyperparameters γ, κ, t₀ and anchor μ:
//
//	η   = 1/(m + t₀)
//	s̄   ← (1−η)·s̄ + η·(δ − α)
//	x   = μ − s̄·√m/γ
//	x̄   ← (1−m^(−κ))·x̄ + m^(−κ)·x
//	ε   = exp(x)
//
// exp(x̄) is the smoothed estimate reported as the final tuned step size at
// the end of warmup. Restart clears the state whenever the metric changes;
// SetMu re-anchors the controller, conventionally at log(10·ε).
//
// # Windowed covariance estimation
//
// WindowSchedule partitions warmup into an initial buffer, a geometrically
// doubling sequence of estimation windows, and a terminal buffer. Inside a
// window, MetricAdapter feeds positions to a Welford estimator; at a window
// close it writes the regularized estimate into the metric:
//
//	var' = (n/(n+5))·var + 1e-3·(5/(n+5))
//
// shrinking small-sample estimates toward the identity so the metric stays
// non-degenerate and invertible. Off-diagonal covariance entries are scaled
// by n/(n+5) without the additive floor.
//
// # Errors
//
//	ErrAdaptation - a closed window produced a non-finite or non-PD estimate
//	                (fatal: continuing would invalidate the Markov chain).
package adapt
