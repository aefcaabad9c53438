package profiler

import "time"

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are logged. Values <= 0 log on every tick.
//
// Parameters:
//   - interval: the reporting window
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithLabel sets the bracketed log prefix.
//
// Parameters:
//   - label: the prefix, e.g. "Engine"
//
// Returns:
//   - ProfilerOption: option function to apply
func WithLabel(label string) ProfilerOption {
	return func(p *Profiler) {
		p.label = label
	}
}
