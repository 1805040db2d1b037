// Package metrics counts assertion evaluations and case outcomes.
package metrics

import "time"

// Recorder defines the interface for recording assertion metrics.
type Recorder interface {
	// RecordEvaluation records one top-level assertion.
	RecordEvaluation(phrase string, passed bool, duration time.Duration)
	// RecordCase records the status of one bank case.
	RecordCase(status string, duration time.Duration)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
}

// NoopMetrics is a no-op implementation of Recorder useful for
// testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordEvaluation(_ string, _ bool, _ time.Duration) {}
func (NoopMetrics) RecordCase(_ string, _ time.Duration)                {}
func (NoopMetrics) IncrementRunTotal()                                  {}

// OrNoop returns r, or NoopMetrics when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopMetrics{}
	}
	return r
}
