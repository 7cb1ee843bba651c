package ai

import (
	"math"
	"sync"
)

// MetricsRecorder accumulates ModelMetrics across requests. The zero value is
// ready to use and safe for concurrent use.
type MetricsRecorder struct {
	mu      sync.Mutex
	metrics ModelMetrics
}

// Add adds m to the accumulated totals and recomputes the throughput.
func (r *MetricsRecorder) Add(m ModelMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics.InputTokens += m.InputTokens
	r.metrics.OutputTokens += m.OutputTokens
	r.metrics.TotalTokens += m.TotalTokens
	r.metrics.DurationMs += m.DurationMs

	if r.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(r.metrics.TotalTokens) * 1000.0) / float64(r.metrics.DurationMs)
		r.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}

// Reset clears all accumulated metrics.
func (r *MetricsRecorder) Reset() {
	r.mu.Lock()
	r.metrics = ModelMetrics{}
	r.mu.Unlock()
}

// Snapshot returns a copy of the accumulated metrics.
func (r *MetricsRecorder) Snapshot() ModelMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}
