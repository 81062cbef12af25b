// Package metrics exposes client side prometheus metrics behind small interfaces, so
// code that records them does not depend on prometheus types.
package metrics

type Factory interface {
	NewCounterVec(opts CounterOpts, labelNames []string) Vec[Counter]
	NewGauge(opts GaugeOpts) Gauge
	NewHistogramVec(opts HistogramOpts, labelNames []string) Vec[Histogram]
}

type Histogram interface {
	Observe(float64)
}

// Gauge counts requests in flight, so it only moves by one.
type Gauge interface {
	Inc()
	Dec()
}

type Vec[T any] interface {
	WithLabelValues(lvs ...string) T
}

type Counter interface {
	Inc()
}

type Opts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string
}

type CounterOpts Opts
type GaugeOpts Opts
type HistogramOpts struct {
	Namespace string
	Subsystem string
	Name      string
	Help      string

	Buckets []float64
}
