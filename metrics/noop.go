package metrics

// VoidFactory hands out collectors that drop every observation. Clients built without a
// registry record their requests here.
func VoidFactory() Factory {
	return discardFactory{}
}

type discardFactory struct{}

func (discardFactory) NewCounterVec(CounterOpts, []string) Vec[Counter] {
	return discardVec[Counter]{discard{}}
}

func (discardFactory) NewGauge(GaugeOpts) Gauge {
	return discard{}
}

func (discardFactory) NewHistogramVec(HistogramOpts, []string) Vec[Histogram] {
	return discardVec[Histogram]{discard{}}
}

// discard is every collector the client listener asks for at once.
type discard struct{}

func (discard) Inc()            {}
func (discard) Dec()            {}
func (discard) Observe(float64) {}

type discardVec[T any] struct {
	elem T
}

func (v discardVec[T]) WithLabelValues(...string) T { return v.elem }
