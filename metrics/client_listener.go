package metrics

import (
	"errors"
	"time"

	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "starkclient"

// NewClientListener records the requests of a jsonrpc.Client with registerer.
func NewClientListener(registerer prometheus.Registerer) *jsonrpc.SelectiveListener {
	return NewClientListenerWithFactory(PrometheusFactory(registerer))
}

func NewClientListenerWithFactory(factory Factory) *jsonrpc.SelectiveListener {
	requests := factory.NewCounterVec(CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "JSON-RPC requests sent, by method.",
	}, []string{"method"})
	failures := factory.NewCounterVec(CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "failures_total",
		Help:      "JSON-RPC requests that failed, by method and kind of failure.",
	}, []string{"method", "kind"})
	retries := factory.NewCounterVec(CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "retries_total",
		Help:      "JSON-RPC attempts repeated after a transport failure, by method.",
	}, []string{"method"})
	inFlight := factory.NewGauge(GaugeOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "in_flight",
		Help:      "JSON-RPC requests waiting for an answer.",
	})
	duration := factory.NewHistogramVec(HistogramOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "Time until a successful answer, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	return &jsonrpc.SelectiveListener{
		OnRequestCb: func(method string) {
			requests.WithLabelValues(method).Inc()
			inFlight.Inc()
		},
		OnRequestDoneCb: func(method string, took time.Duration) {
			inFlight.Dec()
			duration.WithLabelValues(method).Observe(took.Seconds())
		},
		OnRequestFailedCb: func(method string, err error) {
			inFlight.Dec()
			failures.WithLabelValues(method, failureKind(err)).Inc()
		},
		OnRetryCb: func(method string, _ int) {
			retries.WithLabelValues(method).Inc()
		},
	}
}

func failureKind(err error) string {
	var (
		rpcErr       *jsonrpc.Error
		transportErr *jsonrpc.TransportError
	)
	switch {
	case errors.As(err, &rpcErr):
		return "rpc"
	case errors.As(err, &transportErr):
		return transportErr.Kind.String()
	case errors.Is(err, jsonrpc.ErrCancelled):
		return "cancelled"
	case errors.Is(err, jsonrpc.ErrTimeout):
		return "timeout"
	}
	return "other"
}
