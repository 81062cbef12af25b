package metrics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricValue(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if !matches(m, labels) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return 0
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, pair := range m.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestClientListener(t *testing.T) {
	registry := prometheus.NewRegistry()
	listener := metrics.NewClientListener(registry)

	listener.OnRequest("starknet_chainId")
	listener.OnRequestDone("starknet_chainId", 10*time.Millisecond)
	listener.OnRequest("starknet_call")
	listener.OnRetry("starknet_call", 1)
	listener.OnRequestFailed("starknet_call", &jsonrpc.Error{Code: 40})
	listener.OnRequest("starknet_call")
	listener.OnRequestFailed("starknet_call", &jsonrpc.TransportError{Kind: jsonrpc.KindHTTP, Status: 503})
	listener.OnRequest("starknet_call")
	listener.OnRequestFailed("starknet_call", errors.New("boom"))

	tests := map[string]struct {
		name   string
		labels map[string]string
		want   float64
	}{
		"chainId requests": {
			name:   "starkclient_rpc_requests_total",
			labels: map[string]string{"method": "starknet_chainId"},
			want:   1,
		},
		"call requests": {
			name:   "starkclient_rpc_requests_total",
			labels: map[string]string{"method": "starknet_call"},
			want:   3,
		},
		"rpc failures": {
			name:   "starkclient_rpc_failures_total",
			labels: map[string]string{"method": "starknet_call", "kind": "rpc"},
			want:   1,
		},
		"http failures": {
			name:   "starkclient_rpc_failures_total",
			labels: map[string]string{"method": "starknet_call", "kind": "http"},
			want:   1,
		},
		"other failures": {
			name:   "starkclient_rpc_failures_total",
			labels: map[string]string{"method": "starknet_call", "kind": "other"},
			want:   1,
		},
		"retries": {
			name:   "starkclient_rpc_retries_total",
			labels: map[string]string{"method": "starknet_call"},
			want:   1,
		},
		"durations": {
			name:   "starkclient_rpc_request_duration_seconds",
			labels: map[string]string{"method": "starknet_chainId"},
			want:   1,
		},
		"nothing in flight": {
			name: "starkclient_rpc_in_flight",
			want: 0,
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, metricValue(t, registry, test.name, test.labels))
		})
	}
}

func TestClientListenerWired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	registry := metrics.PrometheusRegistry()
	client := jsonrpc.NewClient(srv.URL).WithListener(metrics.NewClientListener(registry))
	require.NoError(t, client.Call(context.Background(), nil, "starknet_chainId"))

	assert.Equal(t, 1.0, metricValue(t, registry, "starkclient_rpc_requests_total",
		map[string]string{"method": "starknet_chainId"}))

	rec := httptest.NewRecorder()
	metrics.PrometheusHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "starkclient_rpc_requests_total")
}

func TestVoidFactory(t *testing.T) {
	listener := metrics.NewClientListener(nil)
	assert.NotPanics(t, func() {
		listener.OnRequest("starknet_chainId")
		listener.OnRequestFailed("starknet_chainId", jsonrpc.ErrTimeout)
	})

	factory := metrics.VoidFactory()
	tests := map[string]func(){
		"counter": func() {
			factory.NewCounterVec(metrics.CounterOpts{Name: "c"}, []string{"method"}).WithLabelValues("a").Inc()
		},
		"gauge": func() {
			g := factory.NewGauge(metrics.GaugeOpts{Name: "g"})
			g.Inc()
			g.Dec()
		},
		"histogram": func() {
			factory.NewHistogramVec(metrics.HistogramOpts{Name: "h"}, []string{"method"}).WithLabelValues("a").Observe(1)
		},
	}
	for name, record := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, record)
		})
	}

	// the same names can be asked for again since nothing registers
	assert.NotPanics(t, func() {
		metrics.NewClientListenerWithFactory(factory)
		metrics.NewClientListenerWithFactory(factory)
	})
}
