package bridge

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects per-call counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CallsActive  prometheus.Gauge
	CallsTotal   *prometheus.CounterVec
	CallDuration prometheus.Histogram
	ToolCalls    *prometheus.CounterVec
	MediaFrames  *prometheus.CounterVec
	VendorErrors prometheus.Counter
}

// NewMetrics registers all bridge metrics under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "publicapi"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		CallsActive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "calls_active",
			Help: "Calls currently bridged to the realtime model",
		}),
		CallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "calls_total",
			Help: "Finished calls by outcome",
		}, []string{"outcome"}),
		CallDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "call_duration_seconds",
			Help:    "Call duration in seconds",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "tool_calls_total",
			Help: "Tool invocations requested by the model",
		}, []string{"tool"}),
		MediaFrames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "media_frames_total",
			Help: "Audio frames forwarded, by direction",
		}, []string{"direction"}),
		VendorErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bridge", Name: "vendor_errors_total",
			Help: "Error events received from the realtime model",
		}),
	}
}

// Registry lets other packages add their own collectors next to the
// bridge's.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) callStarted() {
	if m != nil {
		m.CallsActive.Inc()
	}
}

func (m *Metrics) callEnded(outcome string, d time.Duration) {
	if m != nil {
		m.CallsActive.Dec()
		m.CallsTotal.WithLabelValues(outcome).Inc()
		m.CallDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) toolCall(name string) {
	if m != nil {
		m.ToolCalls.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) frame(direction string) {
	if m != nil {
		m.MediaFrames.WithLabelValues(direction).Inc()
	}
}

func (m *Metrics) vendorError() {
	if m != nil {
		m.VendorErrors.Inc()
	}
}
