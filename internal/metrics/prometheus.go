package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "toolsgate"

// PrometheusRecorder exports metrics through a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	toolRequests      *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	artifactsWritten  *prometheus.CounterVec
	artifactsExpired  prometheus.Counter
	rateLimited       *prometheus.CounterVec
	usersRegistered   prometheus.Counter
}

// NewPrometheus creates a recorder with Go runtime and process collectors attached.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	p := &PrometheusRecorder{
		registry: reg,
		toolRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_requests_total",
			Help:      "Tool requests by tool and outcome.",
		}, []string{"tool", "status"}),
		inferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Latency of remote inference calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"model"}),
		artifactsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_written_total",
			Help:      "Generated files written to the temp directory.",
		}, []string{"kind"}),
		artifactsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_expired_total",
			Help:      "Generated files removed by the janitor.",
		}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by rate limiting.",
		}, []string{"scope"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Users created through register or login.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.toolRequests,
		p.inferenceDuration,
		p.artifactsWritten,
		p.artifactsExpired,
		p.rateLimited,
		p.usersRegistered,
	)

	return p
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// IncToolRequest increments the tool request counter.
func (p *PrometheusRecorder) IncToolRequest(tool, status string) {
	p.toolRequests.WithLabelValues(tool, status).Inc()
}

// ObserveInferenceDuration records inference call duration.
func (p *PrometheusRecorder) ObserveInferenceDuration(model string, duration time.Duration) {
	p.inferenceDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// IncArtifactWritten increments the artifact counter.
func (p *PrometheusRecorder) IncArtifactWritten(kind string) {
	p.artifactsWritten.WithLabelValues(kind).Inc()
}

// IncArtifactExpired adds swept artifacts.
func (p *PrometheusRecorder) IncArtifactExpired(count int) {
	if count > 0 {
		p.artifactsExpired.Add(float64(count))
	}
}

// IncRateLimited increments the rejected request counter for a scope.
func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

// IncUserRegistered increments the registration counter.
func (p *PrometheusRecorder) IncUserRegistered() {
	p.usersRegistered.Inc()
}
