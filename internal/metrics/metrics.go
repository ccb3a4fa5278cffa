// Package metrics records qualification submissions in Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess        = "success"
	OutcomeServiceError   = "service_error"
	OutcomeTransportError = "transport_error"
)

// Recorder is what the submission controller reports to.
type Recorder interface {
	SubmissionStarted(mode string)
	SubmissionSettled(mode, outcome string, elapsed time.Duration)
}

type Nop struct{}

func (Nop) SubmissionStarted(string) {}

func (Nop) SubmissionSettled(string, string, time.Duration) {}

type Prometheus struct {
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	inFlight    prometheus.Gauge
}

type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

func WithNamespace(ns string) Option {
	return func(o *options) {
		if ns != "" {
			o.namespace = ns
		}
	}
}

func WithBuckets(b []float64) Option {
	return func(o *options) {
		if len(b) > 0 {
			o.buckets = b
		}
	}
}

// NewPrometheus registers the submission collectors with reg.
func NewPrometheus(reg prometheus.Registerer, opts ...Option) (*Prometheus, error) {
	o := options{
		namespace: "qualifier",
		// Qualification runs web searches and LLM calls, so latencies run
		// from seconds to minutes.
		buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120, 300},
	}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Prometheus{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "submissions_total",
			Help:      "Qualification submissions by mode and outcome.",
		}, []string{"mode", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from submission start to settled result.",
			Buckets:   o.buckets,
		}, []string{"mode"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Name:      "submissions_in_flight",
			Help:      "Submissions waiting on the qualification service.",
		}),
	}

	for _, c := range []prometheus.Collector{p.submissions, p.latency, p.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) SubmissionStarted(string) {
	p.inFlight.Inc()
}

func (p *Prometheus) SubmissionSettled(mode, outcome string, elapsed time.Duration) {
	p.inFlight.Dec()
	p.submissions.WithLabelValues(mode, outcome).Inc()
	p.latency.WithLabelValues(mode).Observe(elapsed.Seconds())
}
