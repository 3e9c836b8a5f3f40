package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics
// records nothing.
type Metrics struct {
	requests  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cacheHits prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pratt",
			Name:      "requests_total",
			Help:      "Evaluation requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pratt",
			Name:      "errors_total",
			Help:      "Failed evaluations by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pratt",
			Name:      "request_duration_seconds",
			Help:      "Time spent evaluating a request.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .05, .1},
		}, []string{"mode"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pratt",
			Name:      "cache_hits_total",
			Help:      "Requests answered from the result cache.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.errors, m.duration, m.cacheHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(resp *Response, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if resp.Error != nil {
		outcome = OutcomeError
		m.errors.WithLabelValues(resp.Error.Code).Inc()
	}
	if resp.Cached {
		m.cacheHits.Inc()
	}
	m.requests.WithLabelValues(resp.Mode, outcome).Inc()
	m.duration.WithLabelValues(resp.Mode).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRejected(mode string) {
	if m == nil {
		return
	}
	if mode != ModeEval && mode != ModeTree {
		mode = "unknown"
	}
	m.requests.WithLabelValues(mode, OutcomeRejected).Inc()
}
