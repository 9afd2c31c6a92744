// Package metrics exposes dispatch telemetry as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davrell/graft/pkg/hook"
)

// Observer implements hook.Observer on top of Prometheus collectors.
type Observer struct {
	dispatches *prometheus.CounterVec
	violations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

var _ hook.Observer = (*Observer)(nil)

// New creates the collectors and registers them with the given registerer.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_hook_dispatches_total",
			Help: "Dispatches per extension point and outcome.",
		}, []string{"hook", "outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "graft_hook_violations_total",
			Help: "Handler violations per extension point and code.",
		}, []string{"hook", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "graft_hook_dispatch_seconds",
			Help:    "Dispatch latency per extension point.",
			Buckets: prometheus.DefBuckets,
		}, []string{"hook"}),
	}

	for _, c := range []prometheus.Collector{o.dispatches, o.violations, o.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// ObserveDispatch records one dispatch with its outcome and duration.
func (o *Observer) ObserveDispatch(kind hook.Kind, outcome string, d time.Duration) {
	o.dispatches.WithLabelValues(string(kind), outcome).Inc()
	o.latency.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// ObserveViolation records one handler violation.
func (o *Observer) ObserveViolation(kind hook.Kind, code string) {
	code = orUnknown(code)
	o.violations.WithLabelValues(string(kind), code).Inc()
}

func orUnknown(code string) string {
	if code == "" {
		return "unknown"
	}
	return code
}
