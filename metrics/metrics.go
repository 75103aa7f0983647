// Package metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paralead"

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

// Provider records contract calls and dashboard actions. A nil *Provider records nothing.
type Provider struct {
	gatherer prometheus.Gatherer

	calls        *prometheus.CounterVec
	callDuration *prometheus.HistogramVec
	actions      *prometheus.CounterVec
	loads        *prometheus.CounterVec
}

func New(reg *prometheus.Registry) (*Provider, error) {
	p := &Provider{
		gatherer: reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "calls_total",
			Help:      "Remote contract calls by method and outcome.",
		}, []string{"method", "outcome"}),
		callDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "call_duration_seconds",
			Help:      "Latency of remote contract calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "actions_total",
			Help:      "User actions by name and outcome.",
		}, []string{"action", "outcome"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "state_loads_total",
			Help:      "Full state loads by outcome.",
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{p.calls, p.callDuration, p.actions, p.loads} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Provider) ObserveCall(method string, start time.Time, err error) {
	if p == nil {
		return
	}
	p.calls.WithLabelValues(method, outcome(err)).Inc()
	p.callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (p *Provider) ObserveAction(action string, err error) {
	if p == nil {
		return
	}
	p.actions.WithLabelValues(action, outcome(err)).Inc()
}

func (p *Provider) ObserveLoad(err error) {
	if p == nil {
		return
	}
	p.loads.WithLabelValues(outcome(err)).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (p *Provider) Handler() http.Handler {
	if p == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return outcomeError
	}
	return outcomeOK
}
