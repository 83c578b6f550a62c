// Package sessionmetrics exports session lifecycle events as Prometheus
// metrics.
//
//	metrics := sessionmetrics.New("myapp")
//	prometheus.MustRegister(metrics)
//	manager, _ := session.New(session.WithObserver(metrics), ...)
package sessionmetrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/sessionkit/pkg/fingerprint"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

var _ session.Observer = (*Observer)(nil)

// Observer implements session.Observer and prometheus.Collector.
type Observer struct {
	started     *prometheus.CounterVec
	stopped     prometheus.Counter
	regenerated prometheus.Counter
	mismatches  *prometheus.CounterVec
	missing     *prometheus.CounterVec
	storage     *prometheus.CounterVec
}

// New creates the collectors. Metric names are prefixed with namespace.
func New(namespace string) *Observer {
	return &Observer{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "started_total",
			Help:      "Sessions started, by whether an existing session was resumed.",
		}, []string{"resumed"}),
		stopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "stopped_total",
			Help:      "Sessions stopped and destroyed.",
		}),
		regenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "regenerated_total",
			Help:      "Session id regenerations.",
		}),
		mismatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "fingerprint_mismatch_total",
			Help:      "Sessions destroyed because the client fingerprint changed.",
		}, []string{"strict"}),
		missing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "client_attribute_missing_total",
			Help:      "Requests lacking a client attribute the fingerprint is bound to.",
		}, []string{"attribute", "strict"}),
		storage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "storage_errors_total",
			Help:      "Failed store operations.",
		}, []string{"operation"}),
	}
}

func (o *Observer) SessionStarted(resumed bool) {
	o.started.WithLabelValues(strconv.FormatBool(resumed)).Inc()
}

func (o *Observer) SessionStopped() { o.stopped.Inc() }

func (o *Observer) SessionRegenerated() { o.regenerated.Inc() }

func (o *Observer) FingerprintMismatch(strict bool) {
	o.mismatches.WithLabelValues(strconv.FormatBool(strict)).Inc()
}

func (o *Observer) ClientAttributeMissing(attr fingerprint.Attribute, strict bool) {
	o.missing.WithLabelValues(string(attr), strconv.FormatBool(strict)).Inc()
}

func (o *Observer) StorageFailed(operation string) {
	o.storage.WithLabelValues(operation).Inc()
}

// Describe implements prometheus.Collector.
func (o *Observer) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range o.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (o *Observer) Collect(ch chan<- prometheus.Metric) {
	for _, c := range o.collectors() {
		c.Collect(ch)
	}
}

func (o *Observer) collectors() []prometheus.Collector {
	return []prometheus.Collector{o.started, o.stopped, o.regenerated, o.mismatches, o.missing, o.storage}
}
