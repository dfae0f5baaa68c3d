// Package metrics exposes Prometheus collectors for lock dispatch.
//
// A nil *Collector is valid and records nothing, so callers can pass one
// around without checking whether metrics are enabled.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Task result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultFault = "fault"
)

// Collector groups the dispatch and lock metrics.
type Collector struct {
	// Submitted counts tasks handed to a dispatch strategy.
	Submitted *prometheus.CounterVec
	// Completed counts tasks that finished, by result.
	Completed *prometheus.CounterVec
	// Abandoned counts tasks that finished after every waiter detached.
	Abandoned *prometheus.CounterVec
	// InFlight reports tasks currently running on a worker.
	InFlight *prometheus.GaugeVec
	// Duration observes how long tasks held a worker.
	Duration *prometheus.HistogramVec
	// Acquisitions counts lock attempts by mode, blocking flag and outcome.
	Acquisitions *prometheus.CounterVec
	// Releases counts unlock calls by result.
	Releases *prometheus.CounterVec
}

// NewCollector creates an unregistered Collector.
func NewCollector() *Collector {
	return &Collector{
		Submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncflock_dispatch_submitted_total",
			Help: "Total number of blocking tasks submitted",
		}, []string{"shim"}),
		Completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncflock_dispatch_completed_total",
			Help: "Total number of blocking tasks completed",
		}, []string{"shim", "result"}),
		Abandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncflock_dispatch_abandoned_total",
			Help: "Total number of task results nobody was waiting for",
		}, []string{"shim"}),
		InFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asyncflock_dispatch_in_flight",
			Help: "Current number of tasks running on a worker",
		}, []string{"shim"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asyncflock_dispatch_duration_seconds",
			Help:    "Time a blocking task occupied a worker",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"shim"}),
		Acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncflock_lock_acquisitions_total",
			Help: "Total number of lock attempts",
		}, []string{"mode", "blocking", "outcome"}),
		Releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asyncflock_lock_releases_total",
			Help: "Total number of unlock calls",
		}, []string{"result"}),
	}
}

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Register registers every collector on reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.Submitted, c.Completed, c.Abandoned, c.InFlight, c.Duration, c.Acquisitions, c.Releases,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

// TaskStarted records a task entering a worker.
func (c *Collector) TaskStarted(shim string) {
	if c == nil {
		return
	}
	c.Submitted.WithLabelValues(shim).Inc()
	c.InFlight.WithLabelValues(shim).Inc()
}

// TaskFinished records a task leaving a worker.
func (c *Collector) TaskFinished(shim, result string, took time.Duration) {
	if c == nil {
		return
	}
	c.InFlight.WithLabelValues(shim).Dec()
	c.Completed.WithLabelValues(shim, result).Inc()
	c.Duration.WithLabelValues(shim).Observe(took.Seconds())
}

// TaskAbandoned records a result that no waiter collected.
func (c *Collector) TaskAbandoned(shim string) {
	if c == nil {
		return
	}
	c.Abandoned.WithLabelValues(shim).Inc()
}

// LockAttempt records one acquisition outcome.
func (c *Collector) LockAttempt(mode string, blocking bool, outcome string) {
	if c == nil {
		return
	}
	b := "false"
	if blocking {
		b = "true"
	}
	c.Acquisitions.WithLabelValues(mode, b, outcome).Inc()
}

// LockReleased records one unlock call.
func (c *Collector) LockReleased(err error) {
	if c == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	c.Releases.WithLabelValues(result).Inc()
}
