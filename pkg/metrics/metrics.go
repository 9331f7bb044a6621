package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client-side counters of the interaction layer.
// All recording methods are safe on a nil receiver.
type Metrics struct {
	TogglesTotal       *prometheus.CounterVec
	StatusChecksTotal  *prometheus.CounterVec
	PollTicksTotal     *prometheus.CounterVec
	PollDiscardedTotal *prometheus.CounterVec
	CommentOpsTotal    *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize registers the metrics with the default registry once
func Initialize() *Metrics {
	once.Do(func() {
		instance = New(prometheus.DefaultRegisterer)
	})
	return instance
}

// New registers a fresh set of metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TogglesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_toggles_total",
				Help: "Toggle attempts by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		StatusChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_status_checks_total",
				Help: "One-shot status checks by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		PollTicksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_poll_ticks_total",
				Help: "Polling fetches by subscription, mode and outcome",
			},
			[]string{"subscription", "mode", "outcome"},
		),
		PollDiscardedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_poll_discarded_total",
				Help: "Poll results dropped because the subscription stopped or the response was stale",
			},
			[]string{"subscription", "reason"},
		),
		CommentOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campus_comment_ops_total",
				Help: "Comment mutations by kind, operation and outcome",
			},
			[]string{"kind", "op", "outcome"},
		),
	}
}

// Toggle records a toggle outcome
func (m *Metrics) Toggle(action, outcome string) {
	if m == nil {
		return
	}
	m.TogglesTotal.WithLabelValues(action, outcome).Inc()
}

// StatusCheck records a status check outcome
func (m *Metrics) StatusCheck(action, outcome string) {
	if m == nil {
		return
	}
	m.StatusChecksTotal.WithLabelValues(action, outcome).Inc()
}

// PollTick records one polling fetch
func (m *Metrics) PollTick(subscription, mode, outcome string) {
	if m == nil {
		return
	}
	m.PollTicksTotal.WithLabelValues(subscription, mode, outcome).Inc()
}

// PollDiscarded records a dropped poll result
func (m *Metrics) PollDiscarded(subscription, reason string) {
	if m == nil {
		return
	}
	m.PollDiscardedTotal.WithLabelValues(subscription, reason).Inc()
}

// CommentOp records a comment mutation
func (m *Metrics) CommentOp(kind, op, outcome string) {
	if m == nil {
		return
	}
	m.CommentOpsTotal.WithLabelValues(kind, op, outcome).Inc()
}
