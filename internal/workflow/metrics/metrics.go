// Package metrics exposes workflow activity as Prometheus metrics. It plugs
// into a session as an Observer, so the session core stays free of any
// instrumentation concern.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/provizor/provizor/internal/workflow"
)

// Observer translates workflow events into Prometheus metrics.
type Observer struct {
	transitions  *prometheus.CounterVec
	faults       *prometheus.CounterVec
	preflights   *prometheus.CounterVec
	escalations  prometheus.Counter
	provisioning prometheus.Histogram

	mu        sync.Mutex
	submitted map[string]time.Time
}

// NewObserver registers the workflow metrics with reg and returns the
// observer. Passing prometheus.DefaultRegisterer wires the process-wide
// registry.
func NewObserver(reg prometheus.Registerer) *Observer {
	o := &Observer{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provizor_workflow_transitions_total",
			Help: "Session state transitions by origin and destination state.",
		}, []string{"from", "to"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provizor_workflow_faults_total",
			Help: "Classified faults recorded by sessions, by fault kind.",
		}, []string{"kind"}),
		preflights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provizor_workflow_preflight_runs_total",
			Help: "Preflight runs by outcome (completed, failed).",
		}, []string{"outcome"}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "provizor_workflow_escalations_total",
			Help: "Accepted quota escalation requests.",
		}),
		provisioning: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "provizor_workflow_provisioning_duration_seconds",
			Help:    "Time from contract acceptance until the cluster was observed.",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		}),
		submitted: make(map[string]time.Time),
	}
	reg.MustRegister(o.transitions, o.faults, o.preflights, o.escalations, o.provisioning)
	return o
}

// Event implements workflow.Observer.
func (o *Observer) Event(event workflow.Event) {
	switch event.Type {
	case workflow.EventStateChanged:
		o.transitions.WithLabelValues(event.Fields["from"], event.Fields["to"]).Inc()

	case workflow.EventFault:
		o.faults.WithLabelValues(event.Fields["kind"]).Inc()

	case workflow.EventPreflightCompleted:
		o.preflights.WithLabelValues("completed").Inc()

	case workflow.EventPreflightFailed:
		o.preflights.WithLabelValues("failed").Inc()

	case workflow.EventEscalationSubmitted:
		o.escalations.Inc()

	case workflow.EventContractSubmitted:
		o.mu.Lock()
		o.submitted[event.SessionID] = event.Timestamp
		o.mu.Unlock()

	case workflow.EventClusterObserved:
		o.mu.Lock()
		start, ok := o.submitted[event.SessionID]
		delete(o.submitted, event.SessionID)
		o.mu.Unlock()
		if ok {
			o.provisioning.Observe(event.Timestamp.Sub(start).Seconds())
		}

	case workflow.EventSessionClosed:
		o.mu.Lock()
		delete(o.submitted, event.SessionID)
		o.mu.Unlock()
	}
}
