package workflow

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Observer receives structured events as a session moves through the
// workflow. Implementations must be safe for use from multiple goroutines:
// debounced preflight runs emit from a background goroutine.
type Observer interface {
	Event(event Event)
}

// Event represents one structured workflow event.
type Event struct {
	Type      EventType         // Type of event
	SessionID string            // Owning session
	State     State             // Session state when the event fired
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of workflow event.
type EventType string

const (
	// EventSessionStarted indicates a new session was opened.
	EventSessionStarted EventType = "session.started"
	// EventSessionClosed indicates the session was torn down.
	EventSessionClosed EventType = "session.closed"

	// EventStateChanged indicates the session moved to a new state.
	EventStateChanged EventType = "state.changed"

	// EventCredentialResolved indicates a credential ID was obtained.
	EventCredentialResolved EventType = "credential.resolved"

	// EventPreflightStarted indicates a preflight probe began.
	EventPreflightStarted EventType = "preflight.started"
	// EventPreflightCompleted indicates a preflight probe finished cleanly.
	EventPreflightCompleted EventType = "preflight.completed"
	// EventPreflightFailed indicates preflight found blockers or errored.
	EventPreflightFailed EventType = "preflight.failed"

	// EventEscalationSubmitted indicates a quota increase request was accepted.
	EventEscalationSubmitted EventType = "escalation.submitted"

	// EventContractSubmitted indicates a contract revision was accepted.
	EventContractSubmitted EventType = "contract.submitted"
	// EventClusterObserved indicates the cluster record appeared.
	EventClusterObserved EventType = "cluster.observed"

	// EventFault indicates a classified failure was recorded.
	EventFault EventType = "fault"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// Event implements Observer.
func (o ConsoleObserver) Event(event Event) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", event.Type, event.Message)

	if len(event.Fields) > 0 {
		keys := make([]string, 0, len(event.Fields))
		for k := range event.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, event.Fields[k])
		}
	}

	log.Print(b.String())
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Event implements Observer.
func (f ObserverFunc) Event(event Event) { f(event) }

// MultiObserver fans events out to several observers in order.
func MultiObserver(observers ...Observer) Observer {
	return ObserverFunc(func(event Event) {
		for _, o := range observers {
			o.Event(event)
		}
	})
}
