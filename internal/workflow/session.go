// Package workflow drives a cluster provisioning session from provider
// selection through credential exchange, preflight, optional quota
// escalation, contract submission, and polling until the cluster appears.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/credentials"
	"github.com/provizor/provizor/internal/faults"
	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/provision"
	"github.com/provizor/provizor/internal/quota"
)

// State identifies where a session is in the provisioning workflow.
type State string

const (
	// StateSelectProvider is the initial state before a provider is chosen.
	StateSelectProvider State = "select_provider"
	// StateCredentials awaits provider credentials.
	StateCredentials State = "credentials"
	// StateConfigure awaits a cluster contract.
	StateConfigure State = "configure"
	// StatePreflight means a preflight probe is running or being retried.
	StatePreflight State = "preflight"
	// StateQuotaEscalation means a quota increase request is in flight.
	StateQuotaEscalation State = "quota_escalation"
	// StateProvisioning means preflight cleared and the contract may be,
	// or has been, submitted.
	StateProvisioning State = "provisioning"
	// StateDone means the cluster was observed running.
	StateDone State = "done"
	// StateFailed means a classified fault blocked progress. The contract
	// stays editable and the session can be resumed.
	StateFailed State = "failed"
)

const (
	// DefaultDebounce is how long configuration changes are coalesced
	// before an automatic preflight fires.
	DefaultDebounce = 500 * time.Millisecond
	// DefaultMaxPreflightRuns bounds manual and automatic preflight
	// attempts per session.
	DefaultMaxPreflightRuns = 10
)

// ErrBusy is returned when a mutating operation is invoked while another
// one is still in flight for the same session.
var ErrBusy = errors.New("workflow: another operation is in progress")

// ErrClosed is returned for operations on a closed session.
var ErrClosed = errors.New("workflow: session is closed")

// RevisionRecorder persists accepted contract revisions. Implementations
// must tolerate being called once per successful submission.
type RevisionRecorder interface {
	SaveRevision(ctx context.Context, ct *contract.Contract) error
}

// Snapshot is a point-in-time view of a session, safe to read after the
// originating call returns.
type Snapshot struct {
	SessionID         string
	Provider          contract.Provider
	State             State
	CredentialID      string
	Contract          *contract.Contract
	Report            *preflight.Report
	Fault             *faults.Fault
	Cluster           *controlplane.ClusterRecord
	Escalated         bool
	StillProvisioning bool
	PreflightRuns     int
}

// Session owns one provisioning workflow. All exported methods are safe
// for concurrent use; mutating operations are mutually exclusive and
// return ErrBusy when they overlap.
type Session struct {
	id        string
	provider  contract.Provider
	projectID string
	api       controlplane.Client

	resolver  *credentials.Resolver
	checker   *preflight.Checker
	requester *quota.Requester
	driver    *provision.Driver

	observer Observer
	recorder RevisionRecorder

	debounce         time.Duration
	maxPreflightRuns int

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	busy          bool
	closed        bool
	state         State
	credentialID  string
	contract      *contract.Contract
	report        *preflight.Report
	fault         *faults.Fault
	cluster       *controlplane.ClusterRecord
	escalated     bool
	stillPolling  bool
	preflightRuns int
	lastProbeKey  string
	debounceTimer *time.Timer
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithObserver attaches an observer for workflow events.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRecorder attaches a revision recorder.
func WithRecorder(r RevisionRecorder) SessionOption {
	return func(s *Session) { s.recorder = r }
}

// WithDebounce overrides the auto-preflight debounce window.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithMaxPreflightRuns overrides the per-session preflight attempt bound.
func WithMaxPreflightRuns(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxPreflightRuns = n
		}
	}
}

// WithAdminEmail sets the address invited as account admin after a
// credential exchange succeeds.
func WithAdminEmail(email string) SessionOption {
	return func(s *Session) {
		s.resolver = credentials.NewResolver(s.api, s.projectID, email)
	}
}

// WithDriverOptions forwards options to the provisioning driver.
func WithDriverOptions(opts ...provision.DriverOption) SessionOption {
	return func(s *Session) {
		s.driver = provision.NewDriver(s.api, s.projectID, opts...)
	}
}

// NewSession opens a session for the given provider. The session starts
// in the credentials state: the provider choice is the first transition.
func NewSession(api controlplane.Client, projectID string, provider contract.Provider, opts ...SessionOption) (*Session, error) {
	if !provider.IsValid() {
		return nil, faults.Validation("unsupported provider %q", provider)
	}
	if projectID == "" {
		return nil, faults.Validation("project ID is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:               uuid.NewString(),
		provider:         provider,
		projectID:        projectID,
		api:              api,
		resolver:         credentials.NewResolver(api, projectID, ""),
		checker:          preflight.NewChecker(api, projectID),
		requester:        quota.NewRequester(api, projectID),
		driver:           provision.NewDriver(api, projectID),
		observer:         NopObserver{},
		debounce:         DefaultDebounce,
		maxPreflightRuns: DefaultMaxPreflightRuns,
		ctx:              ctx,
		cancel:           cancel,
		state:            StateSelectProvider,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.emit(EventSessionStarted, fmt.Sprintf("session started for provider %s", provider), map[string]string{
		"provider": provider.String(),
		"project":  projectID,
	})
	s.transition(StateCredentials, "provider selected, awaiting credentials")
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Provider returns the provider this session was opened for.
func (s *Session) Provider() contract.Provider { return s.provider }

// CurrentState returns a snapshot of the session.
func (s *Session) CurrentState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		SessionID:         s.id,
		Provider:          s.provider,
		State:             s.state,
		CredentialID:      s.credentialID,
		Contract:          s.contract,
		Report:            s.report,
		Fault:             s.fault,
		Cluster:           s.cluster,
		Escalated:         s.escalated,
		StillProvisioning: s.stillPolling,
		PreflightRuns:     s.preflightRuns,
	}
}

// Close cancels any in-flight polling and pending debounced preflight
// runs. The session accepts no operations afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	s.mu.Unlock()

	s.cancel()
	s.emit(EventSessionClosed, "session closed", nil)
}

// SubmitCredentials validates and exchanges the raw provider secret for a
// credential ID. Validation failures never reach the control plane.
func (s *Session) SubmitCredentials(ctx context.Context, secret []byte) error {
	if err := s.begin(StateCredentials, StateFailed); err != nil {
		return err
	}
	defer s.end()

	credentialID, err := s.resolver.Resolve(ctx, s.provider, secret)
	if err != nil {
		s.recordFault(err)
		// Bad input keeps the session on the credentials step.
		s.transition(StateCredentials, "credential rejected")
		return err
	}

	s.mu.Lock()
	s.credentialID = credentialID
	s.fault = nil
	s.mu.Unlock()

	s.emit(EventCredentialResolved, "credential exchanged", map[string]string{"credential_id": credentialID})
	s.transition(StateConfigure, "awaiting cluster configuration")
	return nil
}

// SubmitConfiguration validates and stores a contract. When the probe key
// (provider, region, credential) changes, an automatic preflight is
// scheduled after the debounce window so rapid edits coalesce into one run.
func (s *Session) SubmitConfiguration(ctx context.Context, ct *contract.Contract) error {
	if err := s.begin(StateConfigure, StatePreflight, StateProvisioning, StateFailed); err != nil {
		return err
	}
	defer s.end()

	if ct == nil {
		return faults.Validation("contract is required")
	}
	if ct.CloudProvider != s.provider {
		return faults.Validation("contract provider %q does not match session provider %q", ct.CloudProvider, s.provider)
	}

	s.mu.Lock()
	ct.ProjectID = s.projectID
	ct.CredentialID = s.credentialID
	s.mu.Unlock()

	if err := ct.Validate(); err != nil {
		s.recordFault(err)
		return err
	}

	s.mu.Lock()
	s.contract = ct
	s.fault = nil
	probeChanged := ct.ProbeKey() != s.lastProbeKey
	s.lastProbeKey = ct.ProbeKey()
	s.mu.Unlock()

	s.transition(StateConfigure, "configuration accepted")
	if probeChanged {
		s.scheduleAutoPreflight()
	}
	return nil
}

// RunPreflight probes the provider account against the current contract.
// Attempts are bounded per session; once exhausted the session fails with
// a retry-exhausted fault and only a new session can probe again.
func (s *Session) RunPreflight(ctx context.Context) (*preflight.Report, error) {
	if err := s.begin(StateConfigure, StatePreflight, StateFailed); err != nil {
		return nil, err
	}
	defer s.end()
	return s.runPreflight(ctx)
}

// runPreflight assumes the busy flag is held.
func (s *Session) runPreflight(ctx context.Context) (*preflight.Report, error) {
	s.mu.Lock()
	ct := s.contract
	if ct == nil {
		s.mu.Unlock()
		// Unconfigured calls do not count against the attempt budget.
		return nil, faults.Validation("no configuration submitted")
	}
	s.preflightRuns++
	runs := s.preflightRuns
	s.mu.Unlock()

	if runs > s.maxPreflightRuns {
		f := faults.New(faults.KindRetryExhausted,
			fmt.Sprintf("preflight attempted %d times without passing", runs-1))
		s.recordFault(f)
		s.transition(StateFailed, "preflight attempts exhausted")
		return nil, f
	}

	s.transition(StatePreflight, "running preflight")
	s.emit(EventPreflightStarted, "preflight started", map[string]string{
		"probe":   ct.ProbeKey(),
		"attempt": fmt.Sprintf("%d", runs),
	})

	report, err := s.checker.Check(ctx, ct)
	if err != nil {
		s.recordFault(err)
		if f := faults.FromError(err); f.Kind.Retryable() {
			// Transient probe errors keep the session retryable in place.
			s.transition(StatePreflight, "preflight errored, retry possible")
		} else {
			s.transition(StateFailed, "preflight errored")
		}
		return nil, err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	if report.Passed() {
		s.mu.Lock()
		s.fault = nil
		s.mu.Unlock()
		s.emit(EventPreflightCompleted, "all preflight checks passed", map[string]string{"probe": report.ProbeKey})
		s.transition(StateProvisioning, "preflight clear, ready to provision")
		return report, nil
	}

	blocking := report.BlockingFault()
	s.recordFault(blocking)
	s.emit(EventPreflightFailed, "preflight checks failed", map[string]string{
		"probe":    report.ProbeKey,
		"failures": fmt.Sprintf("%d", len(report.Failures())),
	})
	s.transition(StateFailed, "preflight found blockers")
	return report, nil
}

// RequestQuotaEscalation submits a quota increase for the given dimensions
// and, on acceptance, moves straight to provisioning without re-running
// preflight. When dims is empty the dimensions are derived from the last
// report's quota failures.
func (s *Session) RequestQuotaEscalation(ctx context.Context, dims []quota.Dimension) error {
	if err := s.begin(StateFailed, StatePreflight); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	fault := s.fault
	report := s.report
	ct := s.contract
	credentialID := s.credentialID
	s.mu.Unlock()

	if fault == nil || !fault.Kind.IsQuota() {
		return faults.Validation("quota escalation requires a quota failure")
	}
	if ct == nil {
		return faults.Validation("no configuration submitted")
	}
	if len(dims) == 0 && report != nil {
		for _, failure := range report.QuotaFailures() {
			if d, ok := quota.DimensionForKind(failure.Fault.Kind); ok {
				dims = append(dims, d)
			}
		}
	}
	escalatable := quota.DimensionsFor(s.provider)
	for _, d := range dims {
		if !slices.Contains(escalatable, d) {
			return faults.Validation("dimension %s cannot be escalated for provider %s", d, s.provider)
		}
	}

	s.transition(StateQuotaEscalation, "requesting quota increase")
	if err := s.requester.RequestIncrease(ctx, credentialID, ct.Region, dims); err != nil {
		s.recordFault(err)
		s.transition(StateFailed, "quota escalation rejected")
		return err
	}

	s.mu.Lock()
	s.escalated = true
	s.fault = nil
	s.mu.Unlock()

	s.emit(EventEscalationSubmitted, "quota increase accepted", map[string]string{
		"dimensions": fmt.Sprintf("%v", dims),
	})
	// The operator acknowledged the increase, so the session proceeds
	// without another probe of the same account.
	s.transition(StateProvisioning, "escalation acknowledged, ready to provision")
	return nil
}

// DeclineEscalation keeps the session failed after a quota blocker. The
// contract remains editable; resubmitting a configuration resumes.
func (s *Session) DeclineEscalation() error {
	if err := s.begin(StateFailed); err != nil {
		return err
	}
	defer s.end()
	s.transition(StateFailed, "quota escalation declined")
	return nil
}

// Provision submits the current contract and polls until the cluster
// record appears. A nil record with provision.ErrStillProvisioning means
// the poll bound elapsed while the control plane was still converging.
func (s *Session) Provision(ctx context.Context) (*controlplane.ClusterRecord, error) {
	if err := s.begin(StateProvisioning); err != nil {
		return nil, err
	}
	defer s.end()

	// Polling stops when either the caller's context or the session is
	// cancelled, so Close interrupts a Provision in flight.
	ctx, stop := s.boundToSession(ctx)
	defer stop()

	s.mu.Lock()
	ct := s.contract
	s.mu.Unlock()
	if ct == nil {
		return nil, faults.Validation("no configuration submitted")
	}

	sub, err := s.driver.Apply(ctx, ct)
	if err != nil {
		s.recordFault(err)
		// The contract stays editable so the failure can be corrected
		// and resubmitted.
		s.transition(StateFailed, "contract submission failed")
		return nil, err
	}

	s.mu.Lock()
	ct.ClusterID = sub.ClusterID
	ct.Revision = sub.Revision
	s.mu.Unlock()

	s.emit(EventContractSubmitted, "contract accepted", map[string]string{
		"cluster_id": sub.ClusterID,
		"revision":   fmt.Sprintf("%d", sub.Revision),
	})
	if s.recorder != nil {
		if recErr := s.recorder.SaveRevision(ctx, ct); recErr != nil {
			s.emit(EventFault, fmt.Sprintf("revision not recorded: %v", recErr), nil)
		}
	}

	record, err := s.driver.AwaitCluster(ctx, sub.ClusterID)
	if err != nil {
		if errors.Is(err, provision.ErrStillProvisioning) {
			s.mu.Lock()
			s.stillPolling = true
			s.mu.Unlock()
			s.transition(StateProvisioning, "cluster still provisioning after poll bound")
			return nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.recordFault(err)
		s.transition(StateFailed, "cluster did not become visible")
		return nil, err
	}

	s.mu.Lock()
	s.cluster = record
	s.stillPolling = false
	s.mu.Unlock()

	s.emit(EventClusterObserved, "cluster observed", map[string]string{
		"cluster_id": record.ID,
		"status":     string(record.Status),
	})
	s.transition(StateDone, "cluster running")
	return record, nil
}

// boundToSession derives a context that is cancelled when either the
// caller's context or the session's lifetime context ends.
func (s *Session) boundToSession(ctx context.Context) (context.Context, context.CancelFunc) {
	merged, cancel := context.WithCancel(ctx)
	unhook := context.AfterFunc(s.ctx, cancel)
	return merged, func() {
		unhook()
		cancel()
	}
}

// scheduleAutoPreflight arms the debounce timer. A later call before the
// window elapses re-arms it so only the final configuration is probed.
func (s *Session) scheduleAutoPreflight() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		if s.closed || s.busy || s.state != StateConfigure {
			s.mu.Unlock()
			return
		}
		s.busy = true
		s.mu.Unlock()
		defer s.end()

		if _, err := s.runPreflight(s.ctx); err != nil {
			s.emit(EventFault, fmt.Sprintf("automatic preflight: %v", err), nil)
		}
	})
}

// begin acquires the mutating-operation slot when the session is in one of
// the allowed states.
func (s *Session) begin(allowed ...State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.busy {
		return ErrBusy
	}
	ok := false
	for _, st := range allowed {
		if s.state == st {
			ok = true
			break
		}
	}
	if !ok {
		return faults.Validation("operation not allowed in state %q", s.state)
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) recordFault(err error) {
	f := faults.FromError(err)
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
	s.emit(EventFault, f.Detail, map[string]string{"kind": string(f.Kind)})
}

// transition moves the session to a new state and emits a state event.
// Re-entering the same non-failed state is silent.
func (s *Session) transition(to State, msg string) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()
	if from == to && to != StateFailed {
		return
	}
	s.emit(EventStateChanged, msg, map[string]string{
		"from": string(from),
		"to":   string(to),
	})
}

func (s *Session) emit(t EventType, msg string, fields map[string]string) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	s.observer.Event(Event{
		Type:      t,
		SessionID: s.id,
		State:     state,
		Message:   msg,
		Timestamp: time.Now(),
		Fields:    fields,
	})
}
