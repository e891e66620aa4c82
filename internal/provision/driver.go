// Package provision submits contracts to the control plane and observes the
// resulting cluster records.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
	"github.com/provizor/provizor/internal/util/retry"
)

// ErrStillProvisioning is returned when the poll budget runs out before a
// cluster record appears. The submission is still in flight provider-side;
// callers surface a "still provisioning" status instead of blocking forever.
var ErrStillProvisioning = errors.New("cluster is still provisioning")

const (
	// DefaultPollInterval is the flat delay between cluster-list polls.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxPollAttempts bounds the poll loop (~5 minutes at the
	// default interval).
	DefaultMaxPollAttempts = 60
)

// Submission identifies what a contract submission produced.
type Submission struct {
	ClusterID string
	Revision  int
}

// Driver applies contracts and polls for the resulting cluster.
type Driver struct {
	api             controlplane.ClusterService
	projectID       string
	pollInterval    time.Duration
	maxPollAttempts int
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithPollInterval sets the delay between cluster-list polls.
func WithPollInterval(d time.Duration) DriverOption {
	return func(dr *Driver) {
		dr.pollInterval = d
	}
}

// WithMaxPollAttempts bounds the number of cluster-list polls.
func WithMaxPollAttempts(n int) DriverOption {
	return func(dr *Driver) {
		dr.maxPollAttempts = n
	}
}

// NewDriver creates a driver for one project.
func NewDriver(api controlplane.ClusterService, projectID string, opts ...DriverOption) *Driver {
	d := &Driver{
		api:             api,
		projectID:       projectID,
		pollInterval:    DefaultPollInterval,
		maxPollAttempts: DefaultMaxPollAttempts,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Apply submits the contract. Idempotent per revision: a populated ClusterID
// means "update existing" and resubmitting the same revision never creates a
// second cluster. Failures are classified into the fault taxonomy.
func (d *Driver) Apply(ctx context.Context, ct *contract.Contract) (*Submission, error) {
	if err := ct.Validate(); err != nil {
		return nil, err
	}

	rev, err := d.api.CreateContract(ctx, d.projectID, ct)
	if err != nil {
		return nil, classifyApplyError(err)
	}

	return &Submission{ClusterID: rev.ClusterID, Revision: rev.Revision}, nil
}

// AwaitCluster polls the cluster list until a record with the submission's
// cluster ID appears, then returns it. The loop is bounded: when the budget
// runs out, ErrStillProvisioning is returned rather than blocking forever.
func (d *Driver) AwaitCluster(ctx context.Context, clusterID string) (*controlplane.ClusterRecord, error) {
	var found *controlplane.ClusterRecord

	err := retry.WithBackoff(ctx, func() error {
		clusters, err := d.api.GetClusters(ctx, d.projectID)
		if err != nil {
			if controlplane.IsTransient(err) {
				return err // retryable
			}
			return retry.Fatal(err)
		}

		for i := range clusters {
			if clusters[i].ID == clusterID {
				found = &clusters[i]
				return nil
			}
		}
		return fmt.Errorf("cluster %s not yet listed", clusterID)
	},
		retry.WithMaxRetries(d.maxPollAttempts-1),
		retry.WithFixedInterval(d.pollInterval))

	if err != nil {
		if retry.IsExhausted(err) {
			return nil, ErrStillProvisioning
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, faults.FromError(err)
	}
	return found, nil
}

// classifyApplyError maps contract submission failures onto the fault
// taxonomy. The control plane forwards raw provider text for provider-side
// failures, so unmatched messages go through the substring classifier.
func classifyApplyError(err error) error {
	switch {
	case controlplane.IsConflict(err):
		return faults.New(faults.KindConflict, err.Error())
	case controlplane.IsNotFound(err):
		// Updating a cluster the control plane no longer knows is a
		// contract problem, not a provider one.
		return faults.New(faults.KindValidation, err.Error())
	case controlplane.IsAuthRejected(err):
		return faults.New(faults.KindUpstreamAuth, err.Error())
	case controlplane.IsTransient(err):
		return faults.New(faults.KindTransientNetwork, err.Error())
	default:
		return faults.FromError(err)
	}
}
