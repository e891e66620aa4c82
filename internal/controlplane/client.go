// Package controlplane provides the client for the platform control-plane
// HTTP API. Everything the workflow does to a cloud provider goes through
// this API; the core never talks to provider endpoints directly.
package controlplane

import (
	"context"
	"encoding/json"

	"github.com/provizor/provizor/internal/contract"
)

// CredentialService exchanges raw cloud secrets for opaque credential IDs.
type CredentialService interface {
	// CreateIntegration exchanges a provider-specific secret for a stable
	// credential ID owned by the project.
	CreateIntegration(ctx context.Context, projectID string, provider contract.Provider, secret json.RawMessage) (string, error)

	// InviteAdmin sends a best-effort admin invitation. Callers treat
	// failures as non-critical.
	InviteAdmin(ctx context.Context, projectID, email string) error
}

// PreflightService probes a cloud account for blockers before provisioning.
type PreflightService interface {
	// PreflightCheck runs the provider capability/quota probe. Synchronous;
	// may take up to a minute.
	PreflightCheck(ctx context.Context, projectID, credentialID string, values PreflightValues) (PreflightReport, error)
}

// QuotaService submits asynchronous quota-increase requests.
type QuotaService interface {
	// RequestQuotaIncrease asks the provider (via the control plane) to raise
	// the named quota dimensions. Success only means the request was
	// accepted, not that quota was granted.
	RequestQuotaIncrease(ctx context.Context, projectID, credentialID, region string, dimensions []string) error
}

// ClusterService submits contracts and observes resulting clusters.
type ClusterService interface {
	// CreateContract submits a contract revision. Idempotent per revision:
	// resubmitting the same revision with a populated cluster ID must not
	// create a second cluster.
	CreateContract(ctx context.Context, projectID string, c *contract.Contract) (*ContractRevision, error)

	// GetClusters lists the project's cluster records.
	GetClusters(ctx context.Context, projectID string) ([]ClusterRecord, error)
}

// Client is the full control-plane surface the workflow needs.
type Client interface {
	CredentialService
	PreflightService
	QuotaService
	ClusterService
}
