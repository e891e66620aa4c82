package controlplane

import (
	"encoding/json"

	"github.com/provizor/provizor/internal/contract"
)

// CheckResult is one entry of a preflight report. A non-empty Message means
// the check failed; absence of a message means it passed.
type CheckResult struct {
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Passed reports whether the check succeeded.
func (r CheckResult) Passed() bool {
	return r.Message == ""
}

// PreflightReport maps check name to result. It is ephemeral: recomputed on
// every preflight invocation and never persisted.
type PreflightReport map[string]CheckResult

// PreflightValues is the snapshot the preflight probe runs against.
type PreflightValues struct {
	Provider contract.Provider `json:"provider"`
	Region   string            `json:"region"`
}

// ClusterStatus is the provider-reported lifecycle state of a cluster.
type ClusterStatus string

const (
	// StatusUpdating means the control plane is applying a contract.
	StatusUpdating ClusterStatus = "UPDATING"
	// StatusUpdatingUnavailable means an update is in progress and the
	// cluster is temporarily unreachable.
	StatusUpdatingUnavailable ClusterStatus = "UPDATING_UNAVAILABLE"
	// StatusRunning means the cluster is up.
	StatusRunning ClusterStatus = "RUNNING"
	// StatusError means the last contract application failed.
	StatusError ClusterStatus = "ERROR"
)

// Transitional reports whether the status is expected to change without
// further input, so polling should continue.
func (s ClusterStatus) Transitional() bool {
	switch s {
	case StatusUpdating, StatusUpdatingUnavailable:
		return true
	default:
		return false
	}
}

// ClusterRecord is the provider-side result of applying a contract. Its
// transitions are driven entirely by the control plane and observed by
// polling.
type ClusterRecord struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status ClusterStatus `json:"status"`
}

// ContractRevision is returned by contract submission.
type ContractRevision struct {
	ClusterID string `json:"cluster_id"`
	Revision  int    `json:"revision"`
}

// Wire envelopes.

type createIntegrationRequest struct {
	Provider contract.Provider `json:"provider"`
	Secret   json.RawMessage   `json:"secret"`
}

type createIntegrationResponse struct {
	CredentialID string `json:"credential_id"`
}

type inviteRequest struct {
	Email string `json:"email"`
}

type preflightRequest struct {
	CredentialID string          `json:"credential_id"`
	Values       PreflightValues `json:"values"`
}

type preflightResponse struct {
	Checks PreflightReport `json:"checks"`
}

type quotaIncreaseRequest struct {
	CredentialID string   `json:"credential_id"`
	Region       string   `json:"region"`
	Dimensions   []string `json:"dimensions"`
}

type createContractRequest struct {
	Contract *contract.Contract `json:"contract"`

	// ExpectedRevision guards against concurrent submissions: the control
	// plane rejects the request with 409 when the current revision differs.
	ExpectedRevision int `json:"expected_revision"`
}

type createContractResponse struct {
	ContractRevision ContractRevision `json:"contract_revision"`
}

type getClustersResponse struct {
	Clusters []ClusterRecord `json:"clusters"`
}
