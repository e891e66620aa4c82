// Package preflight probes a cloud account for quota and permission blockers
// before a contract is submitted.
package preflight

import (
	"context"
	"sort"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
)

// Check names form a fixed enumerated set per provider. The AWS probe is the
// widest; Azure and GCP lump their quota checks into one probe each.
const (
	CheckLogin           = "login"
	CheckEIPQuota        = "eip_quota"
	CheckVPCQuota        = "vpc_quota"
	CheckNATGatewayQuota = "nat_gateway_quota"
	CheckVCPUQuota       = "vcpu_quota"
	CheckQuota           = "quota"
)

// CheckNames returns the fixed check set for a provider.
func CheckNames(p contract.Provider) []string {
	switch p {
	case contract.ProviderAWS:
		return []string{CheckLogin, CheckEIPQuota, CheckVPCQuota, CheckNATGatewayQuota, CheckVCPUQuota}
	case contract.ProviderAzure, contract.ProviderGCP:
		return []string{CheckLogin, CheckQuota}
	default:
		return nil
	}
}

// Failure is one failed check with its classified fault.
type Failure struct {
	Check   string
	Message string
	Fault   *faults.Fault
}

// Report is the outcome of one preflight run, keyed by the triggering
// credential+region+provider snapshot.
type Report struct {
	ProbeKey string
	Checks   controlplane.PreflightReport
}

// Passed reports whether every check succeeded.
func (r *Report) Passed() bool {
	for _, result := range r.Checks {
		if !result.Passed() {
			return false
		}
	}
	return true
}

// Failures returns the failed checks with classified faults, ordered by check
// name so repeated runs over the same report are deterministic.
func (r *Report) Failures() []Failure {
	names := make([]string, 0, len(r.Checks))
	for name, result := range r.Checks {
		if !result.Passed() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	failures := make([]Failure, 0, len(names))
	for _, name := range names {
		message := r.Checks[name].Message
		failures = append(failures, Failure{
			Check:   name,
			Message: message,
			Fault:   faults.Classify(message),
		})
	}
	return failures
}

// QuotaFailures returns only the failures whose fault is a quota kind. These
// are the ones escalation can help with.
func (r *Report) QuotaFailures() []Failure {
	var quota []Failure
	for _, f := range r.Failures() {
		if f.Fault.Kind.IsQuota() {
			quota = append(quota, f)
		}
	}
	return quota
}

// BlockingFault returns the fault of the first non-quota failure, or the
// first quota failure when every failure is quota-related. Nil if the report
// passed.
func (r *Report) BlockingFault() *faults.Fault {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	for _, f := range failures {
		if !f.Fault.Kind.IsQuota() {
			return f.Fault
		}
	}
	return failures[0].Fault
}

// Checker runs the provider preflight probe through the control plane.
type Checker struct {
	api       controlplane.PreflightService
	projectID string
}

// NewChecker creates a checker for one project.
func NewChecker(api controlplane.PreflightService, projectID string) *Checker {
	return &Checker{api: api, projectID: projectID}
}

// Check runs the probe for the contract's credential+region snapshot.
// Given the same snapshot and no provider-side change, two consecutive calls
// classify the same checks as failing.
func (c *Checker) Check(ctx context.Context, ct *contract.Contract) (*Report, error) {
	values := controlplane.PreflightValues{
		Provider: ct.CloudProvider,
		Region:   ct.Region,
	}

	checks, err := c.api.PreflightCheck(ctx, c.projectID, ct.CredentialID, values)
	if err != nil {
		if controlplane.IsTransient(err) {
			return nil, faults.New(faults.KindTransientNetwork, err.Error())
		}
		return nil, faults.FromError(err)
	}

	return &Report{ProbeKey: ct.ProbeKey(), Checks: checks}, nil
}
