// Package faults defines the canonical error taxonomy for the provisioning
// workflow and the classifier that maps raw provider error text onto it.
//
// Provider and control-plane errors arrive as free-form strings. Callers never
// branch on that text directly; they classify it once into a Kind and carry
// the raw text along as diagnostic detail only.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies a canonical failure class.
type Kind string

const (
	// KindValidation is user-fixable bad input. Always terminal for the
	// current attempt; never retried automatically.
	KindValidation Kind = "validation"

	// KindUpstreamAuth means the cloud credential was rejected or lacks
	// permission.
	KindUpstreamAuth Kind = "upstream_auth"

	// Quota sub-kinds. These are the only kinds that trigger the quota
	// escalation offer.
	KindQuotaEIP        Kind = "quota_eip"
	KindQuotaVPC        Kind = "quota_vpc"
	KindQuotaNATGateway Kind = "quota_nat_gateway"
	KindQuotaVCPU       Kind = "quota_vcpu"
	KindQuotaGeneric    Kind = "quota_generic"

	// KindTransientNetwork is a network-level failure that is safe to retry.
	KindTransientNetwork Kind = "transient_network"

	// KindRetryExhausted is reported when a bounded retry loop gives up.
	KindRetryExhausted Kind = "retry_exhausted"

	// KindConflict means the contract revision submitted did not match the
	// control plane's current revision (concurrent submission). Retryable
	// after the caller refreshes the contract.
	KindConflict Kind = "conflict"

	// KindUnknown is anything the classifier could not place.
	KindUnknown Kind = "unknown"
)

// IsQuota reports whether the kind is any quota sub-kind.
func (k Kind) IsQuota() bool {
	switch k {
	case KindQuotaEIP, KindQuotaVPC, KindQuotaNATGateway, KindQuotaVCPU, KindQuotaGeneric:
		return true
	default:
		return false
	}
}

// Retryable reports whether re-entering the same workflow state may succeed
// without user correction.
func (k Kind) Retryable() bool {
	switch k {
	case KindTransientNetwork, KindConflict:
		return true
	default:
		return false
	}
}

// Fault is a classified workflow error. The Kind is the primary signal;
// Detail preserves the raw provider text for diagnostics.
type Fault struct {
	Kind        Kind
	Detail      string
	Remediation string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	if f.Detail == "" {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Detail)
}

// New creates a fault of the given kind with the canned remediation for it.
func New(kind Kind, detail string) *Fault {
	return &Fault{Kind: kind, Detail: detail, Remediation: remediationFor(kind)}
}

// Validation creates a user-fixable input fault.
func Validation(format string, args ...any) *Fault {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

// FromError wraps err into a Fault. Existing faults pass through unchanged;
// anything else is classified from its message.
func FromError(err error) *Fault {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return Classify(err.Error())
}

// KindOf extracts the Kind from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnknown
}
