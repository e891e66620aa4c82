// Package quota submits asynchronous quota-increase requests for the
// dimensions that failed preflight.
package quota

import (
	"context"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
)

// Dimension is one provider quota dimension that can be escalated.
type Dimension string

const (
	// DimensionEIP is the Elastic IP address limit.
	DimensionEIP Dimension = "EIP"
	// DimensionVPC is the VPC limit.
	DimensionVPC Dimension = "VPC"
	// DimensionNATGateway is the NAT gateway limit.
	DimensionNATGateway Dimension = "NAT_GATEWAY"
	// DimensionVCPU is the vCPU limit.
	DimensionVCPU Dimension = "VCPU"
	// DimensionGeneric is the lumped quota pool of providers whose
	// preflight does not break quota out per resource (Azure and GCP
	// probe a single "quota" check).
	DimensionGeneric Dimension = "GENERIC"
)

// ValidDimensions returns all escalatable dimensions.
func ValidDimensions() []Dimension {
	return []Dimension{DimensionEIP, DimensionVPC, DimensionNATGateway, DimensionVCPU, DimensionGeneric}
}

// DimensionsFor returns the escalatable dimensions for a provider.
func DimensionsFor(p contract.Provider) []Dimension {
	switch p {
	case contract.ProviderAWS:
		return []Dimension{DimensionEIP, DimensionVPC, DimensionNATGateway, DimensionVCPU}
	case contract.ProviderAzure, contract.ProviderGCP:
		return []Dimension{DimensionGeneric}
	default:
		return nil
	}
}

// IsValid returns true if the dimension can be escalated.
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionEIP, DimensionVPC, DimensionNATGateway, DimensionVCPU, DimensionGeneric:
		return true
	default:
		return false
	}
}

// DimensionForKind maps a quota fault kind to its escalatable dimension.
// Generic quota faults escalate the provider's lumped pool.
func DimensionForKind(kind faults.Kind) (Dimension, bool) {
	switch kind {
	case faults.KindQuotaEIP:
		return DimensionEIP, true
	case faults.KindQuotaVPC:
		return DimensionVPC, true
	case faults.KindQuotaNATGateway:
		return DimensionNATGateway, true
	case faults.KindQuotaVCPU:
		return DimensionVCPU, true
	case faults.KindQuotaGeneric:
		return DimensionGeneric, true
	default:
		return "", false
	}
}

// Requester submits increase requests through the control plane.
type Requester struct {
	api       controlplane.QuotaService
	projectID string
}

// NewRequester creates a requester for one project.
func NewRequester(api controlplane.QuotaService, projectID string) *Requester {
	return &Requester{api: api, projectID: projectID}
}

// RequestIncrease submits one increase request covering the given dimensions,
// deduplicated. The provider processes it asynchronously; a nil return only
// means the request was accepted.
func (r *Requester) RequestIncrease(ctx context.Context, credentialID, region string, dimensions []Dimension) error {
	if len(dimensions) == 0 {
		return faults.Validation("no quota dimensions to escalate")
	}

	seen := make(map[Dimension]bool, len(dimensions))
	deduped := make([]string, 0, len(dimensions))
	for _, d := range dimensions {
		if !d.IsValid() {
			return faults.Validation("unknown quota dimension %q", d)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		deduped = append(deduped, string(d))
	}

	if err := r.api.RequestQuotaIncrease(ctx, r.projectID, credentialID, region, deduped); err != nil {
		if controlplane.IsTransient(err) {
			return faults.New(faults.KindTransientNetwork, err.Error())
		}
		return faults.FromError(err)
	}
	return nil
}
