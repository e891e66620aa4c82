package contract

import (
	"net"

	"github.com/provizor/provizor/internal/faults"
)

// Validate checks the contract for user-fixable errors. All failures are
// reported as validation faults so the workflow treats them as terminal for
// the current attempt.
func (c *Contract) Validate() error {
	if c.Name == "" {
		return faults.Validation("name is required")
	}
	if c.ProjectID == "" {
		return faults.Validation("project_id is required")
	}
	if c.Region == "" {
		return faults.Validation("region is required")
	}
	if c.CredentialID == "" {
		return faults.Validation("credential_id is required")
	}

	if err := c.validateProviderKind(); err != nil {
		return err
	}
	if err := c.validateNodePools(); err != nil {
		return err
	}
	return c.validateNetwork()
}

// validateProviderKind enforces the invariant that a contract carries exactly
// one provider/kind pair consistent with its nested payload.
func (c *Contract) validateProviderKind() error {
	if !c.CloudProvider.IsValid() {
		return faults.Validation("unsupported cloud provider %q", c.CloudProvider)
	}
	if c.Kind.ProviderFor() != c.CloudProvider {
		return faults.Validation("kind %q does not belong to provider %q", c.Kind, c.CloudProvider)
	}

	payloads := 0
	if c.AWS != nil {
		payloads++
		if c.CloudProvider != ProviderAWS {
			return faults.Validation("aws payload present on %s contract", c.CloudProvider)
		}
	}
	if c.Azure != nil {
		payloads++
		if c.CloudProvider != ProviderAzure {
			return faults.Validation("azure payload present on %s contract", c.CloudProvider)
		}
	}
	if c.GCP != nil {
		payloads++
		if c.CloudProvider != ProviderGCP {
			return faults.Validation("gcp payload present on %s contract", c.CloudProvider)
		}
	}
	if payloads > 1 {
		return faults.Validation("contract carries more than one provider payload")
	}
	return nil
}

func (c *Contract) validateNodePools() error {
	if len(c.NodePools) == 0 {
		return faults.Validation("at least one node pool is required")
	}
	seen := make(map[string]bool, len(c.NodePools))
	for _, pool := range c.NodePools {
		if pool.Name == "" {
			return faults.Validation("node pool name is required")
		}
		if seen[pool.Name] {
			return faults.Validation("duplicate node pool %q", pool.Name)
		}
		seen[pool.Name] = true

		if pool.InstanceType == "" {
			return faults.Validation("node pool %q: instance type is required", pool.Name)
		}
		if pool.MinInstances < 0 {
			return faults.Validation("node pool %q: min_instances must be >= 0", pool.Name)
		}
		if pool.MaxInstances < pool.MinInstances {
			return faults.Validation("node pool %q: max_instances (%d) must be >= min_instances (%d)",
				pool.Name, pool.MaxInstances, pool.MinInstances)
		}
	}
	return nil
}

func (c *Contract) validateNetwork() error {
	for _, cidr := range []struct {
		field string
		value string
	}{
		{"vpc_cidr", c.Network.VPCCIDR},
		{"subnet_cidr", c.Network.SubnetCIDR},
		{"service_cidr", c.Network.ServiceCIDR},
	} {
		if cidr.value == "" {
			continue
		}
		if _, _, err := net.ParseCIDR(cidr.value); err != nil {
			return faults.Validation("network %s %q is not a valid CIDR", cidr.field, cidr.value)
		}
	}
	return nil
}
