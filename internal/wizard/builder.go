package wizard

import "github.com/provizor/provizor/internal/contract"

// BuildContract creates a Contract from the wizard result. Project and
// credential IDs are filled in by the workflow on submission.
func BuildContract(result *Result) *contract.Contract {
	ct := &contract.Contract{
		Name:          result.ClusterName,
		CloudProvider: result.Provider,
		Kind:          contract.KindFor(result.Provider),
		Region:        result.Region,
		NodePools: []contract.NodePool{
			{
				Name:         "workers",
				InstanceType: result.InstanceType,
				MinInstances: result.MinInstances,
				MaxInstances: result.MaxInstances,
			},
		},
		Network: contract.Network{
			VPCCIDR:     result.VPCCIDR,
			ServiceCIDR: result.ServiceCIDR,
		},
		LoadBalancer:   contract.LoadBalancer{Internal: result.InternalLoadBalancer},
		LoggingEnabled: result.LoggingEnabled,
	}
	return ct
}
