// Package contract defines the declarative, versioned cluster specification
// submitted to the control plane, plus its validation and serialization.
package contract

// Provider is the cloud provider a contract targets.
type Provider string

const (
	// ProviderAWS targets Amazon Web Services (EKS clusters).
	ProviderAWS Provider = "aws"
	// ProviderAzure targets Microsoft Azure (AKS clusters).
	ProviderAzure Provider = "azure"
	// ProviderGCP targets Google Cloud (GKE clusters).
	ProviderGCP Provider = "gcp"
)

// ValidProviders returns all supported providers.
func ValidProviders() []Provider {
	return []Provider{ProviderAWS, ProviderAzure, ProviderGCP}
}

// IsValid returns true if the provider is supported.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderAWS, ProviderAzure, ProviderGCP:
		return true
	default:
		return false
	}
}

// String returns a human-readable description of the provider.
func (p Provider) String() string {
	switch p {
	case ProviderAWS:
		return "Amazon Web Services"
	case ProviderAzure:
		return "Microsoft Azure"
	case ProviderGCP:
		return "Google Cloud"
	default:
		return string(p)
	}
}

// Kind is the managed-Kubernetes flavor of a contract. Each kind belongs to
// exactly one provider.
type Kind string

const (
	// KindEKS is AWS Elastic Kubernetes Service.
	KindEKS Kind = "EKS"
	// KindAKS is Azure Kubernetes Service.
	KindAKS Kind = "AKS"
	// KindGKE is Google Kubernetes Engine.
	KindGKE Kind = "GKE"
)

// ProviderFor returns the provider a kind belongs to.
func (k Kind) ProviderFor() Provider {
	switch k {
	case KindEKS:
		return ProviderAWS
	case KindAKS:
		return ProviderAzure
	case KindGKE:
		return ProviderGCP
	default:
		return ""
	}
}

// KindFor returns the contract kind for a provider.
func KindFor(p Provider) Kind {
	switch p {
	case ProviderAWS:
		return KindEKS
	case ProviderAzure:
		return KindAKS
	case ProviderGCP:
		return KindGKE
	default:
		return ""
	}
}

// NodePool describes one pool of application nodes.
type NodePool struct {
	// Name identifies the pool within the contract.
	Name string `json:"name"`

	// InstanceType is the provider-specific machine type
	// (e.g. m5.xlarge, Standard_D4s_v3, n2-standard-4).
	InstanceType string `json:"instance_type"`

	// MinInstances is the lower autoscaling bound. Zero is valid and means
	// no application nodes are deployed.
	MinInstances int `json:"min_instances"`

	// MaxInstances is the upper autoscaling bound. Must be >= MinInstances.
	MaxInstances int `json:"max_instances"`
}

// Network holds the CIDR layout for the cluster's private network.
type Network struct {
	VPCCIDR     string `json:"vpc_cidr,omitempty"`
	SubnetCIDR  string `json:"subnet_cidr,omitempty"`
	ServiceCIDR string `json:"service_cidr,omitempty"`
}

// LoadBalancer holds load-balancer settings.
type LoadBalancer struct {
	// Internal restricts the load balancer to the private network.
	Internal bool `json:"internal,omitempty"`
}

// AWSSpec is the AWS-specific contract payload.
type AWSSpec struct {
	// Zones lists availability zones for the node subnets.
	Zones []string `json:"zones,omitempty"`
}

// AzureSpec is the Azure-specific contract payload.
type AzureSpec struct {
	// ResourceGroup is the target resource group name.
	ResourceGroup string `json:"resource_group,omitempty"`
}

// GCPSpec is the GCP-specific contract payload.
type GCPSpec struct {
	// NetworkName is the VPC network to place the cluster in.
	NetworkName string `json:"network_name,omitempty"`
}

// Contract is the immutable infrastructure specification for one cluster.
// Contracts are never edited in place: each submission creates a new revision
// and prior revisions stay addressable by revision number.
type Contract struct {
	// Name is the cluster name.
	Name string `json:"name"`

	// ProjectID is the owning project.
	ProjectID string `json:"project_id"`

	// ClusterID is set when updating an existing cluster. Its absence means
	// "create new".
	ClusterID string `json:"cluster_id,omitempty"`

	// Revision is the contract revision this spec was loaded from.
	// Zero for a contract that has never been submitted.
	Revision int `json:"revision,omitempty"`

	// CloudProvider and Kind must be a consistent pair (EKS implies aws).
	CloudProvider Provider `json:"cloud_provider"`
	Kind          Kind     `json:"kind"`

	// Region is the provider region to provision in.
	Region string `json:"region"`

	// CredentialID references (does not own) the resolved cloud credential.
	CredentialID string `json:"credential_id"`

	NodePools    []NodePool   `json:"node_pools"`
	Network      Network      `json:"network,omitempty"`
	LoadBalancer LoadBalancer `json:"load_balancer,omitempty"`

	// LoggingEnabled forwards cluster logs to the platform.
	LoggingEnabled bool `json:"logging_enabled,omitempty"`

	// Exactly one of these matches CloudProvider.
	AWS   *AWSSpec   `json:"aws,omitempty"`
	Azure *AzureSpec `json:"azure,omitempty"`
	GCP   *GCPSpec   `json:"gcp,omitempty"`
}

// ProbeKey identifies the credential+region+provider snapshot that preflight
// results are keyed by. Two contracts with equal probe keys see the same
// preflight classification absent provider-side changes.
func (c *Contract) ProbeKey() string {
	return string(c.CloudProvider) + "/" + c.Region + "/" + c.CredentialID
}

// NextRevision returns a copy of the contract with the revision advanced.
// The receiver is left untouched; prior revisions remain addressable.
func (c *Contract) NextRevision() *Contract {
	next := *c
	next.NodePools = append([]NodePool(nil), c.NodePools...)
	next.Revision = c.Revision + 1
	return &next
}
