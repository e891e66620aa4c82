package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/provizor/provizor/internal/contract"
)

// RegionOption represents one selectable provider region.
type RegionOption struct {
	Value       string
	Label       string
	Description string
}

// AWSRegions contains commonly used AWS regions.
var AWSRegions = []RegionOption{
	{Value: "us-east-1", Label: "us-east-1", Description: "N. Virginia, USA"},
	{Value: "us-west-2", Label: "us-west-2", Description: "Oregon, USA"},
	{Value: "eu-west-1", Label: "eu-west-1", Description: "Ireland"},
	{Value: "eu-central-1", Label: "eu-central-1", Description: "Frankfurt, Germany"},
	{Value: "ap-southeast-1", Label: "ap-southeast-1", Description: "Singapore"},
}

// AzureRegions contains commonly used Azure regions.
var AzureRegions = []RegionOption{
	{Value: "eastus", Label: "eastus", Description: "Virginia, USA"},
	{Value: "westus2", Label: "westus2", Description: "Washington, USA"},
	{Value: "westeurope", Label: "westeurope", Description: "Netherlands"},
	{Value: "northeurope", Label: "northeurope", Description: "Ireland"},
	{Value: "southeastasia", Label: "southeastasia", Description: "Singapore"},
}

// GCPRegions contains commonly used GCP regions.
var GCPRegions = []RegionOption{
	{Value: "us-central1", Label: "us-central1", Description: "Iowa, USA"},
	{Value: "us-west1", Label: "us-west1", Description: "Oregon, USA"},
	{Value: "europe-west1", Label: "europe-west1", Description: "Belgium"},
	{Value: "europe-west3", Label: "europe-west3", Description: "Frankfurt, Germany"},
	{Value: "asia-southeast1", Label: "asia-southeast1", Description: "Singapore"},
}

// InstanceTypes contains recommended worker instance types per provider.
var InstanceTypes = map[contract.Provider][]RegionOption{
	contract.ProviderAWS: {
		{Value: "m5.large", Label: "m5.large", Description: "2 vCPU, 8GB RAM"},
		{Value: "m5.xlarge", Label: "m5.xlarge", Description: "4 vCPU, 16GB RAM"},
		{Value: "m5.2xlarge", Label: "m5.2xlarge", Description: "8 vCPU, 32GB RAM"},
		{Value: "c5.xlarge", Label: "c5.xlarge", Description: "4 vCPU, 8GB RAM (compute)"},
	},
	contract.ProviderAzure: {
		{Value: "Standard_D2s_v5", Label: "Standard_D2s_v5", Description: "2 vCPU, 8GB RAM"},
		{Value: "Standard_D4s_v5", Label: "Standard_D4s_v5", Description: "4 vCPU, 16GB RAM"},
		{Value: "Standard_D8s_v5", Label: "Standard_D8s_v5", Description: "8 vCPU, 32GB RAM"},
	},
	contract.ProviderGCP: {
		{Value: "e2-standard-2", Label: "e2-standard-2", Description: "2 vCPU, 8GB RAM"},
		{Value: "e2-standard-4", Label: "e2-standard-4", Description: "4 vCPU, 16GB RAM"},
		{Value: "e2-standard-8", Label: "e2-standard-8", Description: "8 vCPU, 32GB RAM"},
	},
}

// ProviderOptions returns the provider select options.
func ProviderOptions() []huh.Option[contract.Provider] {
	return []huh.Option[contract.Provider]{
		huh.NewOption("Amazon Web Services (EKS)", contract.ProviderAWS),
		huh.NewOption("Microsoft Azure (AKS)", contract.ProviderAzure),
		huh.NewOption("Google Cloud (GKE)", contract.ProviderGCP),
	}
}

// RegionsFor returns the region options for a provider.
func RegionsFor(p contract.Provider) []RegionOption {
	switch p {
	case contract.ProviderAWS:
		return AWSRegions
	case contract.ProviderAzure:
		return AzureRegions
	case contract.ProviderGCP:
		return GCPRegions
	default:
		return nil
	}
}

// toOptions converts RegionOptions to huh select options.
func toOptions(opts []RegionOption) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		out = append(out, huh.NewOption(o.Label+" - "+o.Description, o.Value))
	}
	return out
}
