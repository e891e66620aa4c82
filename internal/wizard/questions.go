package wizard

import (
	"context"
	"encoding/json"
	"net"
	"regexp"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/credentials"
)

// clusterNameRegex validates cluster name format: 1-32 lowercase
// alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// runProviderGroup prompts for the cloud provider.
func runProviderGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[contract.Provider]().
				Title("Cloud Provider").
				Description("Where the cluster will be provisioned").
				Options(ProviderOptions()...).
				Value(&result.Provider),
		).Title("Provider"),
	).RunWithContext(ctx)
}

// runCredentialsGroup prompts for the provider-specific credential fields.
// The assembled secret is validated with the same rules the workflow
// applies, so a value the wizard accepts will not bounce off validation.
func runCredentialsGroup(ctx context.Context, result *Result) error {
	switch result.Provider {
	case contract.ProviderAWS:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("IAM Role ARN").
					Description("Role the platform assumes in your account").
					Placeholder("arn:aws:iam::123456789012:role/provisioner").
					Value(&result.AWSRoleARN),
				huh.NewInput().
					Title("External ID").
					Description("External ID configured on the role's trust policy").
					Value(&result.AWSExternalID),
			).Title("AWS Credentials"),
		).RunWithContext(ctx)

	case contract.ProviderAzure:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Tenant ID").Value(&result.AzureTenantID),
				huh.NewInput().Title("Client ID").Value(&result.AzureClientID),
				huh.NewInput().Title("Subscription ID").Value(&result.AzureSubscriptionID),
				huh.NewInput().Title("Client Secret").EchoMode(huh.EchoModePassword).Value(&result.AzureClientSecret),
			).Title("Azure Service Principal"),
		).RunWithContext(ctx)

	case contract.ProviderGCP:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewText().
					Title("Service Account JSON").
					Description("Paste the full service-account key file").
					Value(&result.GCPServiceAccount),
			).Title("GCP Credentials"),
		).RunWithContext(ctx)
	}
	return nil
}

// runClusterGroup prompts for cluster identity and sizing.
func runClusterGroup(ctx context.Context, result *Result) error {
	minInput := strconv.Itoa(result.MinInstances)
	maxInput := strconv.Itoa(result.MaxInstances)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("my-cluster").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewSelect[string]().
				Title("Region").
				Options(toOptions(RegionsFor(result.Provider))...).
				Value(&result.Region),
			huh.NewSelect[string]().
				Title("Instance Type").
				Description("Worker node instance type").
				Options(toOptions(InstanceTypes[result.Provider])...).
				Value(&result.InstanceType),
			huh.NewInput().
				Title("Minimum Instances").
				Value(&minInput).
				Validate(validateCount),
			huh.NewInput().
				Title("Maximum Instances").
				Value(&maxInput).
				Validate(validateCount),
		).Title("Cluster"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.MinInstances, _ = strconv.Atoi(minInput)
	result.MaxInstances, _ = strconv.Atoi(maxInput)
	if result.MaxInstances < result.MinInstances {
		return errMaxBelowMin
	}
	return nil
}

// runNetworkGroup prompts for optional network settings.
func runNetworkGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("VPC CIDR (Optional)").
				Placeholder("10.0.0.0/16").
				Value(&result.VPCCIDR).
				Validate(validateOptionalCIDR),
			huh.NewInput().
				Title("Service CIDR (Optional)").
				Placeholder("10.96.0.0/12").
				Value(&result.ServiceCIDR).
				Validate(validateOptionalCIDR),
			huh.NewConfirm().
				Title("Internal Load Balancer").
				Description("Keep the API endpoint off the public internet").
				Value(&result.InternalLoadBalancer),
			huh.NewConfirm().
				Title("Enable Log Shipping").
				Value(&result.LoggingEnabled),
		).Title("Network"),
	).RunWithContext(ctx)
}

func validateClusterName(name string) error {
	if name == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(name) {
		return errClusterNameInvalid
	}
	return nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return errCountInvalid
	}
	return nil
}

func validateOptionalCIDR(s string) error {
	if s == "" {
		return nil
	}
	if _, _, err := net.ParseCIDR(s); err != nil {
		return errCIDRInvalid
	}
	return nil
}

// BuildSecret assembles the raw secret payload for credential resolution
// and checks it with the shared validation rules.
func BuildSecret(result *Result) ([]byte, error) {
	var secret []byte
	var err error

	switch result.Provider {
	case contract.ProviderAWS:
		secret, err = json.Marshal(credentials.AWSSecret{
			RoleARN:    result.AWSRoleARN,
			ExternalID: result.AWSExternalID,
		})
	case contract.ProviderAzure:
		secret, err = json.Marshal(credentials.AzureSecret{
			TenantID:       result.AzureTenantID,
			ClientID:       result.AzureClientID,
			SubscriptionID: result.AzureSubscriptionID,
			ClientSecret:   result.AzureClientSecret,
		})
	case contract.ProviderGCP:
		secret = []byte(result.GCPServiceAccount)
	}
	if err != nil {
		return nil, err
	}

	if err := credentials.ValidateSecret(result.Provider, secret); err != nil {
		return nil, err
	}
	return secret, nil
}
