// Package wizard provides an interactive setup flow for new clusters.
//
// It uses charmbracelet/huh for form-based input collection. The main entry
// point is Run, which walks provider selection, credential entry, and
// cluster configuration, and returns a Result. Use BuildContract and
// BuildSecret to convert the result into workflow inputs.
package wizard

import (
	"context"
	"fmt"

	"github.com/provizor/provizor/internal/contract"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	Provider contract.Provider

	// AWS credentials
	AWSRoleARN    string
	AWSExternalID string

	// Azure credentials
	AzureTenantID       string
	AzureClientID       string
	AzureSubscriptionID string
	AzureClientSecret   string

	// GCP credentials: the raw service-account JSON blob
	GCPServiceAccount string

	// Cluster configuration
	ClusterName  string
	Region       string
	InstanceType string
	MinInstances int
	MaxInstances int

	// Network (optional)
	VPCCIDR     string
	ServiceCIDR string

	InternalLoadBalancer bool
	LoggingEnabled       bool
}

// Run walks the interactive wizard. The context is used for cancellation
// support (e.g., Ctrl+C).
func Run(ctx context.Context) (*Result, error) {
	result := &Result{MinInstances: 1, MaxInstances: 3}

	if err := runProviderGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("provider: %w", err)
	}
	if err := runCredentialsGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if err := runClusterGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}
	if err := runNetworkGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}

	return result, nil
}
