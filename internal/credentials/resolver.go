// Package credentials exchanges user-supplied cloud credentials for opaque
// credential IDs via the control plane.
package credentials

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
)

// AWSSecret is the raw AWS credential shape: a role the platform assumes.
type AWSSecret struct {
	RoleARN    string `json:"role_arn"`
	ExternalID string `json:"external_id"`
}

// AzureSecret is the raw Azure service-principal credential shape.
type AzureSecret struct {
	TenantID       string `json:"tenant_id"`
	ClientID       string `json:"client_id"`
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret"`
}

// Resolver validates raw secrets locally, exchanges them for credential IDs,
// and fires the best-effort admin invite.
type Resolver struct {
	api        controlplane.CredentialService
	projectID  string
	adminEmail string
}

// NewResolver creates a resolver for one project. adminEmail may be empty,
// which disables the post-resolution invite.
func NewResolver(api controlplane.CredentialService, projectID, adminEmail string) *Resolver {
	return &Resolver{api: api, projectID: projectID, adminEmail: adminEmail}
}

// Resolve validates rawSecret for the provider and exchanges it for a stable
// credential ID. Malformed secrets fail with a validation fault before any
// network call is made.
//
// On success a best-effort admin invite is sent; its failure is logged and
// never surfaces to the caller.
func (r *Resolver) Resolve(ctx context.Context, provider contract.Provider, rawSecret []byte) (string, error) {
	if err := ValidateSecret(provider, rawSecret); err != nil {
		return "", err
	}

	credentialID, err := r.api.CreateIntegration(ctx, r.projectID, provider, json.RawMessage(rawSecret))
	if err != nil {
		return "", classifyExchangeError(err)
	}

	r.inviteAdmin(ctx)

	return credentialID, nil
}

// inviteAdmin fires the post-resolution invite. Failures are swallowed: a
// broken invite must never fail credential resolution.
func (r *Resolver) inviteAdmin(ctx context.Context) {
	if r.adminEmail == "" {
		return
	}
	inviteCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.api.InviteAdmin(inviteCtx, r.projectID, r.adminEmail); err != nil {
		log.Printf("admin invite for %s failed (ignored): %v", r.adminEmail, err)
	}
}

// ValidateSecret checks the provider-specific shape of a raw secret without
// touching the network. The wizard shares this with the resolver.
func ValidateSecret(provider contract.Provider, rawSecret []byte) error {
	switch provider {
	case contract.ProviderAWS:
		return validateAWSSecret(rawSecret)
	case contract.ProviderAzure:
		return validateAzureSecret(rawSecret)
	case contract.ProviderGCP:
		return validateGCPSecret(rawSecret)
	default:
		return faults.Validation("unsupported provider %q", provider)
	}
}

func validateAWSSecret(rawSecret []byte) error {
	var secret AWSSecret
	if err := json.Unmarshal(rawSecret, &secret); err != nil {
		return faults.Validation("malformed AWS secret: %v", err)
	}
	if secret.RoleARN == "" {
		return faults.Validation("AWS secret is missing role_arn")
	}
	parsed, err := arn.Parse(secret.RoleARN)
	if err != nil {
		return faults.Validation("invalid role ARN %q: %v", secret.RoleARN, err)
	}
	if parsed.Service != "iam" || !strings.HasPrefix(parsed.Resource, "role/") {
		return faults.Validation("%q is not an IAM role ARN", secret.RoleARN)
	}
	if secret.ExternalID == "" {
		return faults.Validation("AWS secret is missing external_id")
	}
	return nil
}

func validateAzureSecret(rawSecret []byte) error {
	var secret AzureSecret
	if err := json.Unmarshal(rawSecret, &secret); err != nil {
		return faults.Validation("malformed Azure secret: %v", err)
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"tenant_id", secret.TenantID},
		{"client_id", secret.ClientID},
		{"subscription_id", secret.SubscriptionID},
		{"client_secret", secret.ClientSecret},
	} {
		if field.value == "" {
			return faults.Validation("Azure secret is missing %s", field.name)
		}
	}
	return nil
}

// validateGCPSecret checks the service-account JSON blob. project_id is the
// one field the control plane requires to be present client-side.
func validateGCPSecret(rawSecret []byte) error {
	var blob map[string]any
	if err := json.Unmarshal(rawSecret, &blob); err != nil {
		return faults.Validation("malformed service-account JSON: %v", err)
	}
	projectID, ok := blob["project_id"].(string)
	if !ok || projectID == "" {
		return faults.Validation("service-account JSON is missing project_id")
	}
	return nil
}

// classifyExchangeError maps control-plane exchange failures onto the fault
// taxonomy.
func classifyExchangeError(err error) error {
	switch {
	case controlplane.IsAuthRejected(err):
		return faults.New(faults.KindUpstreamAuth, err.Error())
	case controlplane.IsTransient(err):
		return faults.New(faults.KindTransientNetwork, err.Error())
	default:
		return faults.FromError(err)
	}
}
