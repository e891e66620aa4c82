package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
)

const validRoleARN = "arn:aws:iam::123456789012:role/provizor-provisioner"

func awsSecret(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(AWSSecret{RoleARN: validRoleARN, ExternalID: "ext-1"})
	require.NoError(t, err)
	return data
}

func TestResolve_AWS(t *testing.T) {
	mock := &controlplane.MockClient{
		CreateIntegrationFunc: func(_ context.Context, projectID string, provider contract.Provider, secret json.RawMessage) (string, error) {
			assert.Equal(t, "proj-1", projectID)
			assert.Equal(t, contract.ProviderAWS, provider)
			assert.NotEmpty(t, secret)
			return "cred-123", nil
		},
	}

	r := NewResolver(mock, "proj-1", "")
	id, err := r.Resolve(context.Background(), contract.ProviderAWS, awsSecret(t))
	require.NoError(t, err)
	assert.Equal(t, "cred-123", id)
}

func TestResolve_GCPMissingProjectID_NoNetworkCall(t *testing.T) {
	called := false
	mock := &controlplane.MockClient{
		CreateIntegrationFunc: func(context.Context, string, contract.Provider, json.RawMessage) (string, error) {
			called = true
			return "", nil
		},
	}

	r := NewResolver(mock, "proj-1", "")
	_, err := r.Resolve(context.Background(), contract.ProviderGCP,
		[]byte(`{"type":"service_account","client_email":"x@y.iam.gserviceaccount.com"}`))

	require.Error(t, err)
	assert.Equal(t, faults.KindValidation, faults.KindOf(err))
	assert.False(t, called, "validation must fail before any network call")
}

func TestResolve_InviteFailureIgnored(t *testing.T) {
	mock := &controlplane.MockClient{
		InviteAdminFunc: func(_ context.Context, _, email string) error {
			assert.Equal(t, "admin@example.com", email)
			return errors.New("smtp down")
		},
	}

	r := NewResolver(mock, "proj-1", "admin@example.com")
	id, err := r.Resolve(context.Background(), contract.ProviderAWS, awsSecret(t))

	require.NoError(t, err, "invite failure must never fail resolution")
	assert.NotEmpty(t, id)
}

func TestResolve_UpstreamRejected(t *testing.T) {
	mock := &controlplane.MockClient{
		CreateIntegrationFunc: func(context.Context, string, contract.Provider, json.RawMessage) (string, error) {
			return "", &controlplane.APIError{StatusCode: 403, Message: "assume role denied"}
		},
	}

	r := NewResolver(mock, "proj-1", "")
	_, err := r.Resolve(context.Background(), contract.ProviderAWS, awsSecret(t))

	require.Error(t, err)
	assert.Equal(t, faults.KindUpstreamAuth, faults.KindOf(err))
}

func TestResolve_Transient(t *testing.T) {
	mock := &controlplane.MockClient{
		CreateIntegrationFunc: func(context.Context, string, contract.Provider, json.RawMessage) (string, error) {
			return "", &controlplane.APIError{StatusCode: 503, Message: "upstream unavailable"}
		},
	}

	r := NewResolver(mock, "proj-1", "")
	_, err := r.Resolve(context.Background(), contract.ProviderAWS, awsSecret(t))

	require.Error(t, err)
	assert.Equal(t, faults.KindTransientNetwork, faults.KindOf(err))
}

func TestValidateSecret(t *testing.T) {
	azure := func(mutate func(*AzureSecret)) []byte {
		s := AzureSecret{
			TenantID:       "t",
			ClientID:       "c",
			SubscriptionID: "s",
			ClientSecret:   "k",
		}
		if mutate != nil {
			mutate(&s)
		}
		data, _ := json.Marshal(s)
		return data
	}

	tests := []struct {
		name     string
		provider contract.Provider
		secret   []byte
		wantErr  bool
	}{
		{"aws valid", contract.ProviderAWS, []byte(`{"role_arn":"` + validRoleARN + `","external_id":"e"}`), false},
		{"aws not json", contract.ProviderAWS, []byte(`nope`), true},
		{"aws missing arn", contract.ProviderAWS, []byte(`{"external_id":"e"}`), true},
		{"aws malformed arn", contract.ProviderAWS, []byte(`{"role_arn":"not-an-arn","external_id":"e"}`), true},
		{"aws non-role arn", contract.ProviderAWS, []byte(`{"role_arn":"arn:aws:s3:::bucket","external_id":"e"}`), true},
		{"aws missing external id", contract.ProviderAWS, []byte(`{"role_arn":"` + validRoleARN + `"}`), true},
		{"azure valid", contract.ProviderAzure, azure(nil), false},
		{"azure missing tenant", contract.ProviderAzure, azure(func(s *AzureSecret) { s.TenantID = "" }), true},
		{"azure missing key", contract.ProviderAzure, azure(func(s *AzureSecret) { s.ClientSecret = "" }), true},
		{"gcp valid", contract.ProviderGCP, []byte(`{"project_id":"my-project"}`), false},
		{"gcp empty project", contract.ProviderGCP, []byte(`{"project_id":""}`), true},
		{"gcp missing project", contract.ProviderGCP, []byte(`{"type":"service_account"}`), true},
		{"unknown provider", contract.Provider("ibm"), []byte(`{}`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.provider, tt.secret)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, faults.KindValidation, faults.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
