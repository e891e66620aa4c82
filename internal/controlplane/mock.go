package controlplane

import (
	"context"
	"encoding/json"

	"github.com/provizor/provizor/internal/contract"
)

// MockClient is a mock implementation of Client. Unset funcs default to
// benign success responses so tests only script the calls they care about.
type MockClient struct {
	CreateIntegrationFunc    func(ctx context.Context, projectID string, provider contract.Provider, secret json.RawMessage) (string, error)
	InviteAdminFunc          func(ctx context.Context, projectID, email string) error
	PreflightCheckFunc       func(ctx context.Context, projectID, credentialID string, values PreflightValues) (PreflightReport, error)
	RequestQuotaIncreaseFunc func(ctx context.Context, projectID, credentialID, region string, dimensions []string) error
	CreateContractFunc       func(ctx context.Context, projectID string, c *contract.Contract) (*ContractRevision, error)
	GetClustersFunc          func(ctx context.Context, projectID string) ([]ClusterRecord, error)
}

// CreateIntegration implements CredentialService.
func (m *MockClient) CreateIntegration(ctx context.Context, projectID string, provider contract.Provider, secret json.RawMessage) (string, error) {
	if m.CreateIntegrationFunc != nil {
		return m.CreateIntegrationFunc(ctx, projectID, provider, secret)
	}
	return "cred-mock", nil
}

// InviteAdmin implements CredentialService.
func (m *MockClient) InviteAdmin(ctx context.Context, projectID, email string) error {
	if m.InviteAdminFunc != nil {
		return m.InviteAdminFunc(ctx, projectID, email)
	}
	return nil
}

// PreflightCheck implements PreflightService.
func (m *MockClient) PreflightCheck(ctx context.Context, projectID, credentialID string, values PreflightValues) (PreflightReport, error) {
	if m.PreflightCheckFunc != nil {
		return m.PreflightCheckFunc(ctx, projectID, credentialID, values)
	}
	return PreflightReport{}, nil
}

// RequestQuotaIncrease implements QuotaService.
func (m *MockClient) RequestQuotaIncrease(ctx context.Context, projectID, credentialID, region string, dimensions []string) error {
	if m.RequestQuotaIncreaseFunc != nil {
		return m.RequestQuotaIncreaseFunc(ctx, projectID, credentialID, region, dimensions)
	}
	return nil
}

// CreateContract implements ClusterService.
func (m *MockClient) CreateContract(ctx context.Context, projectID string, c *contract.Contract) (*ContractRevision, error) {
	if m.CreateContractFunc != nil {
		return m.CreateContractFunc(ctx, projectID, c)
	}
	return &ContractRevision{ClusterID: "cluster-mock", Revision: c.Revision + 1}, nil
}

// GetClusters implements ClusterService.
func (m *MockClient) GetClusters(ctx context.Context, projectID string) ([]ClusterRecord, error) {
	if m.GetClustersFunc != nil {
		return m.GetClustersFunc(ctx, projectID)
	}
	return nil, nil
}
