package controlplane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/provizor/provizor/internal/contract"
)

// Timeouts holds per-call deadlines for control-plane operations.
type Timeouts struct {
	// Default applies to every call except preflight.
	Default time.Duration

	// Preflight is longer because the probe fans out to provider APIs and
	// regularly takes close to a minute.
	Preflight time.Duration
}

// DefaultTimeouts returns the standard timeout set.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:   30 * time.Second,
		Preflight: 90 * time.Second,
	}
}

// RealClient implements Client against a live control-plane endpoint.
type RealClient struct {
	endpoint   string
	token      string
	timeouts   Timeouts
	httpClient *http.Client
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithTimeouts sets custom per-call timeouts.
func WithTimeouts(t Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// NewRealClient creates a client for the control-plane API at endpoint
// (e.g. https://api.example.com), authenticating with a bearer token.
func NewRealClient(endpoint, token string, opts ...ClientOption) *RealClient {
	c := &RealClient{
		endpoint:   endpoint,
		token:      token,
		timeouts:   DefaultTimeouts(),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateIntegration implements CredentialService.
func (c *RealClient) CreateIntegration(ctx context.Context, projectID string, provider contract.Provider, secret json.RawMessage) (string, error) {
	var resp createIntegrationResponse
	path := fmt.Sprintf("/v1/projects/%s/integrations", url.PathEscape(projectID))
	req := createIntegrationRequest{Provider: provider, Secret: secret}
	if err := c.do(ctx, http.MethodPost, path, c.timeouts.Default, req, &resp); err != nil {
		return "", err
	}
	return resp.CredentialID, nil
}

// InviteAdmin implements CredentialService.
func (c *RealClient) InviteAdmin(ctx context.Context, projectID, email string) error {
	path := fmt.Sprintf("/v1/projects/%s/invites", url.PathEscape(projectID))
	return c.do(ctx, http.MethodPost, path, c.timeouts.Default, inviteRequest{Email: email}, nil)
}

// PreflightCheck implements PreflightService.
func (c *RealClient) PreflightCheck(ctx context.Context, projectID, credentialID string, values PreflightValues) (PreflightReport, error) {
	var resp preflightResponse
	path := fmt.Sprintf("/v1/projects/%s/preflight", url.PathEscape(projectID))
	req := preflightRequest{CredentialID: credentialID, Values: values}
	if err := c.do(ctx, http.MethodPost, path, c.timeouts.Preflight, req, &resp); err != nil {
		return nil, err
	}
	return resp.Checks, nil
}

// RequestQuotaIncrease implements QuotaService.
func (c *RealClient) RequestQuotaIncrease(ctx context.Context, projectID, credentialID, region string, dimensions []string) error {
	path := fmt.Sprintf("/v1/projects/%s/quota-increases", url.PathEscape(projectID))
	req := quotaIncreaseRequest{CredentialID: credentialID, Region: region, Dimensions: dimensions}
	return c.do(ctx, http.MethodPost, path, c.timeouts.Default, req, nil)
}

// CreateContract implements ClusterService. The contract's current revision
// is sent as expected_revision so concurrent submissions surface as 409s
// instead of silently racing.
func (c *RealClient) CreateContract(ctx context.Context, projectID string, ct *contract.Contract) (*ContractRevision, error) {
	var resp createContractResponse
	path := fmt.Sprintf("/v1/projects/%s/contracts", url.PathEscape(projectID))
	req := createContractRequest{Contract: ct, ExpectedRevision: ct.Revision}
	if err := c.do(ctx, http.MethodPost, path, c.timeouts.Default, req, &resp); err != nil {
		return nil, err
	}
	return &resp.ContractRevision, nil
}

// GetClusters implements ClusterService.
func (c *RealClient) GetClusters(ctx context.Context, projectID string) ([]ClusterRecord, error) {
	var resp getClustersResponse
	path := fmt.Sprintf("/v1/projects/%s/clusters", url.PathEscape(projectID))
	if err := c.do(ctx, http.MethodGet, path, c.timeouts.Default, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Clusters, nil
}

// errorBody is the control plane's error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs one JSON round trip. A nil reqBody sends no body; a nil
// respBody discards the response.
func (c *RealClient) do(ctx context.Context, method, path string, timeout time.Duration, reqBody, respBody any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("control plane request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(data)}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			apiErr.Code = eb.Error.Code
			apiErr.Message = eb.Error.Message
		}
		return apiErr
	}

	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(data, respBody); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
