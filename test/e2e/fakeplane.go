package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/provizor/provizor/internal/contract"
)

// checkResult mirrors the control plane's wire shape for one preflight check.
type checkResult struct {
	Message string `json:"message,omitempty"`
}

// clusterRecord mirrors the control plane's wire shape for one cluster.
type clusterRecord struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// fakePlane is an in-process control plane. It keeps just enough state to
// exercise a full session: integrations hand out credential IDs, preflight
// fails the VPC check until a quota increase lands, contracts create
// clusters, and clusters become visible after a configurable number of
// list calls.
type fakePlane struct {
	mu sync.Mutex

	server *httptest.Server

	integrations  int
	preflights    int
	quotaRequests [][]string
	vpcBlocked    bool

	contracts         map[string]int // clusterID -> current revision
	clusters          []clusterRecord
	listCalls         int
	pollsUntilVisible int
}

func newFakePlane() *fakePlane {
	fp := &fakePlane{
		contracts:         make(map[string]int),
		pollsUntilVisible: 1,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/projects/{project}/integrations", fp.handleIntegration)
	mux.HandleFunc("POST /v1/projects/{project}/invites", fp.handleInvite)
	mux.HandleFunc("POST /v1/projects/{project}/preflight", fp.handlePreflight)
	mux.HandleFunc("POST /v1/projects/{project}/quota-increases", fp.handleQuotaIncrease)
	mux.HandleFunc("POST /v1/projects/{project}/contracts", fp.handleContract)
	mux.HandleFunc("GET /v1/projects/{project}/clusters", fp.handleClusters)
	fp.server = httptest.NewServer(mux)
	return fp
}

func (fp *fakePlane) URL() string { return fp.server.URL }

func (fp *fakePlane) Close() { fp.server.Close() }

// reset restores the initial state between specs.
func (fp *fakePlane) reset() {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.integrations = 0
	fp.preflights = 0
	fp.quotaRequests = nil
	fp.vpcBlocked = false
	fp.contracts = make(map[string]int)
	fp.clusters = nil
	fp.listCalls = 0
	fp.pollsUntilVisible = 1
}

func (fp *fakePlane) blockVPCQuota() {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.vpcBlocked = true
}

func (fp *fakePlane) setPollsUntilVisible(n int) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.pollsUntilVisible = n
}

func (fp *fakePlane) integrationCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.integrations
}

func (fp *fakePlane) preflightCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.preflights
}

func (fp *fakePlane) quotaDimensions() [][]string {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return fp.quotaRequests
}

func (fp *fakePlane) clusterCount() int {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return len(fp.clusters)
}

func (fp *fakePlane) handleIntegration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Provider contract.Provider `json:"provider"`
		Secret   json.RawMessage   `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	fp.mu.Lock()
	fp.integrations++
	id := fmt.Sprintf("cred-%d", fp.integrations)
	fp.mu.Unlock()

	writeJSON(w, map[string]string{"credential_id": id})
}

func (fp *fakePlane) handleInvite(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (fp *fakePlane) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	fp.mu.Lock()
	fp.preflights++
	blocked := fp.vpcBlocked && len(fp.quotaRequests) == 0
	fp.mu.Unlock()

	checks := map[string]checkResult{
		"login":             {},
		"eip_quota":         {},
		"vpc_quota":         {},
		"nat_gateway_quota": {},
		"vcpu_quota":        {},
	}
	if blocked {
		checks["vpc_quota"] = checkResult{Message: "Your AWS account has reached the limit of VPCs in this region"}
	}
	writeJSON(w, map[string]any{"checks": checks})
}

func (fp *fakePlane) handleQuotaIncrease(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CredentialID string   `json:"credential_id"`
		Region       string   `json:"region"`
		Dimensions   []string `json:"dimensions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	fp.mu.Lock()
	fp.quotaRequests = append(fp.quotaRequests, req.Dimensions)
	fp.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (fp *fakePlane) handleContract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contract         *contract.Contract `json:"contract"`
		ExpectedRevision int                `json:"expected_revision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Contract == nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed contract")
		return
	}

	fp.mu.Lock()
	defer fp.mu.Unlock()

	clusterID := req.Contract.ClusterID
	if clusterID == "" {
		clusterID = fmt.Sprintf("cluster-e2e-%d", len(fp.contracts)+1)
		fp.contracts[clusterID] = 1
		fp.clusters = append(fp.clusters, clusterRecord{
			ID:     clusterID,
			Name:   req.Contract.Name,
			Status: "RUNNING",
		})
	} else {
		current, ok := fp.contracts[clusterID]
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "unknown cluster")
			return
		}
		if req.ExpectedRevision != current {
			writeError(w, http.StatusConflict, "revision_conflict",
				fmt.Sprintf("expected revision %d, current is %d", req.ExpectedRevision, current))
			return
		}
		fp.contracts[clusterID] = current + 1
	}

	writeJSON(w, map[string]any{
		"contract_revision": map[string]any{
			"cluster_id": clusterID,
			"revision":   fp.contracts[clusterID],
		},
	})
}

func (fp *fakePlane) handleClusters(w http.ResponseWriter, _ *http.Request) {
	fp.mu.Lock()
	fp.listCalls++
	var clusters []clusterRecord
	if fp.listCalls >= fp.pollsUntilVisible {
		clusters = append(clusters, fp.clusters...)
	}
	fp.mu.Unlock()

	writeJSON(w, map[string]any{"clusters": clusters})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
