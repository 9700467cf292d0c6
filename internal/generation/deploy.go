package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SimulatedDeployer completes deployments in-process. It is the default in
// tests and local runs where no hosting service is reachable.
type SimulatedDeployer struct{}

// Deploy returns a fresh deployment ID without leaving the process.
func (d *SimulatedDeployer) Deploy(_ context.Context, req DeployRequest) (*Deployment, error) {
	if req.HTML == "" {
		return nil, fmt.Errorf("deploy request has no site bundle")
	}
	return &Deployment{ID: "sim-" + uuid.NewString()}, nil
}

// SpaceDeployer pushes portal bundles to the hosting service over HTTP.
// Error text from the service is surfaced verbatim so the pipeline's
// classifier can recognize billing, auth and overload conditions.
type SpaceDeployer struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewSpaceDeployer creates a deployer for the given service endpoint.
func NewSpaceDeployer(baseURL, token string) *SpaceDeployer {
	return &SpaceDeployer{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type deployPayload struct {
	PortalID string `json:"portalId"`
	JobID    string `json:"jobId"`
	HTML     string `json:"html"`
	Chunks   int    `json:"chunks"`
}

type deployResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// Deploy POSTs the bundle and returns the service's deployment ID.
func (d *SpaceDeployer) Deploy(ctx context.Context, req DeployRequest) (*Deployment, error) {
	body, err := json.Marshal(deployPayload{
		PortalID: req.PortalID,
		JobID:    req.JobID,
		HTML:     req.HTML,
		Chunks:   req.Chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode deploy payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+"/api/spaces", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build deploy request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if d.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+d.Token)
	}

	resp, err := d.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("deploy request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read deploy response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Keep the service's own wording; the classifier matches on it.
		var parsed deployResponse
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error != "" {
			return nil, fmt.Errorf("deployment service error (%d): %s", resp.StatusCode, parsed.Error)
		}
		return nil, fmt.Errorf("deployment service error (%d): %s", resp.StatusCode, string(raw))
	}

	var parsed deployResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode deploy response: %w", err)
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("deployment service returned no deployment ID")
	}
	return &Deployment{ID: parsed.ID}, nil
}
