package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedDeployer(t *testing.T) {
	d := &SimulatedDeployer{}

	dep, err := d.Deploy(context.Background(), DeployRequest{PortalID: "p1", HTML: "<html></html>"})
	require.NoError(t, err)
	assert.NotEmpty(t, dep.ID)

	_, err = d.Deploy(context.Background(), DeployRequest{PortalID: "p1"})
	assert.Error(t, err, "empty bundle must be rejected")
}

func TestSpaceDeployerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/spaces", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "p1", payload["portalId"])

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "space-42"})
	}))
	defer srv.Close()

	d := NewSpaceDeployer(srv.URL, "tok")
	dep, err := d.Deploy(context.Background(), DeployRequest{PortalID: "p1", JobID: "j1", HTML: "<html></html>", Chunks: 3})
	require.NoError(t, err)
	assert.Equal(t, "space-42", dep.ID)
}

// The service's own error wording must survive into the returned error so
// the pipeline classifier can match on it.
func TestSpaceDeployerSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "credit balance is too low"})
	}))
	defer srv.Close()

	d := NewSpaceDeployer(srv.URL, "")
	_, err := d.Deploy(context.Background(), DeployRequest{PortalID: "p1", HTML: "<html></html>"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit balance is too low")
	assert.Contains(t, err.Error(), "402")
}

func TestSpaceDeployerRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	d := NewSpaceDeployer(srv.URL, "")
	_, err := d.Deploy(context.Background(), DeployRequest{PortalID: "p1", HTML: "<html></html>"})
	assert.Error(t, err)
}
