package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/cv-portal/internal/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	srv, err := New(Config{Port: 0, Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)
	t.Cleanup(srv.rateLimiter.Stop)
	return srv
}

func seedServerJob(t *testing.T, srv *Server, jobID, userID string) {
	t.Helper()
	require.NoError(t, srv.jobs.Put(context.Background(), &types.PortalJob{
		ID:     jobID,
		UserID: userID,
		Status: types.JobStatusCompleted,
		ParsedData: &types.ParsedCV{
			PersonalInfo: &types.PersonalInfo{Name: "Ada Lovelace"},
			Summary:      "Pioneer of computing.",
			Skills:       []string{"Go"},
		},
		CreatedAt: time.Now().UTC(),
	}))
}

func authedRequest(t *testing.T, srv *Server, method, path, body, userID string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		token, err := srv.jwtService.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGeneratePortalEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedServerJob(t, srv, "job1", "user1")

	req := authedRequest(t, srv, http.MethodPost, "/api/portals/generate", `{"jobId":"job1"}`, "user1")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	require.NotNil(t, result.Urls)
	assert.Equal(t, "https://ada-lovelace-cv-portal.hf.space", result.Urls.Portal)
	assert.Len(t, result.StepsCompleted, len(types.AllSteps))
}

func TestGeneratePortalRequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	req := authedRequest(t, srv, http.MethodPost, "/api/portals/generate", `{"jobId":"job1"}`, "")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGeneratePortalRejectsMissingJobID(t *testing.T) {
	srv := newTestServer(t)

	req := authedRequest(t, srv, http.MethodPost, "/api/portals/generate", `{}`, "user1")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeneratePortalWrongOwner(t *testing.T) {
	srv := newTestServer(t)
	seedServerJob(t, srv, "job1", "user1")

	req := authedRequest(t, srv, http.MethodPost, "/api/portals/generate", `{"jobId":"job1"}`, "intruder")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var result types.GenerationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "You are not authorized to access this CV.", result.Error.Message)
}

func TestGetPortalOwnerOnly(t *testing.T) {
	srv := newTestServer(t)
	seedServerJob(t, srv, "job1", "user1")

	// Generate once so a portal exists.
	genReq := authedRequest(t, srv, http.MethodPost, "/api/portals/generate", `{"jobId":"job1"}`, "user1")
	genRec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(genRec, genReq)
	require.Equal(t, http.StatusOK, genRec.Code)

	var result types.GenerationResult
	require.NoError(t, json.Unmarshal(genRec.Body.Bytes(), &result))
	portalID := result.Portal.ID

	// Owner reads it.
	req := authedRequest(t, srv, http.MethodGet, "/api/portals/"+portalID, "", "user1")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p types.Portal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, types.PortalStatusCompleted, p.Status)

	// Anyone else sees a 404, not a 403.
	req = authedRequest(t, srv, http.MethodGet, "/api/portals/"+portalID, "", "intruder")
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedServerJob(t, srv, "job1", "user1")

	req := authedRequest(t, srv, http.MethodGet, "/api/jobs/job1", "", "user1")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var job types.PortalJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	assert.Equal(t, "job1", job.ID)

	req = authedRequest(t, srv, http.MethodGet, "/api/jobs/missing", "", "user1")
	rec = httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
