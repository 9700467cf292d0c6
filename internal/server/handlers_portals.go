package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-portal/internal/portal"
	"github.com/jonathan/cv-portal/internal/server/middleware"
	"github.com/jonathan/cv-portal/internal/store"
)

// ---------------------------------------------------------------------
// Portal Handlers
// ---------------------------------------------------------------------

// GeneratePortalRequest is the POST /api/portals/generate body. The user ID
// always comes from the authenticated token, never from the body.
type GeneratePortalRequest struct {
	JobID        string         `json:"jobId" validate:"required"`
	PortalConfig map[string]any `json:"portalConfig"`
}

// Validate validates the GeneratePortalRequest using the validator.
func (r *GeneratePortalRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

func (s *Server) handleGeneratePortal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req GeneratePortalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "jobId is required")
		return
	}

	result := s.generator.Generate(r.Context(), portal.Request{
		JobID:        req.JobID,
		UserID:       userID,
		PortalConfig: req.PortalConfig,
	})

	s.jsonResponse(w, resultStatus(result), result)
}

func (s *Server) handleGetPortal(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	portalID := r.PathValue("id")
	p, err := s.portals.Get(r.Context(), portalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Portal not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}
	if p.UserID != userID {
		// Hide other users' portals entirely.
		s.errorResponse(w, http.StatusNotFound, "Portal not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID := r.PathValue("id")
	job, err := s.jobs.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Job not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Storage error: "+err.Error())
		return
	}
	if job.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}
