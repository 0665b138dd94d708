package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/lifecycle"
	"github.com/campushire/faculty-portal/internal/server/middleware"
	"github.com/campushire/faculty-portal/internal/types"
)

// ---------------------------------------------------------------------
// Reviewer Handlers
// ---------------------------------------------------------------------

func (s *Server) handleVerifySection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}
	sectionType := r.PathValue("section_type")

	var req types.VerifySectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Decision must be approved or rejected")
		return
	}

	reviewerID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, err := s.reviewer.VerifySection(r.Context(), id, sectionType, types.Verification(req.Decision), req.Notes, reviewerID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	var req types.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Status and remarks are required")
		return
	}

	reviewerID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var app *types.Application
	if req.Force {
		app, err = s.reviewer.ForceStatus(r.Context(), id, types.Status(req.Status), req.Remarks, reviewerID)
	} else {
		app, err = s.reviewer.UpdateStatus(r.Context(), id, types.Status(req.Status), req.Remarks, reviewerID)
	}
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleVerificationSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	app, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, lifecycle.SummarizeVerification(app))
}
