package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/server/middleware"
	"github.com/campushire/faculty-portal/internal/types"
)

// ---------------------------------------------------------------------
// Applicant Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	applicantID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, err := s.manager.GetOrCreateDraft(r.Context(), applicantID, jobID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	applicantID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	apps, err := s.store.ListByApplicant(r.Context(), applicantID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleWriteSection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}
	sectionType := r.PathValue("section_type")

	var req types.WriteSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Section data is required")
		return
	}

	if !s.authorizeApplicant(w, r, id) {
		return
	}

	app, err := s.manager.UpdateSection(r.Context(), id, sectionType, req.Data, req.DocumentRef)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	applicantID, ok := s.applicantFor(w, r, id)
	if !ok {
		return
	}

	app, err := s.manager.Submit(r.Context(), id, applicantID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	applicantID, ok := s.applicantFor(w, r, id)
	if !ok {
		return
	}

	app, err := s.manager.Withdraw(r.Context(), id, applicantID)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
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

	// Applicants only see their own applications; reviewers see all.
	role, _ := middleware.GetRole(r)
	if role != middleware.RoleReviewer {
		callerID, err := middleware.GetUserID(r)
		if err != nil || app.ApplicantID != callerID {
			s.errorResponse(w, http.StatusNotFound, "Application not found")
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, app)
}

// applicantFor verifies the caller owns the application and returns their ID.
func (s *Server) applicantFor(w http.ResponseWriter, r *http.Request, id uuid.UUID) (uuid.UUID, bool) {
	callerID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}

	app, err := s.manager.Get(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return uuid.Nil, false
	}
	if app.ApplicantID != callerID {
		// Hide other applicants' IDs from probing.
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return uuid.Nil, false
	}
	return callerID, true
}

func (s *Server) authorizeApplicant(w http.ResponseWriter, r *http.Request, id uuid.UUID) bool {
	_, ok := s.applicantFor(w, r, id)
	return ok
}
