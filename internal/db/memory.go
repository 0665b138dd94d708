package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

// MemoryStore is an in-memory implementation of the lifecycle store
// contract, used by tests and local development. It honors the same atomic
// preconditions the Postgres store enforces with conditional updates.
type MemoryStore struct {
	mu   sync.Mutex
	apps map[uuid.UUID]*types.Application
	seq  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apps: make(map[uuid.UUID]*types.Application)}
}

// GetOrCreateDraft returns the existing draft for the pair or creates one.
func (s *MemoryStore) GetOrCreateDraft(_ context.Context, applicantID, jobID uuid.UUID) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, app := range s.apps {
		if app.ApplicantID == applicantID && app.JobID == jobID && app.Status == types.StatusDraft {
			return app.Clone(), nil
		}
	}

	now := time.Now().UTC()
	app := &types.Application{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		JobID:       jobID,
		Status:      types.StatusDraft,
		Sections:    map[string]types.SectionRecord{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.apps[app.ID] = app
	return app.Clone(), nil
}

// Get returns the application by ID.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *MemoryStore) get(id uuid.UUID) (*types.Application, error) {
	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	return app.Clone(), nil
}

// PutSection fully replaces one section's record on a draft.
func (s *MemoryStore) PutSection(_ context.Context, id uuid.UUID, sectionType string, rec types.SectionRecord) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	if app.Status != types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState, "sections can only be edited while the application is a draft", nil)
	}
	app.Sections[sectionType] = rec
	app.UpdatedAt = time.Now().UTC()
	return app.Clone(), nil
}

// SetCreditBreakdown stores the breakdown on a draft.
func (s *MemoryStore) SetCreditBreakdown(_ context.Context, id uuid.UUID, breakdown types.CreditPointsBreakdown) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	if app.Status != types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState, "credit breakdown is only recomputed for drafts", nil)
	}
	app.CreditBreakdown = &breakdown
	app.UpdatedAt = time.Now().UTC()
	return app.Clone(), nil
}

// MarkSubmitted performs the draft → submitted transition atomically.
func (s *MemoryStore) MarkSubmitted(_ context.Context, id uuid.UUID, applicationNumber string, change types.StatusChange) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	if app.Status != types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState, "application has already been submitted", nil)
	}
	app.Status = types.StatusSubmitted
	app.ApplicationNumber = applicationNumber
	submittedAt := change.ChangedAt
	app.SubmittedAt = &submittedAt
	app.StatusHistory = append(app.StatusHistory, change)
	app.UpdatedAt = time.Now().UTC()
	return app.Clone(), nil
}

// AppendStatusChange moves the status along one edge if the current status
// still matches from.
func (s *MemoryStore) AppendStatusChange(_ context.Context, id uuid.UUID, from types.Status, change types.StatusChange) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	if app.Status != from {
		return nil, apperr.New(apperr.CodeConflict,
			fmt.Sprintf("application status changed concurrently, expected %s", from), nil)
	}
	app.Status = change.Status
	app.StatusHistory = append(app.StatusHistory, change)
	app.UpdatedAt = time.Now().UTC()
	return app.Clone(), nil
}

// VerifySection records a reviewer decision on one existing section of a
// non-draft application.
func (s *MemoryStore) VerifySection(_ context.Context, id uuid.UUID, sectionType string, decision types.Verification, notes string, reviewerID uuid.UUID, at time.Time) (*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, "application not found", nil)
	}
	if app.Status == types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState, "sections cannot be verified before submission", nil)
	}
	rec, ok := app.Sections[sectionType]
	if !ok {
		return nil, apperr.New(apperr.CodeNotFound, fmt.Sprintf("section %s not found", sectionType), nil)
	}
	rec.IsVerified = decision
	rec.VerificationNotes = notes
	rec.VerifiedBy = &reviewerID
	rec.VerifiedAt = &at
	app.Sections[sectionType] = rec
	app.UpdatedAt = time.Now().UTC()
	return app.Clone(), nil
}

// NextApplicationSeq returns the next application-number sequence value.
func (s *MemoryStore) NextApplicationSeq(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// ListByApplicant returns an applicant's applications.
func (s *MemoryStore) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var apps []types.Application
	for _, app := range s.apps {
		if app.ApplicantID == applicantID {
			apps = append(apps, *app.Clone())
		}
	}
	return apps, nil
}
