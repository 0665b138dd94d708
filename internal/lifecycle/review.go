package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

// Reviewer is the staff-facing surface of the lifecycle: per-section
// verification and status changes with mandatory remarks. All operations
// require the application to have left draft.
type Reviewer struct {
	store Store
	now   func() time.Time
}

// NewReviewer creates a review coordinator backed by the given store.
func NewReviewer(store Store) *Reviewer {
	return &Reviewer{store: store, now: time.Now}
}

// VerifySection records an approve/reject decision with notes on one
// section. Verification is independent per section and never changes the
// application status.
func (r *Reviewer) VerifySection(ctx context.Context, id uuid.UUID, sectionType string, decision types.Verification, notes string, reviewerID uuid.UUID) (*types.Application, error) {
	if decision != types.VerificationApproved && decision != types.VerificationRejected {
		return nil, apperr.NewValidation("decision must be approved or rejected",
			map[string]string{"decision": string(decision)})
	}
	return r.store.VerifySection(ctx, id, sectionType, decision, notes, reviewerID, r.now().UTC())
}

// UpdateStatus appends a status change with mandatory remarks, enforcing the
// transition graph. Illegal edges fail with apperr.CodeInvalidTransition.
func (r *Reviewer) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus types.Status, remarks string, reviewerID uuid.UUID) (*types.Application, error) {
	return r.changeStatus(ctx, id, newStatus, remarks, reviewerID, false)
}

// ForceStatus is the privileged override: it skips the transition graph but
// still requires remarks and appends history like any other change.
func (r *Reviewer) ForceStatus(ctx context.Context, id uuid.UUID, newStatus types.Status, remarks string, reviewerID uuid.UUID) (*types.Application, error) {
	return r.changeStatus(ctx, id, newStatus, remarks, reviewerID, true)
}

func (r *Reviewer) changeStatus(ctx context.Context, id uuid.UUID, newStatus types.Status, remarks string, reviewerID uuid.UUID, force bool) (*types.Application, error) {
	if strings.TrimSpace(remarks) == "" {
		return nil, apperr.NewValidation("remarks are required for a status change",
			map[string]string{"remarks": "must not be empty"})
	}
	if !newStatus.IsValid() {
		return nil, apperr.NewValidation("unknown status",
			map[string]string{"status": string(newStatus)})
	}

	app, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState, "application has not been submitted", nil)
	}
	if newStatus == app.Status {
		return nil, apperr.New(apperr.CodeInvalidTransition,
			fmt.Sprintf("application is already %s", app.Status), nil)
	}
	if !force && !CanTransition(app.Status, newStatus) {
		return nil, apperr.New(apperr.CodeInvalidTransition,
			fmt.Sprintf("cannot move from %s to %s", app.Status, newStatus), nil)
	}

	change := types.StatusChange{
		Status:    newStatus,
		Remarks:   remarks,
		ChangedBy: reviewerID,
		ChangedAt: r.now().UTC(),
	}
	return r.store.AppendStatusChange(ctx, id, app.Status, change)
}

// VerificationSummary reports how many of an application's sections are
// approved, rejected and still pending review.
type VerificationSummary struct {
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Pending  int `json:"pending"`
}

// SummarizeVerification tallies the verification state across all sections.
func SummarizeVerification(app *types.Application) VerificationSummary {
	var s VerificationSummary
	for _, rec := range app.Sections {
		switch rec.IsVerified {
		case types.VerificationApproved:
			s.Approved++
		case types.VerificationRejected:
			s.Rejected++
		default:
			s.Pending++
		}
	}
	return s
}
