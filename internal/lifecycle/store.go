// Package lifecycle owns the application aggregate: draft creation, section
// writes, credit recomputation, submission, withdrawal and the review
// operations. Concurrency is handled at the persistence boundary, so every
// state-changing Store method carries its own precondition check.
package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/types"
)

// Store is the persistence contract for application aggregates. All methods
// that mutate state enforce their status precondition atomically and report
// violations as apperr-coded errors:
//
//   - apperr.CodeNotFound for unknown application IDs
//   - apperr.CodeInvalidState for status-precondition failures
//   - apperr.CodeConflict for uniqueness races
//
// Returned aggregates are snapshots; mutating them does not affect storage.
type Store interface {
	// GetOrCreateDraft returns the existing draft for the pair or creates a
	// new one. A concurrent create racing on the uniqueness constraint
	// resolves to the already-existing draft, never to an error.
	GetOrCreateDraft(ctx context.Context, applicantID, jobID uuid.UUID) (*types.Application, error)

	// Get returns the application by ID.
	Get(ctx context.Context, id uuid.UUID) (*types.Application, error)

	// PutSection fully replaces the named section's record. Requires the
	// application to be a draft. Last writer wins on concurrent writes to
	// the same section.
	PutSection(ctx context.Context, id uuid.UUID, sectionType string, rec types.SectionRecord) (*types.Application, error)

	// SetCreditBreakdown stores a freshly computed breakdown. Requires the
	// application to be a draft.
	SetCreditBreakdown(ctx context.Context, id uuid.UUID, breakdown types.CreditPointsBreakdown) (*types.Application, error)

	// MarkSubmitted transitions draft → submitted, assigns the application
	// number and appends the status change, all atomically. A second call
	// observing a non-draft status fails with apperr.CodeInvalidState and
	// never reassigns the number.
	MarkSubmitted(ctx context.Context, id uuid.UUID, applicationNumber string, change types.StatusChange) (*types.Application, error)

	// AppendStatusChange sets the status to change.Status and appends the
	// change, provided the current status still equals from. A concurrent
	// change that moved the status away fails with apperr.CodeConflict.
	AppendStatusChange(ctx context.Context, id uuid.UUID, from types.Status, change types.StatusChange) (*types.Application, error)

	// VerifySection records a reviewer decision on one section. Requires a
	// non-draft status and an existing section. Never touches the
	// application status.
	VerifySection(ctx context.Context, id uuid.UUID, sectionType string, decision types.Verification, notes string, reviewerID uuid.UUID, at time.Time) (*types.Application, error)

	// NextApplicationSeq returns the next value of the monotonic sequence
	// backing application numbers.
	NextApplicationSeq(ctx context.Context) (int64, error)
}

// JobDirectory exposes the slice of job configuration the engine consults.
// Job CRUD lives outside this core.
type JobDirectory interface {
	JobConfig(ctx context.Context, jobID uuid.UUID) (types.JobConfig, error)
}

// Notifier delivers the post-submission confirmation. Best effort; failures
// are logged and never surfaced to the applicant.
type Notifier interface {
	SendApplicationConfirmation(ctx context.Context, email string, info ConfirmationInfo) error
}

// ConfirmationInfo is the payload of the submission confirmation.
type ConfirmationInfo struct {
	ApplicationNumber string
	JobTitle          string
}

// ReceiptGenerator renders a submission receipt from a read-only snapshot.
// The engine never inspects the returned bytes.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, snap ReceiptSnapshot) ([]byte, error)
}

// ReceiptSnapshot is the read-only view a receipt is rendered from.
type ReceiptSnapshot struct {
	ApplicationNumber string
	ApplicantName     string
	ApplicantEmail    string
	JobTitle          string
	Department        string
	SubmittedAt       time.Time
	GrandTotal        float64
	SectionTypes      []string
}

// DocumentStore is the engine's view of external blob storage. Sections hold
// non-owning references; the engine only stores generated receipts and
// releases draft uploads best-effort on withdrawal.
type DocumentStore interface {
	Upload(ctx context.Context, name string, contentType string, data []byte) (types.DocumentRef, error)
	Delete(ctx context.Context, ref types.DocumentRef) error
}
