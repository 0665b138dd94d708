package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/scoring"
	"github.com/campushire/faculty-portal/internal/types"
)

// SectionValidator checks a section payload against its schema before it is
// persisted. Implementations return apperr validation errors; section types
// without a schema pass through.
type SectionValidator interface {
	ValidateSection(sectionType string, data json.RawMessage) error
}

// ManagerOptions carries the optional collaborators. Nil collaborators
// disable the corresponding side effect.
type ManagerOptions struct {
	Sections  SectionValidator
	Notifier  Notifier
	Receipts  ReceiptGenerator
	Documents DocumentStore
}

// Manager orchestrates the application lifecycle: draft creation, section
// writes with credit recomputation, submission and withdrawal.
type Manager struct {
	store    Store
	jobs     JobDirectory
	sections SectionValidator
	notifier Notifier
	receipts ReceiptGenerator
	docs     DocumentStore
	now      func() time.Time
}

// NewManager creates a lifecycle manager backed by the given store and job
// directory.
func NewManager(store Store, jobs JobDirectory, opts ManagerOptions) *Manager {
	return &Manager{
		store:    store,
		jobs:     jobs,
		sections: opts.Sections,
		notifier: opts.Notifier,
		receipts: opts.Receipts,
		docs:     opts.Documents,
		now:      time.Now,
	}
}

// GetOrCreateDraft returns the applicant's draft for the job, creating it
// lazily on first access. At most one draft exists per (applicant, job) pair.
func (m *Manager) GetOrCreateDraft(ctx context.Context, applicantID, jobID uuid.UUID) (*types.Application, error) {
	if _, err := m.jobs.JobConfig(ctx, jobID); err != nil {
		return nil, err
	}
	return m.store.GetOrCreateDraft(ctx, applicantID, jobID)
}

// Get returns the full application.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	return m.store.Get(ctx, id)
}

// UpdateSection fully replaces one section's payload and, for sections the
// credit engine reads, recomputes and stores the breakdown. Only drafts are
// editable.
func (m *Manager) UpdateSection(ctx context.Context, id uuid.UUID, sectionType string, data json.RawMessage, docRef *types.DocumentRef) (*types.Application, error) {
	if strings.TrimSpace(sectionType) == "" {
		return nil, apperr.NewValidation("section type is required", nil)
	}
	if len(data) == 0 {
		return nil, apperr.NewValidation("section data is required", map[string]string{sectionType: "payload is empty"})
	}
	if m.sections != nil {
		if err := m.sections.ValidateSection(sectionType, data); err != nil {
			return nil, err
		}
	}

	rec := types.SectionRecord{Data: data, DocumentRef: docRef}
	app, err := m.store.PutSection(ctx, id, sectionType, rec)
	if err != nil {
		return nil, err
	}

	if types.IsScoringSection(sectionType) {
		breakdown := scoring.Compute(scoring.InputFromSections(app.Sections))
		app, err = m.store.SetCreditBreakdown(ctx, id, breakdown)
		if err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Submit validates completeness against the job's required sections, assigns
// the application number and transitions draft → submitted. Notification and
// receipt generation run asynchronously and never fail the submission.
func (m *Manager) Submit(ctx context.Context, id, actorID uuid.UUID) (*types.Application, error) {
	app, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState,
			fmt.Sprintf("application is %s, only drafts can be submitted", app.Status), nil)
	}

	job, err := m.jobs.JobConfig(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if fields := validateCompleteness(app, job); len(fields) > 0 {
		return nil, apperr.NewValidation("application is incomplete", fields)
	}

	seq, err := m.store.NextApplicationSeq(ctx)
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	number := FormatApplicationNumber(seq, now)

	change := types.StatusChange{
		Status:    types.StatusSubmitted,
		Remarks:   "Application submitted",
		ChangedBy: actorID,
		ChangedAt: now,
	}
	submitted, err := m.store.MarkSubmitted(ctx, id, number, change)
	if err != nil {
		return nil, err
	}

	m.runSubmitSideEffects(submitted, job)
	return submitted, nil
}

// Withdraw moves a draft to the terminal withdrawn status. Uploaded draft
// documents are released best-effort.
func (m *Manager) Withdraw(ctx context.Context, id, actorID uuid.UUID) (*types.Application, error) {
	app, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status != types.StatusDraft {
		return nil, apperr.New(apperr.CodeInvalidState,
			fmt.Sprintf("application is %s, only drafts can be withdrawn", app.Status), nil)
	}

	change := types.StatusChange{
		Status:    types.StatusWithdrawn,
		Remarks:   "Application withdrawn by applicant",
		ChangedBy: actorID,
		ChangedAt: m.now().UTC(),
	}
	withdrawn, err := m.store.AppendStatusChange(ctx, id, types.StatusDraft, change)
	if err != nil {
		return nil, err
	}

	if m.docs != nil {
		go m.releaseDocuments(withdrawn)
	}
	return withdrawn, nil
}

// FormatApplicationNumber renders a sequence value as a human-readable,
// globally unique application number, e.g. FA-2026-000042.
func FormatApplicationNumber(seq int64, t time.Time) string {
	return fmt.Sprintf("FA-%d-%06d", t.Year(), seq)
}

// validateCompleteness returns a per-section description of everything that
// blocks submission.
func validateCompleteness(app *types.Application, job types.JobConfig) map[string]string {
	fields := make(map[string]string)
	for _, sectionType := range job.MandatorySections() {
		rec, ok := app.Sections[sectionType]
		if !ok || isEmptyPayload(rec.Data) {
			fields[sectionType] = "mandatory section is missing or empty"
		}
	}

	rec, ok := app.Sections[types.SectionDeclaration]
	if !ok || isEmptyPayload(rec.Data) {
		fields[types.SectionDeclaration] = "declaration has not been provided"
	} else {
		var decl types.DeclarationPayload
		if err := json.Unmarshal(rec.Data, &decl); err != nil || !decl.Agreed {
			fields[types.SectionDeclaration] = "declaration has not been agreed"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// isEmptyPayload reports whether a stored payload carries no content.
func isEmptyPayload(data json.RawMessage) bool {
	switch strings.TrimSpace(string(data)) {
	case "", "null", "{}", "[]", `""`:
		return true
	}
	return false
}

// runSubmitSideEffects fires the confirmation email and receipt generation in
// the background. Failures are logged, never propagated; the submission has
// already committed.
func (m *Manager) runSubmitSideEffects(app *types.Application, job types.JobConfig) {
	if m.notifier == nil && m.receipts == nil {
		return
	}
	snapshot := m.buildReceiptSnapshot(app, job)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var g errgroup.Group
		if m.notifier != nil {
			g.Go(func() error {
				if snapshot.ApplicantEmail == "" {
					log.Printf("application %s: no applicant email, skipping confirmation", app.ApplicationNumber)
					return nil
				}
				info := ConfirmationInfo{ApplicationNumber: app.ApplicationNumber, JobTitle: job.Title}
				if err := m.notifier.SendApplicationConfirmation(ctx, snapshot.ApplicantEmail, info); err != nil {
					log.Printf("application %s: confirmation failed: %v", app.ApplicationNumber, err)
				}
				return nil
			})
		}
		if m.receipts != nil {
			g.Go(func() error {
				pdf, err := m.receipts.GenerateReceipt(ctx, snapshot)
				if err != nil {
					log.Printf("application %s: receipt generation failed: %v", app.ApplicationNumber, err)
					return nil
				}
				if m.docs != nil {
					name := fmt.Sprintf("receipt-%s.pdf", app.ApplicationNumber)
					ref, err := m.docs.Upload(ctx, name, "application/pdf", pdf)
					if err != nil {
						log.Printf("application %s: receipt upload failed: %v", app.ApplicationNumber, err)
						return nil
					}
					log.Printf("application %s: receipt stored at %s", app.ApplicationNumber, ref.URL)
				}
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// buildReceiptSnapshot assembles the read-only view receipts and
// confirmations are built from. Applicant display fields come from the
// personal section, decoded leniently.
func (m *Manager) buildReceiptSnapshot(app *types.Application, job types.JobConfig) ReceiptSnapshot {
	snap := ReceiptSnapshot{
		ApplicationNumber: app.ApplicationNumber,
		JobTitle:          job.Title,
		Department:        job.Department,
	}
	if app.SubmittedAt != nil {
		snap.SubmittedAt = *app.SubmittedAt
	}
	if app.CreditBreakdown != nil {
		snap.GrandTotal = app.CreditBreakdown.GrandTotal
	}
	for sectionType := range app.Sections {
		snap.SectionTypes = append(snap.SectionTypes, sectionType)
	}
	sort.Strings(snap.SectionTypes)

	if rec, ok := app.Sections[types.SectionPersonal]; ok {
		var personal struct {
			FullName string `json:"full_name"`
			Name     string `json:"name"`
			Email    string `json:"email"`
		}
		if err := json.Unmarshal(rec.Data, &personal); err == nil {
			snap.ApplicantName = personal.FullName
			if snap.ApplicantName == "" {
				snap.ApplicantName = personal.Name
			}
			snap.ApplicantEmail = personal.Email
		}
	}
	return snap
}

// releaseDocuments deletes the uploaded blobs referenced by a withdrawn
// draft's sections. Best effort.
func (m *Manager) releaseDocuments(app *types.Application) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	for sectionType, rec := range app.Sections {
		if rec.DocumentRef == nil {
			continue
		}
		if err := m.docs.Delete(ctx, *rec.DocumentRef); err != nil {
			log.Printf("application %s: failed to release document for section %s: %v", app.ID, sectionType, err)
		}
	}
}
