package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

const applicationColumns = `id, applicant_id, job_id, application_number, status,
	sections, credit_breakdown, status_history, submitted_at, created_at, updated_at`

// GetOrCreateDraft returns the draft for the pair, creating it if absent.
// The partial unique index on (applicant_id, job_id) WHERE status='draft'
// serializes racing creates; the loser of the race reads the winner's row.
func (db *DB) GetOrCreateDraft(ctx context.Context, applicantID, jobID uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO applications (applicant_id, job_id, status)
		 VALUES ($1, $2, 'draft')
		 ON CONFLICT (applicant_id, job_id) WHERE status = 'draft' DO NOTHING
		 RETURNING `+applicationColumns,
		applicantID, jobID,
	)
	app, err := scanApplication(row)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	// Insert hit the uniqueness constraint: another request created the
	// draft first. Return that one.
	row = db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE applicant_id = $1 AND job_id = $2 AND status = 'draft'`,
		applicantID, jobID,
	)
	app, err = scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.CodeConflict, "draft creation raced and neither copy survived", err)
		}
		return nil, fmt.Errorf("failed to load existing draft: %w", err)
	}
	return app, nil
}

// Get returns the application by ID.
func (db *DB) Get(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.CodeNotFound, "application not found", err)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// PutSection fully replaces one section's record. Only drafts are writable;
// the status guard runs inside the UPDATE so a concurrent submit cannot
// slip a section write through.
func (db *DB) PutSection(ctx context.Context, id uuid.UUID, sectionType string, rec types.SectionRecord) (*types.Application, error) {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal section: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET sections = jsonb_set(sections, ARRAY[$2::text], $3::jsonb, true),
		     updated_at = now()
		 WHERE id = $1 AND status = 'draft'
		 RETURNING `+applicationColumns,
		id, sectionType, recJSON,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.draftPreconditionError(ctx, id, "sections can only be edited while the application is a draft")
		}
		return nil, fmt.Errorf("failed to write section %s: %w", sectionType, err)
	}
	return app, nil
}

// SetCreditBreakdown stores a freshly computed breakdown on a draft.
func (db *DB) SetCreditBreakdown(ctx context.Context, id uuid.UUID, breakdown types.CreditPointsBreakdown) (*types.Application, error) {
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET credit_breakdown = $2::jsonb, updated_at = now()
		 WHERE id = $1 AND status = 'draft'
		 RETURNING `+applicationColumns,
		id, breakdownJSON,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.draftPreconditionError(ctx, id, "credit breakdown is only recomputed for drafts")
		}
		return nil, fmt.Errorf("failed to store credit breakdown: %w", err)
	}
	return app, nil
}

// MarkSubmitted performs the draft → submitted transition atomically:
// status, application number, submission time and history entry move in one
// conditional UPDATE, so a concurrent second submit matches zero rows and
// never reassigns the number.
func (db *DB) MarkSubmitted(ctx context.Context, id uuid.UUID, applicationNumber string, change types.StatusChange) (*types.Application, error) {
	changeJSON, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status change: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = 'submitted',
		     application_number = $2,
		     submitted_at = $3,
		     status_history = status_history || $4::jsonb,
		     updated_at = now()
		 WHERE id = $1 AND status = 'draft'
		 RETURNING `+applicationColumns,
		id, applicationNumber, change.ChangedAt, changeJSON,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.draftPreconditionError(ctx, id, "application has already been submitted")
		}
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}
	return app, nil
}

// AppendStatusChange moves the status along one edge, guarded by the
// expected current status. A concurrent change that moved the status first
// surfaces as a conflict, not a silent double-append.
func (db *DB) AppendStatusChange(ctx context.Context, id uuid.UUID, from types.Status, change types.StatusChange) (*types.Application, error) {
	changeJSON, err := json.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status change: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $2,
		     status_history = status_history || $3::jsonb,
		     updated_at = now()
		 WHERE id = $1 AND status = $4
		 RETURNING `+applicationColumns,
		id, change.Status, changeJSON, from,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := db.Get(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, apperr.New(apperr.CodeConflict,
				fmt.Sprintf("application status changed concurrently, expected %s", from), nil)
		}
		return nil, fmt.Errorf("failed to append status change: %w", err)
	}
	return app, nil
}

// VerifySection patches the verification fields of one section. The payload
// data is left untouched; only drafts are excluded, and the section must
// already exist.
func (db *DB) VerifySection(ctx context.Context, id uuid.UUID, sectionType string, decision types.Verification, notes string, reviewerID uuid.UUID, at time.Time) (*types.Application, error) {
	patch, err := json.Marshal(map[string]any{
		"is_verified":        decision,
		"verification_notes": notes,
		"verified_by":        reviewerID,
		"verified_at":        at,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verification patch: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE applications
		 SET sections = jsonb_set(sections, ARRAY[$2::text], (sections->$2) || $3::jsonb),
		     updated_at = now()
		 WHERE id = $1 AND status <> 'draft' AND sections ? $2
		 RETURNING `+applicationColumns,
		id, sectionType, patch,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.verifyPreconditionError(ctx, id, sectionType)
		}
		return nil, fmt.Errorf("failed to verify section %s: %w", sectionType, err)
	}
	return app, nil
}

// NextApplicationSeq returns the next application-number sequence value.
func (db *DB) NextApplicationSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := db.pool.QueryRow(ctx, `SELECT nextval('application_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to advance application number sequence: %w", err)
	}
	return seq, nil
}

// ListByApplicant returns an applicant's applications, newest first.
func (db *DB) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE applicant_id = $1 ORDER BY created_at DESC`,
		applicantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// draftPreconditionError distinguishes "application does not exist" from
// "application exists but is no longer a draft" after a zero-row UPDATE.
func (db *DB) draftPreconditionError(ctx context.Context, id uuid.UUID, message string) error {
	if _, err := db.Get(ctx, id); err != nil {
		return err
	}
	return apperr.New(apperr.CodeInvalidState, message, nil)
}

func (db *DB) verifyPreconditionError(ctx context.Context, id uuid.UUID, sectionType string) error {
	app, err := db.Get(ctx, id)
	if err != nil {
		return err
	}
	if app.Status == types.StatusDraft {
		return apperr.New(apperr.CodeInvalidState, "sections cannot be verified before submission", nil)
	}
	if _, ok := app.Sections[sectionType]; !ok {
		return apperr.New(apperr.CodeNotFound, fmt.Sprintf("section %s not found", sectionType), nil)
	}
	return fmt.Errorf("failed to verify section %s: update matched no rows", sectionType)
}

// scanApplication reads one applications row, decoding the jsonb columns.
func scanApplication(row pgx.Row) (*types.Application, error) {
	var (
		app           types.Application
		number        *string
		sectionsJSON  []byte
		breakdownJSON []byte
		historyJSON   []byte
	)
	err := row.Scan(
		&app.ID, &app.ApplicantID, &app.JobID, &number, &app.Status,
		&sectionsJSON, &breakdownJSON, &historyJSON,
		&app.SubmittedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if number != nil {
		app.ApplicationNumber = *number
	}
	if err := json.Unmarshal(sectionsJSON, &app.Sections); err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	if err := json.Unmarshal(historyJSON, &app.StatusHistory); err != nil {
		return nil, fmt.Errorf("failed to decode status history: %w", err)
	}
	if len(breakdownJSON) > 0 {
		var b types.CreditPointsBreakdown
		if err := json.Unmarshal(breakdownJSON, &b); err != nil {
			return nil, fmt.Errorf("failed to decode credit breakdown: %w", err)
		}
		app.CreditBreakdown = &b
	}
	if app.Sections == nil {
		app.Sections = map[string]types.SectionRecord{}
	}
	return &app, nil
}
