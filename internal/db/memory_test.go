package db

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campushire/faculty-portal/internal/apperr"
	"github.com/campushire/faculty-portal/internal/types"
)

func TestMemoryStore_GetOrCreateDraft_ReusesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	applicant, job := uuid.New(), uuid.New()

	first, err := store.GetOrCreateDraft(ctx, applicant, job)
	if err != nil {
		t.Fatalf("GetOrCreateDraft() error = %v", err)
	}
	second, err := store.GetOrCreateDraft(ctx, applicant, job)
	if err != nil {
		t.Fatalf("GetOrCreateDraft() second call error = %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("second call created a new draft: %s vs %s", first.ID, second.ID)
	}
}

func TestMemoryStore_GetOrCreateDraft_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	applicant, job := uuid.New(), uuid.New()

	const workers = 16
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			app, err := store.GetOrCreateDraft(ctx, applicant, job)
			if err != nil {
				t.Errorf("GetOrCreateDraft() error = %v", err)
				return
			}
			ids[i] = app.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("concurrent creation produced multiple drafts: %s vs %s", ids[0], ids[i])
		}
	}
}

func TestMemoryStore_PutSection_RequiresDraft(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app, _ := store.GetOrCreateDraft(ctx, uuid.New(), uuid.New())

	rec := types.SectionRecord{Data: json.RawMessage(`{"email":"a@b.edu"}`)}
	if _, err := store.PutSection(ctx, app.ID, types.SectionPersonal, rec); err != nil {
		t.Fatalf("PutSection() on draft error = %v", err)
	}

	change := types.StatusChange{Status: types.StatusSubmitted, Remarks: "ok", ChangedBy: app.ApplicantID, ChangedAt: time.Now()}
	if _, err := store.MarkSubmitted(ctx, app.ID, "FA-2026-000001", change); err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}

	_, err := store.PutSection(ctx, app.ID, types.SectionPersonal, rec)
	if !apperr.Is(err, apperr.CodeInvalidState) {
		t.Errorf("PutSection() after submit error = %v, want invalid_state", err)
	}
}

func TestMemoryStore_MarkSubmitted_ExactlyOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app, _ := store.GetOrCreateDraft(ctx, uuid.New(), uuid.New())

	change := types.StatusChange{Status: types.StatusSubmitted, Remarks: "ok", ChangedBy: app.ApplicantID, ChangedAt: time.Now()}
	submitted, err := store.MarkSubmitted(ctx, app.ID, "FA-2026-000001", change)
	if err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}
	if submitted.ApplicationNumber != "FA-2026-000001" {
		t.Errorf("ApplicationNumber = %q", submitted.ApplicationNumber)
	}
	if submitted.SubmittedAt == nil {
		t.Error("SubmittedAt not set")
	}

	_, err = store.MarkSubmitted(ctx, app.ID, "FA-2026-000002", change)
	if !apperr.Is(err, apperr.CodeInvalidState) {
		t.Fatalf("second MarkSubmitted() error = %v, want invalid_state", err)
	}
	got, _ := store.Get(ctx, app.ID)
	if got.ApplicationNumber != "FA-2026-000001" {
		t.Errorf("application number reassigned to %q", got.ApplicationNumber)
	}
}

func TestMemoryStore_AppendStatusChange_GuardsExpectedStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app, _ := store.GetOrCreateDraft(ctx, uuid.New(), uuid.New())
	submit := types.StatusChange{Status: types.StatusSubmitted, Remarks: "ok", ChangedBy: app.ApplicantID, ChangedAt: time.Now()}
	if _, err := store.MarkSubmitted(ctx, app.ID, "FA-2026-000001", submit); err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}

	change := types.StatusChange{Status: types.StatusUnderReview, Remarks: "screening", ChangedBy: uuid.New(), ChangedAt: time.Now()}
	updated, err := store.AppendStatusChange(ctx, app.ID, types.StatusSubmitted, change)
	if err != nil {
		t.Fatalf("AppendStatusChange() error = %v", err)
	}
	if updated.Status != types.StatusUnderReview {
		t.Errorf("Status = %s, want under_review", updated.Status)
	}
	if len(updated.StatusHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(updated.StatusHistory))
	}

	// Stale expectation: status is no longer submitted.
	_, err = store.AppendStatusChange(ctx, app.ID, types.StatusSubmitted, change)
	if !apperr.Is(err, apperr.CodeConflict) {
		t.Errorf("stale AppendStatusChange() error = %v, want conflict", err)
	}
}

func TestMemoryStore_VerifySection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app, _ := store.GetOrCreateDraft(ctx, uuid.New(), uuid.New())
	rec := types.SectionRecord{Data: json.RawMessage(`[]`)}
	if _, err := store.PutSection(ctx, app.ID, types.SectionPatents, rec); err != nil {
		t.Fatalf("PutSection() error = %v", err)
	}

	reviewer := uuid.New()
	// Draft sections cannot be verified.
	_, err := store.VerifySection(ctx, app.ID, types.SectionPatents, types.VerificationApproved, "", reviewer, time.Now())
	if !apperr.Is(err, apperr.CodeInvalidState) {
		t.Fatalf("VerifySection() on draft error = %v, want invalid_state", err)
	}

	submit := types.StatusChange{Status: types.StatusSubmitted, Remarks: "ok", ChangedBy: app.ApplicantID, ChangedAt: time.Now()}
	if _, err := store.MarkSubmitted(ctx, app.ID, "FA-2026-000001", submit); err != nil {
		t.Fatalf("MarkSubmitted() error = %v", err)
	}

	updated, err := store.VerifySection(ctx, app.ID, types.SectionPatents, types.VerificationRejected, "certificate missing", reviewer, time.Now())
	if err != nil {
		t.Fatalf("VerifySection() error = %v", err)
	}
	got := updated.Sections[types.SectionPatents]
	if got.IsVerified != types.VerificationRejected {
		t.Errorf("IsVerified = %q, want rejected", got.IsVerified)
	}
	if got.VerificationNotes != "certificate missing" {
		t.Errorf("VerificationNotes = %q", got.VerificationNotes)
	}
	if got.VerifiedBy == nil || *got.VerifiedBy != reviewer {
		t.Error("VerifiedBy not recorded")
	}
	if updated.Status != types.StatusSubmitted {
		t.Errorf("verification changed status to %s", updated.Status)
	}

	_, err = store.VerifySection(ctx, app.ID, "no_such_section", types.VerificationApproved, "", reviewer, time.Now())
	if !apperr.Is(err, apperr.CodeNotFound) {
		t.Errorf("VerifySection() unknown section error = %v, want not_found", err)
	}
}

func TestMemoryStore_NextApplicationSeq_Monotonic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	prev := int64(0)
	for i := 0; i < 5; i++ {
		seq, err := store.NextApplicationSeq(ctx)
		if err != nil {
			t.Fatalf("NextApplicationSeq() error = %v", err)
		}
		if seq <= prev {
			t.Fatalf("sequence not monotonic: %d after %d", seq, prev)
		}
		prev = seq
	}
}

func TestMemoryStore_SnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	app, _ := store.GetOrCreateDraft(ctx, uuid.New(), uuid.New())

	// Mutating a returned snapshot must not leak into storage.
	app.Sections["rogue"] = types.SectionRecord{Data: json.RawMessage(`{}`)}
	got, _ := store.Get(ctx, app.ID)
	if _, ok := got.Sections["rogue"]; ok {
		t.Error("snapshot mutation leaked into the store")
	}
}
