// Package types provides type definitions for structured data used throughout the faculty portal.
package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an application.
type Status string

// Application lifecycle states. An application starts as a draft and moves
// forward through submission and review; rejected, selected and withdrawn
// are terminal.
const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusSelected    Status = "selected"
	StatusWithdrawn   Status = "withdrawn"
)

// IsValid reports whether s is a known application status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusShortlisted,
		StatusRejected, StatusSelected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusSelected || s == StatusWithdrawn
}

// Section type names shared with job configuration. Jobs may declare
// additional section types; these are the ones the engine itself knows about.
const (
	SectionPersonal            = "personal"
	SectionEducation           = "education"
	SectionSponsoredProjects   = "sponsored_projects"
	SectionConsultancyProjects = "consultancy_projects"
	SectionPhDSupervision      = "phd_supervision"
	SectionJournalPapers       = "publications_journal"
	SectionPatents             = "patents"
	SectionCreditPoints        = "credit_points"
	SectionDeclaration         = "declaration"
)

// ScoringSections lists the section types whose writes trigger a credit
// recomputation.
var ScoringSections = []string{
	SectionSponsoredProjects,
	SectionConsultancyProjects,
	SectionPhDSupervision,
	SectionJournalPapers,
	SectionPatents,
	SectionCreditPoints,
}

// IsScoringSection reports whether sectionType feeds the credit engine.
func IsScoringSection(sectionType string) bool {
	for _, s := range ScoringSections {
		if s == sectionType {
			return true
		}
	}
	return false
}

// Verification is the tri-state reviewer decision on a single section.
// The zero value means no decision has been recorded yet.
type Verification string

const (
	VerificationPending  Verification = ""
	VerificationApproved Verification = "approved"
	VerificationRejected Verification = "rejected"
)

// DocumentRef is a non-owning reference to an externally stored upload.
// The blob itself lives in document storage; the application only keeps
// the pointer.
type DocumentRef struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// SectionRecord holds one named section of an application: the structured
// payload the applicant supplied plus the reviewer verification state.
type SectionRecord struct {
	Data              json.RawMessage `json:"data"`
	IsVerified        Verification    `json:"is_verified,omitempty"`
	VerificationNotes string          `json:"verification_notes,omitempty"`
	VerifiedBy        *uuid.UUID      `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time      `json:"verified_at,omitempty"`
	DocumentRef       *DocumentRef    `json:"document_ref,omitempty"`
}

// StatusChange is one immutable entry in an application's status history.
type StatusChange struct {
	Status    Status    `json:"status"`
	Remarks   string    `json:"remarks"`
	ChangedBy uuid.UUID `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// Application is the aggregate root for one candidate's application to one job.
type Application struct {
	ID                uuid.UUID                `json:"id"`
	ApplicantID       uuid.UUID                `json:"applicant_id"`
	JobID             uuid.UUID                `json:"job_id"`
	ApplicationNumber string                   `json:"application_number,omitempty"`
	Status            Status                   `json:"status"`
	Sections          map[string]SectionRecord `json:"sections"`
	CreditBreakdown   *CreditPointsBreakdown   `json:"credit_breakdown,omitempty"`
	StatusHistory     []StatusChange           `json:"status_history"`
	SubmittedAt       *time.Time               `json:"submitted_at,omitempty"`
	CreatedAt         time.Time                `json:"created_at"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// Section returns the named section record and whether it exists.
func (a *Application) Section(sectionType string) (SectionRecord, bool) {
	rec, ok := a.Sections[sectionType]
	return rec, ok
}

// Clone returns a deep copy of the application. Stores hand out clones so
// callers can never mutate persisted state in place.
func (a *Application) Clone() *Application {
	c := *a
	c.Sections = make(map[string]SectionRecord, len(a.Sections))
	for k, v := range a.Sections {
		rec := v
		rec.Data = append(json.RawMessage(nil), v.Data...)
		if v.VerifiedBy != nil {
			id := *v.VerifiedBy
			rec.VerifiedBy = &id
		}
		if v.VerifiedAt != nil {
			t := *v.VerifiedAt
			rec.VerifiedAt = &t
		}
		if v.DocumentRef != nil {
			ref := *v.DocumentRef
			rec.DocumentRef = &ref
		}
		c.Sections[k] = rec
	}
	c.StatusHistory = append([]StatusChange(nil), a.StatusHistory...)
	if a.CreditBreakdown != nil {
		b := *a.CreditBreakdown
		b.ManualActivities = append([]ManualActivity(nil), a.CreditBreakdown.ManualActivities...)
		c.CreditBreakdown = &b
	}
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		c.SubmittedAt = &t
	}
	return &c
}

// SectionRequirement declares whether a job requires a given section type
// for submission.
type SectionRequirement struct {
	SectionType string `json:"section_type"`
	IsMandatory bool   `json:"is_mandatory"`
}

// JobConfig is the slice of job configuration the lifecycle engine consults:
// which sections the job requires, and display fields for receipts and
// notifications. Job CRUD itself is owned elsewhere.
type JobConfig struct {
	ID               uuid.UUID            `json:"id"`
	Title            string               `json:"title"`
	Department       string               `json:"department,omitempty"`
	RequiredSections []SectionRequirement `json:"required_sections"`
}

// MandatorySections returns the section types the job marks mandatory.
func (j JobConfig) MandatorySections() []string {
	var out []string
	for _, req := range j.RequiredSections {
		if req.IsMandatory {
			out = append(out, req.SectionType)
		}
	}
	return out
}
