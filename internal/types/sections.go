package types

// Item shapes for the section payloads the credit engine consumes. Sections
// are stored as opaque JSON; these types are only used on the scoring read
// path, where unknown or missing fields decode to their zero values and
// simply fail to qualify.

// PhD supervision and patent item states the rubric recognizes. Items in any
// other state are excluded from scoring entirely.
const (
	PhDStatusAwarded    = "Awarded"
	PatentStatusGranted = "Granted"
)

// JournalTypeSCIScopus is the only journal classification that earns points.
const JournalTypeSCIScopus = "SCI / Scopus Journals"

// ConsultancyQualifyingAmount is the minimum project amount, in the same
// currency unit as the payload, for a consultancy project to earn points.
const ConsultancyQualifyingAmount = 500000

// SponsoredProjectItem is one entry in the sponsored_projects section.
type SponsoredProjectItem struct {
	Title                   string `json:"title,omitempty"`
	FundingAgency           string `json:"funding_agency,omitempty"`
	IsPrincipalInvestigator bool   `json:"is_principal_investigator"`
	CoInvestigatorCount     int    `json:"co_investigator_count"`
}

// ConsultancyProjectItem is one entry in the consultancy_projects section.
type ConsultancyProjectItem struct {
	Title        string  `json:"title,omitempty"`
	Organization string  `json:"organization,omitempty"`
	Amount       float64 `json:"amount"`
}

// PhDSupervisionItem is one entry in the phd_supervision section.
type PhDSupervisionItem struct {
	ScholarName       string `json:"scholar_name,omitempty"`
	Status            string `json:"status"`
	IsFirstSupervisor bool   `json:"is_first_supervisor"`
	CoSupervisorCount int    `json:"co_supervisor_count"`
}

// JournalPaperItem is one entry in the publications_journal section.
type JournalPaperItem struct {
	Title         string `json:"title,omitempty"`
	JournalName   string `json:"journal_name,omitempty"`
	JournalType   string `json:"journal_type"`
	IsPaidJournal bool   `json:"is_paid_journal"`
	IsFirstAuthor bool   `json:"is_first_author"`
	CoAuthorCount int    `json:"co_author_count"`
}

// PatentItem is one entry in the patents section.
type PatentItem struct {
	Title               string `json:"title,omitempty"`
	Status              string `json:"status"`
	IsPrincipalInventor bool   `json:"is_principal_inventor"`
	CoInventorCount     int    `json:"co_inventor_count"`
}

// CreditPointsPayload is the applicant-editable part of the credit_points
// section: the manual activity claims. Any auto-derived numbers a client
// sends alongside are ignored and overwritten by the engine.
type CreditPointsPayload struct {
	ManualActivities []ManualActivity `json:"manual_activities"`
}

// DeclarationPayload is the declaration section. Submission requires an
// explicit agreement.
type DeclarationPayload struct {
	Agreed bool   `json:"agreed"`
	Place  string `json:"place,omitempty"`
	Date   string `json:"date,omitempty"`
}
