package types

// SponsoredProjectsBreakdown holds the weighted buckets for sponsored
// research projects. Bucket values are points, not item counts.
type SponsoredProjectsBreakdown struct {
	OnlyPI int `json:"only_pi"`    // sole principal investigator, 5 pts each
	AsPI   int `json:"as_pi"`      // PI with co-investigators, 4 pts each
	AsCoPI int `json:"as_co_pi"`   // co-investigator, 2 pts each
	Total  int `json:"total"`
}

// ConsultancyBreakdown holds the consultancy bucket: projects at or above
// the qualifying amount earn a flat 3 pts each.
type ConsultancyBreakdown struct {
	QualifyingCount int `json:"qualifying_count"`
	Total           int `json:"total"`
}

// PhDCompletedBreakdown holds the buckets for awarded PhD supervision.
type PhDCompletedBreakdown struct {
	SoleSupervisor  int `json:"sole_supervisor"`  // first supervisor, no co-supervisors, 10 pts each
	FirstSupervisor int `json:"first_supervisor"` // first supervisor with co-supervisors, 7 pts each
	CoSupervisor    int `json:"co_supervisor"`    // co-supervisor, 3 pts each
	Total           int `json:"total"`
}

// JournalPapersBreakdown holds the buckets for unpaid SCI/Scopus journal
// papers, weighted by authorship position and author count.
type JournalPapersBreakdown struct {
	FirstAuthor int `json:"first_author"`
	CoAuthor    int `json:"co_author"`
	Total       int `json:"total"`
}

// PatentsBreakdown holds the buckets for granted patents.
type PatentsBreakdown struct {
	OnlyInventor int `json:"only_inventor"` // sole principal inventor, 10 pts each
	AsInventor   int `json:"as_inventor"`   // principal inventor with co-inventors, 7 pts each
	AsCoInventor int `json:"as_co_inventor"` // co-inventor, 3 pts each
	Total        int `json:"total"`
}

// ManualActivity is a self-claimed credit entry for activity categories the
// engine has no automatic rule for. Claimed points are summed as-is; there
// is no server-side cap.
type ManualActivity struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	ClaimedPoints float64 `json:"claimed_points"`
}

// CreditPointsBreakdown is the derived credit score for an application.
// It is owned by the lifecycle engine: recomputed from section data on
// every relevant write, never accepted from client input.
type CreditPointsBreakdown struct {
	SponsoredProjects SponsoredProjectsBreakdown `json:"sponsored_projects"`
	Patents           PatentsBreakdown           `json:"patents"`
	Consultancy       ConsultancyBreakdown       `json:"consultancy"`
	PhDCompleted      PhDCompletedBreakdown      `json:"phd_completed"`
	JournalPapers     JournalPapersBreakdown     `json:"journal_papers"`

	AutoTotal        int              `json:"auto_total"`
	ManualActivities []ManualActivity `json:"manual_activities,omitempty"`
	ManualTotal      float64          `json:"manual_total"`
	GrandTotal       float64          `json:"grand_total"`
}
