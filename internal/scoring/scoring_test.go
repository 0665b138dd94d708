package scoring

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/campushire/faculty-portal/internal/types"
)

func TestScoreSponsoredProjects(t *testing.T) {
	items := []types.SponsoredProjectItem{
		{IsPrincipalInvestigator: true, CoInvestigatorCount: 0},
		{IsPrincipalInvestigator: true, CoInvestigatorCount: 2},
		{IsPrincipalInvestigator: false, CoInvestigatorCount: 1},
	}
	got := scoreSponsoredProjects(items)
	want := types.SponsoredProjectsBreakdown{OnlyPI: 5, AsPI: 4, AsCoPI: 2, Total: 11}
	if got != want {
		t.Errorf("scoreSponsoredProjects() = %+v, want %+v", got, want)
	}
}

func TestScoreConsultancy(t *testing.T) {
	items := []types.ConsultancyProjectItem{
		{Amount: 400000},
		{Amount: 500000},
		{Amount: 900000},
	}
	got := scoreConsultancy(items)
	want := types.ConsultancyBreakdown{QualifyingCount: 2, Total: 6}
	if got != want {
		t.Errorf("scoreConsultancy() = %+v, want %+v", got, want)
	}
}

func TestScorePhDSupervision(t *testing.T) {
	items := []types.PhDSupervisionItem{
		{Status: "Awarded", IsFirstSupervisor: true, CoSupervisorCount: 0},
		{Status: "Awarded", IsFirstSupervisor: true, CoSupervisorCount: 1},
		{Status: "Awarded", IsFirstSupervisor: false, CoSupervisorCount: 0},
		{Status: "Ongoing", IsFirstSupervisor: true, CoSupervisorCount: 0},
	}
	got := scorePhDSupervision(items)
	want := types.PhDCompletedBreakdown{SoleSupervisor: 10, FirstSupervisor: 7, CoSupervisor: 3, Total: 20}
	if got != want {
		t.Errorf("scorePhDSupervision() = %+v, want %+v", got, want)
	}
}

func TestScoreJournalPapers(t *testing.T) {
	items := []types.JournalPaperItem{
		{JournalType: types.JournalTypeSCIScopus, IsPaidJournal: false, IsFirstAuthor: true, CoAuthorCount: 0},
		{JournalType: types.JournalTypeSCIScopus, IsPaidJournal: false, IsFirstAuthor: false, CoAuthorCount: 1},
		{JournalType: types.JournalTypeSCIScopus, IsPaidJournal: true, IsFirstAuthor: true, CoAuthorCount: 0},
	}
	got := scoreJournalPapers(items)
	want := types.JournalPapersBreakdown{FirstAuthor: 7, CoAuthor: 3, Total: 10}
	if got != want {
		t.Errorf("scoreJournalPapers() = %+v, want %+v", got, want)
	}
}

func TestScoreJournalPapers_Buckets(t *testing.T) {
	sci := types.JournalTypeSCIScopus

	tests := []struct {
		name string
		item types.JournalPaperItem
		want types.JournalPapersBreakdown
	}{
		{
			"first author solo",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: true, CoAuthorCount: 0},
			types.JournalPapersBreakdown{FirstAuthor: 7, Total: 7},
		},
		{
			"first author of two",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: true, CoAuthorCount: 1},
			types.JournalPapersBreakdown{FirstAuthor: 6, Total: 6},
		},
		{
			"first author of many",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: true, CoAuthorCount: 4},
			types.JournalPapersBreakdown{FirstAuthor: 5, Total: 5},
		},
		{
			"co-author of two",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: false, CoAuthorCount: 1},
			types.JournalPapersBreakdown{CoAuthor: 3, Total: 3},
		},
		{
			"co-author of many",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: false, CoAuthorCount: 5},
			types.JournalPapersBreakdown{CoAuthor: 2, Total: 2},
		},
		{
			// A co-author claiming zero co-authors cannot occur by
			// construction; it falls into the lowest bucket.
			"co-author claiming solo authorship",
			types.JournalPaperItem{JournalType: sci, IsFirstAuthor: false, CoAuthorCount: 0},
			types.JournalPapersBreakdown{CoAuthor: 2, Total: 2},
		},
		{
			"paid journal excluded",
			types.JournalPaperItem{JournalType: sci, IsPaidJournal: true, IsFirstAuthor: true},
			types.JournalPapersBreakdown{},
		},
		{
			"non-SCI journal excluded",
			types.JournalPaperItem{JournalType: "Other Journals", IsFirstAuthor: true},
			types.JournalPapersBreakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreJournalPapers([]types.JournalPaperItem{tt.item})
			if got != tt.want {
				t.Errorf("scoreJournalPapers() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScorePatents(t *testing.T) {
	items := []types.PatentItem{
		{Status: "Granted", IsPrincipalInventor: true, CoInventorCount: 0},
		{Status: "Granted", IsPrincipalInventor: true, CoInventorCount: 2},
		{Status: "Granted", IsPrincipalInventor: false, CoInventorCount: 1},
		{Status: "Filed", IsPrincipalInventor: true, CoInventorCount: 0},
	}
	got := scorePatents(items)
	want := types.PatentsBreakdown{OnlyInventor: 10, AsInventor: 7, AsCoInventor: 3, Total: 20}
	if got != want {
		t.Errorf("scorePatents() = %+v, want %+v", got, want)
	}
}

func TestCompute_Totals(t *testing.T) {
	in := Input{
		SponsoredProjects: []types.SponsoredProjectItem{
			{IsPrincipalInvestigator: true},
		},
		ConsultancyProjects: []types.ConsultancyProjectItem{
			{Amount: 750000},
		},
		PhDSupervision: []types.PhDSupervisionItem{
			{Status: "Awarded", IsFirstSupervisor: true},
		},
		JournalPapers: []types.JournalPaperItem{
			{JournalType: types.JournalTypeSCIScopus, IsFirstAuthor: true, CoAuthorCount: 2},
		},
		Patents: []types.PatentItem{
			{Status: "Granted", IsPrincipalInventor: false},
		},
		ManualActivities: []types.ManualActivity{
			{ID: "m1", Description: "Conference organized", ClaimedPoints: 4},
			{ID: "m2", Description: "Workshop attended", ClaimedPoints: 1.5},
		},
	}

	got := Compute(in)

	// 5 + 3 + 10 + 5 + 3
	if got.AutoTotal != 26 {
		t.Errorf("AutoTotal = %d, want 26", got.AutoTotal)
	}
	if got.ManualTotal != 5.5 {
		t.Errorf("ManualTotal = %v, want 5.5", got.ManualTotal)
	}
	if got.GrandTotal != 31.5 {
		t.Errorf("GrandTotal = %v, want 31.5", got.GrandTotal)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	in := Input{
		SponsoredProjects: []types.SponsoredProjectItem{
			{IsPrincipalInvestigator: true, CoInvestigatorCount: 2},
			{IsPrincipalInvestigator: false},
		},
		Patents: []types.PatentItem{
			{Status: "Granted", IsPrincipalInventor: true, CoInventorCount: 1},
		},
		ManualActivities: []types.ManualActivity{
			{ID: "m1", ClaimedPoints: 2},
		},
	}

	first := Compute(in)
	second := Compute(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compute() is not deterministic: %+v vs %+v", first, second)
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	got := Compute(Input{})
	if got.AutoTotal != 0 || got.ManualTotal != 0 || got.GrandTotal != 0 {
		t.Errorf("Compute(empty) totals = %d/%v/%v, want all zero",
			got.AutoTotal, got.ManualTotal, got.GrandTotal)
	}
}

func TestInputFromSections(t *testing.T) {
	sections := map[string]types.SectionRecord{
		types.SectionSponsoredProjects: {
			Data: json.RawMessage(`[{"is_principal_investigator":true,"co_investigator_count":0}]`),
		},
		types.SectionPatents: {
			Data: json.RawMessage(`{"items":[{"status":"Granted","is_principal_inventor":true,"co_inventor_count":0}]}`),
		},
		types.SectionCreditPoints: {
			Data: json.RawMessage(`{"manual_activities":[{"id":"m1","description":"FDP","claimed_points":3}]}`),
		},
	}

	in := InputFromSections(sections)
	if len(in.SponsoredProjects) != 1 {
		t.Fatalf("SponsoredProjects = %d items, want 1", len(in.SponsoredProjects))
	}
	if len(in.Patents) != 1 {
		t.Fatalf("Patents = %d items, want 1", len(in.Patents))
	}
	if len(in.ManualActivities) != 1 || in.ManualActivities[0].ClaimedPoints != 3 {
		t.Fatalf("ManualActivities = %+v, want one claim of 3 points", in.ManualActivities)
	}

	got := Compute(in)
	if got.AutoTotal != 15 || got.GrandTotal != 18 {
		t.Errorf("Compute totals = %d/%v, want 15/18", got.AutoTotal, got.GrandTotal)
	}
}

func TestInputFromSections_Lenient(t *testing.T) {
	tests := []struct {
		name     string
		sections map[string]types.SectionRecord
	}{
		{"missing sections", map[string]types.SectionRecord{}},
		{"empty payload", map[string]types.SectionRecord{
			types.SectionPatents: {Data: json.RawMessage(``)},
		}},
		{"not a list", map[string]types.SectionRecord{
			types.SectionPatents: {Data: json.RawMessage(`"granted"`)},
		}},
		{"malformed JSON", map[string]types.SectionRecord{
			types.SectionJournalPapers: {Data: json.RawMessage(`{"items":[`)},
		}},
		{"manual activities with wrong shape", map[string]types.SectionRecord{
			types.SectionCreditPoints: {Data: json.RawMessage(`{"manual_activities":"lots"}`)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := InputFromSections(tt.sections)
			got := Compute(in)
			if got.GrandTotal != 0 {
				t.Errorf("GrandTotal = %v, want 0 for unscorable input", got.GrandTotal)
			}
		})
	}
}

func TestInputFromSections_SkipsMalformedItems(t *testing.T) {
	sections := map[string]types.SectionRecord{
		types.SectionPatents: {
			Data: json.RawMessage(`[
				{"status":"Granted","is_principal_inventor":true,"co_inventor_count":0},
				{"status":123,"is_principal_inventor":"yes"},
				{"status":"Granted","is_principal_inventor":false}
			]`),
		},
	}

	in := InputFromSections(sections)
	if len(in.Patents) != 2 {
		t.Fatalf("Patents = %d items, want 2 (malformed item skipped)", len(in.Patents))
	}
	got := Compute(in)
	if got.Patents.Total != 13 {
		t.Errorf("Patents.Total = %d, want 13", got.Patents.Total)
	}
}
