// Package scoring derives the credit-point breakdown for an application from
// its structured sections. The engine is pure: same inputs, same breakdown,
// no I/O, no clock, no hidden state. Malformed items never raise; anything
// that does not decode into a recognized shape simply fails to qualify.
package scoring

import (
	"encoding/json"
	"math"

	"github.com/campushire/faculty-portal/internal/types"
)

// Rubric weights, points per item.
const (
	ptsSolePrincipalInvestigator = 5
	ptsPIWithCoInvestigators     = 4
	ptsCoInvestigator            = 2

	ptsQualifyingConsultancy = 3

	ptsSoleSupervisor        = 10
	ptsFirstSupervisorWithCo = 7
	ptsCoSupervisor          = 3

	ptsFirstAuthorSolo = 7
	ptsFirstAuthorPair = 6
	ptsFirstAuthorMany = 5
	ptsCoAuthorPair    = 3
	ptsCoAuthorMany    = 2

	ptsSoleInventor            = 10
	ptsPrincipalInventorWithCo = 7
	ptsCoInventor              = 3
)

// Input carries the decoded section lists and manual claims the engine reads.
type Input struct {
	SponsoredProjects   []types.SponsoredProjectItem
	ConsultancyProjects []types.ConsultancyProjectItem
	PhDSupervision      []types.PhDSupervisionItem
	JournalPapers       []types.JournalPaperItem
	Patents             []types.PatentItem
	ManualActivities    []types.ManualActivity
}

// Compute applies the rubric to the input and returns the full breakdown.
func Compute(in Input) types.CreditPointsBreakdown {
	b := types.CreditPointsBreakdown{
		SponsoredProjects: scoreSponsoredProjects(in.SponsoredProjects),
		Patents:           scorePatents(in.Patents),
		Consultancy:       scoreConsultancy(in.ConsultancyProjects),
		PhDCompleted:      scorePhDSupervision(in.PhDSupervision),
		JournalPapers:     scoreJournalPapers(in.JournalPapers),
		ManualActivities:  in.ManualActivities,
	}
	b.AutoTotal = b.SponsoredProjects.Total +
		b.Patents.Total +
		b.Consultancy.Total +
		b.PhDCompleted.Total +
		b.JournalPapers.Total
	for _, act := range in.ManualActivities {
		b.ManualTotal += act.ClaimedPoints
	}
	b.GrandTotal = float64(b.AutoTotal) + b.ManualTotal
	return b
}

func scoreSponsoredProjects(items []types.SponsoredProjectItem) types.SponsoredProjectsBreakdown {
	var b types.SponsoredProjectsBreakdown
	for _, item := range items {
		switch {
		case item.IsPrincipalInvestigator && item.CoInvestigatorCount == 0:
			b.OnlyPI += ptsSolePrincipalInvestigator
		case item.IsPrincipalInvestigator:
			b.AsPI += ptsPIWithCoInvestigators
		default:
			b.AsCoPI += ptsCoInvestigator
		}
	}
	b.Total = b.OnlyPI + b.AsPI + b.AsCoPI
	return b
}

func scoreConsultancy(items []types.ConsultancyProjectItem) types.ConsultancyBreakdown {
	var b types.ConsultancyBreakdown
	for _, item := range items {
		if item.Amount >= types.ConsultancyQualifyingAmount {
			b.QualifyingCount++
		}
	}
	b.Total = b.QualifyingCount * ptsQualifyingConsultancy
	return b
}

func scorePhDSupervision(items []types.PhDSupervisionItem) types.PhDCompletedBreakdown {
	var b types.PhDCompletedBreakdown
	for _, item := range items {
		// Only awarded degrees count; ongoing or discontinued supervision
		// does not enter any bucket.
		if item.Status != types.PhDStatusAwarded {
			continue
		}
		switch {
		case item.IsFirstSupervisor && item.CoSupervisorCount == 0:
			b.SoleSupervisor += ptsSoleSupervisor
		case item.IsFirstSupervisor:
			b.FirstSupervisor += ptsFirstSupervisorWithCo
		default:
			b.CoSupervisor += ptsCoSupervisor
		}
	}
	b.Total = b.SoleSupervisor + b.FirstSupervisor + b.CoSupervisor
	return b
}

func scoreJournalPapers(items []types.JournalPaperItem) types.JournalPapersBreakdown {
	var b types.JournalPapersBreakdown
	for _, item := range items {
		if item.JournalType != types.JournalTypeSCIScopus || item.IsPaidJournal {
			continue
		}
		totalAuthors := item.CoAuthorCount + 1
		if item.IsFirstAuthor {
			switch {
			case totalAuthors == 1:
				b.FirstAuthor += ptsFirstAuthorSolo
			case totalAuthors == 2:
				b.FirstAuthor += ptsFirstAuthorPair
			default:
				b.FirstAuthor += ptsFirstAuthorMany
			}
		} else {
			// A co-author implies at least two authors; a claimed
			// totalAuthors of 1 is malformed and falls into the lowest
			// bucket rather than erroring.
			if totalAuthors == 2 {
				b.CoAuthor += ptsCoAuthorPair
			} else {
				b.CoAuthor += ptsCoAuthorMany
			}
		}
	}
	b.Total = b.FirstAuthor + b.CoAuthor
	return b
}

func scorePatents(items []types.PatentItem) types.PatentsBreakdown {
	var b types.PatentsBreakdown
	for _, item := range items {
		if item.Status != types.PatentStatusGranted {
			continue
		}
		switch {
		case item.IsPrincipalInventor && item.CoInventorCount == 0:
			b.OnlyInventor += ptsSoleInventor
		case item.IsPrincipalInventor:
			b.AsInventor += ptsPrincipalInventorWithCo
		default:
			b.AsCoInventor += ptsCoInventor
		}
	}
	b.Total = b.OnlyInventor + b.AsInventor + b.AsCoInventor
	return b
}

// InputFromSections builds the engine input from an application's raw
// section map. Sections that are absent or fail to decode contribute empty
// lists; individual items that fail to decode are skipped.
func InputFromSections(sections map[string]types.SectionRecord) Input {
	var in Input
	forEachItem(sections, types.SectionSponsoredProjects, func(raw json.RawMessage) {
		var item types.SponsoredProjectItem
		if json.Unmarshal(raw, &item) == nil {
			in.SponsoredProjects = append(in.SponsoredProjects, item)
		}
	})
	forEachItem(sections, types.SectionConsultancyProjects, func(raw json.RawMessage) {
		var item types.ConsultancyProjectItem
		if json.Unmarshal(raw, &item) == nil && !math.IsNaN(item.Amount) {
			in.ConsultancyProjects = append(in.ConsultancyProjects, item)
		}
	})
	forEachItem(sections, types.SectionPhDSupervision, func(raw json.RawMessage) {
		var item types.PhDSupervisionItem
		if json.Unmarshal(raw, &item) == nil {
			in.PhDSupervision = append(in.PhDSupervision, item)
		}
	})
	forEachItem(sections, types.SectionJournalPapers, func(raw json.RawMessage) {
		var item types.JournalPaperItem
		if json.Unmarshal(raw, &item) == nil {
			in.JournalPapers = append(in.JournalPapers, item)
		}
	})
	forEachItem(sections, types.SectionPatents, func(raw json.RawMessage) {
		var item types.PatentItem
		if json.Unmarshal(raw, &item) == nil {
			in.Patents = append(in.Patents, item)
		}
	})
	in.ManualActivities = decodeManualActivities(sections)
	return in
}

// forEachItem iterates the items of a list-shaped section. The payload may
// be a bare JSON array or an object with an "items" array.
func forEachItem(sections map[string]types.SectionRecord, sectionType string, fn func(json.RawMessage)) {
	rec, ok := sections[sectionType]
	if !ok || len(rec.Data) == 0 {
		return
	}
	items := decodeItemList(rec.Data)
	for _, raw := range items {
		fn(raw)
	}
}

func decodeItemList(data json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return items
	}
	var wrapper struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		return wrapper.Items
	}
	return nil
}

func decodeManualActivities(sections map[string]types.SectionRecord) []types.ManualActivity {
	rec, ok := sections[types.SectionCreditPoints]
	if !ok || len(rec.Data) == 0 {
		return nil
	}
	var payload types.CreditPointsPayload
	if err := json.Unmarshal(rec.Data, &payload); err != nil {
		return nil
	}
	return payload.ManualActivities
}
