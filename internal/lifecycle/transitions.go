package lifecycle

import "github.com/campushire/faculty-portal/internal/types"

// transitions is the directed graph of legal status changes. Terminal
// states have no outgoing edges. Withdrawal is applicant-initiated and only
// legal from draft.
var transitions = map[types.Status][]types.Status{
	types.StatusDraft:       {types.StatusSubmitted, types.StatusWithdrawn},
	types.StatusSubmitted:   {types.StatusUnderReview},
	types.StatusUnderReview: {types.StatusShortlisted, types.StatusRejected, types.StatusSelected},
	types.StatusShortlisted: {types.StatusSelected, types.StatusRejected},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to types.Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
