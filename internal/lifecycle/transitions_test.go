package lifecycle

import (
	"testing"

	"github.com/campushire/faculty-portal/internal/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from types.Status
		to   types.Status
		want bool
	}{
		{types.StatusDraft, types.StatusSubmitted, true},
		{types.StatusDraft, types.StatusWithdrawn, true},
		{types.StatusDraft, types.StatusUnderReview, false},
		{types.StatusSubmitted, types.StatusUnderReview, true},
		{types.StatusSubmitted, types.StatusShortlisted, false},
		{types.StatusSubmitted, types.StatusWithdrawn, false},
		{types.StatusUnderReview, types.StatusShortlisted, true},
		{types.StatusUnderReview, types.StatusRejected, true},
		{types.StatusUnderReview, types.StatusSelected, true},
		{types.StatusUnderReview, types.StatusSubmitted, false},
		{types.StatusShortlisted, types.StatusSelected, true},
		{types.StatusShortlisted, types.StatusRejected, true},
		{types.StatusShortlisted, types.StatusUnderReview, false},
		// Terminal states have no outgoing edges.
		{types.StatusRejected, types.StatusUnderReview, false},
		{types.StatusSelected, types.StatusRejected, false},
		{types.StatusWithdrawn, types.StatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"→"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
