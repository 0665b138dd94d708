// Package notify delivers submission confirmations to applicants.
package notify

import (
	"context"
	"log"

	"github.com/campushire/faculty-portal/internal/lifecycle"
)

// LogNotifier writes confirmations to the process log. It stands in for an
// SMTP or provider-backed sender in environments without outbound mail.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendApplicationConfirmation logs the confirmation that would be mailed.
func (n *LogNotifier) SendApplicationConfirmation(ctx context.Context, email string, info lifecycle.ConfirmationInfo) error {
	log.Printf("confirmation for %s: application %s to %s submitted",
		email, info.ApplicationNumber, info.JobTitle)
	return nil
}
