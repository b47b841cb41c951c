package notifications

import (
	"context"
	"time"

	"InfiniteDbAccounts/internal/domain"
)

const (
	EventVerificationCodeSent      = "VerificationCodeSent"
	EventVerificationCodeRequested = "VerificationCodeRequested"
	EventAccountCreated            = "AccountCreated"
	EventPasswordResetRequested    = "PasswordResetRequested"
	EventAccountDeleted            = "AccountDeleted"
)

// Dispatcher has one method per account occurrence that downstream systems
// care about. Implementations must be safe for concurrent use.
type Dispatcher interface {
	VerificationCodeSent(ctx context.Context, account domain.Account, code string) error
	VerificationCodeRequested(ctx context.Context, account domain.Account, code string) error
	AccountCreated(ctx context.Context, account domain.Account) error
	PasswordResetRequested(ctx context.Context, account domain.Account, token string) error
	AccountDeleted(ctx context.Context, account domain.Account) error
}

// Event is the queue payload. Field names match what the email worker
// consuming these queues already reads.
type Event struct {
	EventType  string    `json:"EventType"`
	UserID     string    `json:"UserId"`
	Email      string    `json:"Email,omitempty"`
	Code       string    `json:"Code,omitempty"`
	Token      string    `json:"Token,omitempty"`
	OccurredAt time.Time `json:"OccurredAt"`
}

func newEvent(eventType string, account domain.Account, now time.Time) Event {
	return Event{
		EventType:  eventType,
		UserID:     account.ID,
		Email:      account.Email,
		OccurredAt: now.UTC(),
	}
}
