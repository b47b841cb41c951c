package service

import (
	"fmt"

	"InfiniteDbAccounts/internal/domain"
)

// Result is what every account operation returns. On failure Err wraps one of
// the domain error kinds and Message is safe to show to the caller.
type Result struct {
	Succeeded bool
	Message   string
	Data      *domain.PublicAccount
	Err       error
}

func success(message string, a *domain.Account) Result {
	r := Result{Succeeded: true, Message: message}
	if a != nil {
		pub := a.Public()
		r.Data = &pub
	}
	return r
}

func failure(kind error, message string) Result {
	return Result{Message: message, Err: fmt.Errorf("%w: %s", kind, message)}
}

// upstream passes a collaborator failure through with its own message.
func upstream(err error) Result {
	return Result{Message: err.Error(), Err: fmt.Errorf("%w: %w", domain.ErrUpstream, err)}
}

// upstreamFor is upstream for a failure that happened after a was persisted,
// so the caller still learns the account id and can ask for a new code.
func upstreamFor(err error, a domain.Account) Result {
	r := upstream(err)
	pub := a.Public()
	r.Data = &pub
	return r
}
