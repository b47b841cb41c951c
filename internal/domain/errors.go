package domain

import (
	"errors"
)

var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrNotFound           = errors.New("not_found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnconfirmed        = errors.New("email_unconfirmed")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrPolicyViolation    = errors.New("policy_violation")
	ErrUpstream           = errors.New("upstream")
)

// Upstream comes first: a collaborator failure can itself wrap one of the
// other kinds and must still be reported as upstream.
var kinds = []error{
	ErrUpstream,
	ErrInvalidInput,
	ErrNotFound,
	ErrConflict,
	ErrInvalidCredentials,
	ErrUnconfirmed,
	ErrInvalidCode,
	ErrInvalidToken,
	ErrPolicyViolation,
}

// Kind returns the sentinel err wraps, or nil when it wraps none of them.
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindCode is the wire name of err's kind, "internal_error" for unclassified errors.
func KindCode(err error) string {
	if k := Kind(err); k != nil {
		return k.Error()
	}
	return "internal_error"
}
