package domain

import "time"

const DefaultRole = "user"

type Account struct {
	ID             string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	EmailConfirmed bool
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Set and cleared together.
	PasswordResetToken     string
	PasswordResetExpiresAt *time.Time
}

// PublicAccount is the projection handed to callers. It never carries the
// password hash or reset state.
type PublicAccount struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	EmailConfirmed bool
	Role           string
}

func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:             a.ID,
		Email:          a.Email,
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		EmailConfirmed: a.EmailConfirmed,
		Role:           a.Role,
	}
}

type AccountState string

const (
	AccountStateUnverified         AccountState = "unverified"
	AccountStateVerifiedNoPassword AccountState = "verified_no_password"
	AccountStateActive             AccountState = "active"
)

func (a Account) State() AccountState {
	switch {
	case !a.EmailConfirmed:
		return AccountStateUnverified
	case a.PasswordHash == "":
		return AccountStateVerifiedNoPassword
	default:
		return AccountStateActive
	}
}

func (a Account) HasResetToken() bool {
	return a.PasswordResetToken != "" && a.PasswordResetExpiresAt != nil
}

func (a Account) WithResetToken(token string, expiresAt time.Time) Account {
	a.PasswordResetToken = token
	a.PasswordResetExpiresAt = &expiresAt
	return a
}

func (a Account) WithoutResetToken() Account {
	a.PasswordResetToken = ""
	a.PasswordResetExpiresAt = nil
	return a
}

// AccountUpdate is a partial update: nil fields leave the account untouched.
type AccountUpdate struct {
	FirstName      *string
	LastName       *string
	Email          *string
	EmailConfirmed *bool
}

func (u AccountUpdate) Apply(a Account) Account {
	out := a
	if u.FirstName != nil {
		out.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		out.LastName = *u.LastName
	}
	if u.Email != nil {
		out.Email = *u.Email
	}
	if u.EmailConfirmed != nil {
		out.EmailConfirmed = *u.EmailConfirmed
	}
	return out
}

type VerificationCode struct {
	ID        string
	AccountID string
	Code      string
	CreatedAt time.Time
}
