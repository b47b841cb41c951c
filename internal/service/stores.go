package service

import (
	"context"

	"InfiniteDbAccounts/internal/domain"
)

type AccountsStore interface {
	CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error)
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)
	UpdateAccount(ctx context.Context, a domain.Account) (domain.Account, error)
	DeleteAccount(ctx context.Context, id string) (domain.Account, error)
}

// VerificationCodesStore keeps at most one outstanding code per account.
// Saving a code replaces any earlier one.
type VerificationCodesStore interface {
	SaveVerificationCode(ctx context.Context, vc domain.VerificationCode) error
	GetVerificationCode(ctx context.Context, accountID string) (domain.VerificationCode, error)
	DeleteVerificationCodes(ctx context.Context, accountID string) error
}

// Notifier is satisfied by notifications.Dispatcher and its implementations.
type Notifier interface {
	VerificationCodeSent(ctx context.Context, account domain.Account, code string) error
	VerificationCodeRequested(ctx context.Context, account domain.Account, code string) error
	AccountCreated(ctx context.Context, account domain.Account) error
	PasswordResetRequested(ctx context.Context, account domain.Account, token string) error
	AccountDeleted(ctx context.Context, account domain.Account) error
}

type CodeGenerator interface {
	ConfirmationCode() (string, error)
	ResetToken() (string, error)
}
