package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"InfiniteDbAccounts/internal/auth"
	"InfiniteDbAccounts/internal/domain"

	"github.com/google/uuid"
)

const DefaultResetTokenTTL = 24 * time.Hour

const (
	msgCodeSent          = "Verification code sent."
	msgEmailConfirmed    = "Email confirmed."
	msgRegistered        = "Registration complete."
	msgLoginOK           = "Login successful."
	msgAccountRetrieved  = "Account retrieved successfully."
	msgCodeRequested     = "New email confirmation code requested."
	msgUserUpdated       = "User updated successfully."
	msgResetLinkMaybe    = "If your email is registered, a password reset link will be sent."
	msgPasswordReset     = "Password has been reset successfully."
	msgAccountDeleted    = "Account deleted."
	msgEmailRequired     = "Email is required."
	msgAccountExists     = "Account already exists."
	msgEmailCodeRequired = "Email and code are required."
	msgUserNotFound      = "User not found."
	msgInvalidCode       = "Invalid verification code."
	msgEmailPassRequired = "Email and password are required."
	msgEmailUnconfirmed  = "Email not confirmed."
	msgAlreadyRegistered = "Registration already completed."
	msgCredsRequired     = "Email and password must be provided."
	msgInvalidCreds      = "Invalid credentials."
	msgInvalidBody       = "Invalid request body."
	msgResetRequired     = "Email, token, and new password are required."
	msgResetFailed       = "Password reset failed."
	msgInvalidResetToken = "Invalid password reset token"
)

// AccountService runs the account workflows: registration, email confirmation,
// credential checks, profile updates, password reset and deletion. Each call
// validates locally, then talks to the stores, then notifies. It keeps no state
// between calls and is safe for concurrent use.
type AccountService struct {
	Accounts      AccountsStore
	Codes         VerificationCodesStore
	Notifier      Notifier
	Generator     CodeGenerator
	Policy        auth.PasswordPolicy
	ResetTokenTTL time.Duration
	Logger        *slog.Logger
	Now           func() time.Time
}

// StartRegistration creates an unconfirmed account without a password and
// sends it a confirmation code.
func (s *AccountService) StartRegistration(ctx context.Context, email string) Result {
	email = normalizeEmail(email)
	if email == "" {
		return failure(domain.ErrInvalidInput, msgEmailRequired)
	}

	_, err := s.Accounts.GetAccountByEmail(ctx, email)
	switch {
	case err == nil:
		return failure(domain.ErrConflict, msgAccountExists)
	case !errors.Is(err, domain.ErrNotFound):
		return upstream(err)
	}

	now := s.now()
	acc, err := s.Accounts.CreateAccount(ctx, domain.Account{
		Email:     email,
		Role:      domain.DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// A concurrent registration won the unique constraint.
		if errors.Is(err, domain.ErrConflict) {
			return failure(domain.ErrConflict, msgAccountExists)
		}
		return upstream(err)
	}

	code, err := s.issueCode(ctx, acc)
	if err != nil {
		return upstreamFor(err, acc)
	}
	if err := s.notifier().VerificationCodeSent(ctx, acc, code); err != nil {
		return upstreamFor(err, acc)
	}

	s.logger().InfoContext(ctx, "registration started", "account_id", acc.ID)
	return success(msgCodeSent, &acc)
}

func (s *AccountService) ConfirmEmailCode(ctx context.Context, email, code string) Result {
	email = normalizeEmail(email)
	if email == "" || code == "" {
		return failure(domain.ErrInvalidInput, msgEmailCodeRequired)
	}

	acc, res, ok := s.lookupByEmail(ctx, email)
	if !ok {
		return res
	}

	saved, err := s.Codes.GetVerificationCode(ctx, acc.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(domain.ErrInvalidCode, msgInvalidCode)
		}
		return upstream(err)
	}
	if subtle.ConstantTimeCompare([]byte(saved.Code), []byte(code)) != 1 {
		return failure(domain.ErrInvalidCode, msgInvalidCode)
	}

	acc.EmailConfirmed = true
	acc.UpdatedAt = s.now()
	acc, err = s.Accounts.UpdateAccount(ctx, acc)
	if err != nil {
		return upstream(err)
	}
	if err := s.Codes.DeleteVerificationCodes(ctx, acc.ID); err != nil {
		s.logger().WarnContext(ctx, "clear verification codes failed", "account_id", acc.ID, "err", err)
	}

	return success(msgEmailConfirmed, &acc)
}

// CompleteRegistration sets the first password on a confirmed account.
func (s *AccountService) CompleteRegistration(ctx context.Context, email, password string) Result {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return failure(domain.ErrInvalidInput, msgEmailPassRequired)
	}
	if v := s.policy().Validate(password); !v.OK {
		return failure(domain.ErrPolicyViolation, v.Message)
	}

	acc, res, ok := s.lookupByEmail(ctx, email)
	if !ok {
		return res
	}
	switch acc.State() {
	case domain.AccountStateUnverified:
		return failure(domain.ErrUnconfirmed, msgEmailUnconfirmed)
	case domain.AccountStateActive:
		return failure(domain.ErrConflict, msgAlreadyRegistered)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return upstream(err)
	}
	acc.PasswordHash = hash
	acc.UpdatedAt = s.now()
	acc, err = s.Accounts.UpdateAccount(ctx, acc)
	if err != nil {
		return upstream(err)
	}
	if err := s.notifier().AccountCreated(ctx, acc); err != nil {
		return upstream(err)
	}

	s.logger().InfoContext(ctx, "registration completed", "account_id", acc.ID)
	return success(msgRegistered, &acc)
}

// ValidateCredentials answers a missing account and a wrong password with the
// same message. A correct password on an unconfirmed account is reported as
// such.
func (s *AccountService) ValidateCredentials(ctx context.Context, email, password string) Result {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return failure(domain.ErrInvalidInput, msgCredsRequired)
	}

	acc, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(domain.ErrInvalidCredentials, msgInvalidCreds)
		}
		return upstream(err)
	}

	ok, err := auth.VerifyPassword(acc.PasswordHash, password)
	if err != nil {
		if errors.Is(err, auth.ErrNoPassword) {
			return failure(domain.ErrInvalidCredentials, msgInvalidCreds)
		}
		return upstream(err)
	}
	if !ok {
		return failure(domain.ErrInvalidCredentials, msgInvalidCreds)
	}
	if !acc.EmailConfirmed {
		return failure(domain.ErrUnconfirmed, msgEmailUnconfirmed)
	}

	return success(msgLoginOK, &acc)
}

func (s *AccountService) GetAccountByID(ctx context.Context, id string) Result {
	acc, res, ok := s.lookupByID(ctx, id)
	if !ok {
		return res
	}
	return success(msgAccountRetrieved, &acc)
}

func (s *AccountService) GetAccountByEmail(ctx context.Context, email string) Result {
	email = normalizeEmail(email)
	if email == "" {
		return failure(domain.ErrInvalidInput, msgEmailRequired)
	}
	acc, res, ok := s.lookupByEmail(ctx, email)
	if !ok {
		return res
	}
	return success(msgAccountRetrieved, &acc)
}

// GenerateNewConfirmationCode replaces the outstanding code, so earlier codes
// stop working.
func (s *AccountService) GenerateNewConfirmationCode(ctx context.Context, id string) Result {
	acc, res, ok := s.lookupByID(ctx, id)
	if !ok {
		return res
	}

	code, err := s.issueCode(ctx, acc)
	if err != nil {
		return upstream(err)
	}
	if err := s.notifier().VerificationCodeRequested(ctx, acc, code); err != nil {
		return upstream(err)
	}
	return success(msgCodeRequested, &acc)
}

// UpdateUser merges the non-nil fields of upd into the stored account.
func (s *AccountService) UpdateUser(ctx context.Context, id string, upd *domain.AccountUpdate) Result {
	if upd == nil {
		return failure(domain.ErrInvalidInput, msgInvalidBody)
	}
	merge := *upd
	if merge.Email != nil {
		email := normalizeEmail(*merge.Email)
		if email == "" {
			return failure(domain.ErrInvalidInput, msgEmailRequired)
		}
		merge.Email = &email
	}

	acc, res, ok := s.lookupByID(ctx, id)
	if !ok {
		return res
	}

	next := merge.Apply(acc)
	next.UpdatedAt = s.now()
	next, err := s.Accounts.UpdateAccount(ctx, next)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return failure(domain.ErrConflict, msgAccountExists)
		case errors.Is(err, domain.ErrNotFound):
			return failure(domain.ErrNotFound, msgUserNotFound)
		}
		return upstream(err)
	}
	return success(msgUserUpdated, &next)
}

// ForgotPassword reports the same success whether or not the email belongs to
// a confirmed account. Only confirmed accounts get a token and a notification.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) Result {
	email = normalizeEmail(email)
	if email == "" {
		return failure(domain.ErrInvalidInput, msgEmailRequired)
	}
	generic := success(msgResetLinkMaybe, nil)

	acc, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return generic
		}
		return upstream(err)
	}
	if !acc.EmailConfirmed {
		return generic
	}

	log := s.logger().With("account_id", acc.ID)
	token, err := s.generator().ResetToken()
	if err != nil {
		log.ErrorContext(ctx, "reset token generation failed", "err", err)
		return generic
	}
	acc = acc.WithResetToken(token, s.now().Add(s.resetTTL()))
	acc.UpdatedAt = s.now()
	acc, err = s.Accounts.UpdateAccount(ctx, acc)
	if err != nil {
		log.ErrorContext(ctx, "store reset token failed", "err", err)
		return generic
	}
	if err := s.notifier().PasswordResetRequested(ctx, acc, token); err != nil {
		log.ErrorContext(ctx, "reset notification failed", "err", err)
		return generic
	}

	log.InfoContext(ctx, "password reset requested")
	return generic
}

// ResetPassword requires the stored token to match and to carry an expiry
// that has not passed. Any failure leaves the password hash untouched.
func (s *AccountService) ResetPassword(ctx context.Context, email, token, newPassword string) Result {
	email = normalizeEmail(email)
	if email == "" || token == "" || newPassword == "" {
		return failure(domain.ErrInvalidInput, msgResetRequired)
	}
	if v := s.policy().Validate(newPassword); !v.OK {
		return failure(domain.ErrPolicyViolation, v.Message)
	}

	acc, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(domain.ErrInvalidToken, msgResetFailed)
		}
		return upstream(err)
	}
	if !resetTokenValid(acc, token, s.now()) {
		return failure(domain.ErrInvalidToken, msgInvalidResetToken)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return upstream(err)
	}
	acc = acc.WithoutResetToken()
	acc.PasswordHash = hash
	acc.UpdatedAt = s.now()
	if _, err := s.Accounts.UpdateAccount(ctx, acc); err != nil {
		return upstream(err)
	}

	s.logger().InfoContext(ctx, "password reset", "account_id", acc.ID)
	return success(msgPasswordReset, nil)
}

func (s *AccountService) DeleteAccount(ctx context.Context, id string) Result {
	if _, err := uuid.Parse(id); err != nil {
		return failure(domain.ErrNotFound, msgUserNotFound)
	}

	acc, err := s.Accounts.DeleteAccount(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failure(domain.ErrNotFound, msgUserNotFound)
		}
		return upstream(err)
	}
	if err := s.notifier().AccountDeleted(ctx, acc); err != nil {
		return upstream(err)
	}

	s.logger().InfoContext(ctx, "account deleted", "account_id", acc.ID)
	return success(msgAccountDeleted, &acc)
}

func resetTokenValid(acc domain.Account, token string, now time.Time) bool {
	if acc.PasswordResetToken == "" || acc.PasswordResetExpiresAt == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(acc.PasswordResetToken), []byte(token)) != 1 {
		return false
	}
	return !acc.PasswordResetExpiresAt.Before(now)
}

// issueCode stores a fresh code for acc, replacing the previous one.
func (s *AccountService) issueCode(ctx context.Context, acc domain.Account) (string, error) {
	code, err := s.generator().ConfirmationCode()
	if err != nil {
		return "", err
	}
	err = s.Codes.SaveVerificationCode(ctx, domain.VerificationCode{
		AccountID: acc.ID,
		Code:      code,
		CreatedAt: s.now(),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *AccountService) lookupByEmail(ctx context.Context, email string) (domain.Account, Result, bool) {
	acc, err := s.Accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, failure(domain.ErrNotFound, msgUserNotFound), false
		}
		return domain.Account{}, upstream(err), false
	}
	return acc, Result{}, true
}

// lookupByID treats identifiers that are not UUIDs as unknown accounts.
func (s *AccountService) lookupByID(ctx context.Context, id string) (domain.Account, Result, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Account{}, failure(domain.ErrNotFound, msgUserNotFound), false
	}
	acc, err := s.Accounts.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Account{}, failure(domain.ErrNotFound, msgUserNotFound), false
		}
		return domain.Account{}, upstream(err), false
	}
	return acc, Result{}, true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AccountService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *AccountService) resetTTL() time.Duration {
	if s.ResetTokenTTL <= 0 {
		return DefaultResetTokenTTL
	}
	return s.ResetTokenTTL
}

func (s *AccountService) policy() auth.PasswordPolicy {
	if s.Policy == (auth.PasswordPolicy{}) {
		return auth.DefaultPasswordPolicy()
	}
	return s.Policy
}

func (s *AccountService) generator() CodeGenerator {
	if s.Generator == nil {
		return auth.NewGenerator(nil)
	}
	return s.Generator
}

func (s *AccountService) notifier() Notifier {
	if s.Notifier == nil {
		return nopNotifier{}
	}
	return s.Notifier
}

func (s *AccountService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

type nopNotifier struct{}

func (nopNotifier) VerificationCodeSent(context.Context, domain.Account, string) error      { return nil }
func (nopNotifier) VerificationCodeRequested(context.Context, domain.Account, string) error { return nil }
func (nopNotifier) AccountCreated(context.Context, domain.Account) error                    { return nil }
func (nopNotifier) PasswordResetRequested(context.Context, domain.Account, string) error    { return nil }
func (nopNotifier) AccountDeleted(context.Context, domain.Account) error                    { return nil }
