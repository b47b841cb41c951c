package service

import (
	"context"
	"sync"
	"testing"

	"InfiniteDbAccounts/internal/auth"
	"InfiniteDbAccounts/internal/domain"
	"InfiniteDbAccounts/internal/store/memory"
)

func newMemoryService(notifier *recordingNotifier) (*AccountService, *memory.Store) {
	store := memory.New()
	return &AccountService{
		Accounts:  store,
		Codes:     store,
		Notifier:  notifier,
		Generator: auth.NewGenerator(nil),
		Now:       fixedNow,
	}, store
}

func TestScenario_RegisterConfirmCompleteLogin(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)
	ctx := context.Background()

	expectSuccess(t, svc.StartRegistration(ctx, "a@x.com"), "Verification code sent.")
	code := notifier.last(t).secret
	if len(code) != 6 || code[0] == '0' {
		t.Fatalf("unexpected code %q", code)
	}

	expectSuccess(t, svc.ConfirmEmailCode(ctx, "a@x.com", code), "Email confirmed.")
	expectSuccess(t, svc.CompleteRegistration(ctx, "a@x.com", "Str0ngP@ss"), "Registration complete.")
	if n := notifier.last(t); n.event != "AccountCreated" {
		t.Fatalf("last notification = %s, want AccountCreated", n.event)
	}

	res := svc.ValidateCredentials(ctx, "a@x.com", "Str0ngP@ss")
	expectSuccess(t, res, "Login successful.")
	if res.Data == nil || !res.Data.EmailConfirmed || res.Data.Email != "a@x.com" {
		t.Fatalf("unexpected data %+v", res.Data)
	}
}

func TestScenario_ForgotThenResetPassword(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)
	ctx := context.Background()

	expectSuccess(t, svc.StartRegistration(ctx, "a@x.com"), "Verification code sent.")
	expectSuccess(t, svc.ConfirmEmailCode(ctx, "a@x.com", notifier.last(t).secret), "Email confirmed.")
	expectSuccess(t, svc.CompleteRegistration(ctx, "a@x.com", "Str0ngP@ss"), "Registration complete.")

	expectSuccess(t, svc.ForgotPassword(ctx, "a@x.com"), "If your email is registered, a password reset link will be sent.")
	sent := notifier.last(t)
	if sent.event != "PasswordResetRequested" || sent.secret == "" {
		t.Fatalf("unexpected notification %+v", sent)
	}

	expectSuccess(t, svc.ResetPassword(ctx, "a@x.com", sent.secret, "NewStr0ng1"), "Password has been reset successfully.")
	expectFailure(t, svc.ResetPassword(ctx, "a@x.com", sent.secret, "NewStr0ng1"), domain.ErrInvalidToken, "Invalid password reset token")

	expectSuccess(t, svc.ValidateCredentials(ctx, "a@x.com", "NewStr0ng1"), "Login successful.")
	expectFailure(t, svc.ValidateCredentials(ctx, "a@x.com", "Str0ngP@ss"), domain.ErrInvalidCredentials, "Invalid credentials.")
}

func TestScenario_DuplicateRegistrationNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)
	ctx := context.Background()

	expectSuccess(t, svc.StartRegistration(ctx, "a@x.com"), "Verification code sent.")
	expectFailure(t, svc.StartRegistration(ctx, "A@x.com"), domain.ErrConflict, "Account already exists.")
	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.count())
	}
}

func TestScenario_ConcurrentRegistrationSingleWinner(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)

	const n = 16
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.StartRegistration(context.Background(), "race@x.com")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, r := range results {
		if r.Succeeded {
			wins++
			continue
		}
		expectFailure(t, r, domain.ErrConflict, "Account already exists.")
	}
	if wins != 1 || notifier.count() != 1 {
		t.Fatalf("wins = %d, notifications = %d", wins, notifier.count())
	}
}

func TestScenario_NewCodeInvalidatesPrevious(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)
	svc.Generator = &sequenceGenerator{codes: []string{"111111", "222222"}}
	ctx := context.Background()

	res := svc.StartRegistration(ctx, "a@x.com")
	expectSuccess(t, res, "Verification code sent.")
	expectSuccess(t, svc.GenerateNewConfirmationCode(ctx, res.Data.ID), "New email confirmation code requested.")
	if n := notifier.last(t); n.event != "VerificationCodeRequested" || n.secret != "222222" {
		t.Fatalf("unexpected notification %+v", n)
	}

	expectFailure(t, svc.ConfirmEmailCode(ctx, "a@x.com", "111111"), domain.ErrInvalidCode, "Invalid verification code.")
	expectSuccess(t, svc.ConfirmEmailCode(ctx, "a@x.com", "222222"), "Email confirmed.")
	// Codes are single use.
	expectFailure(t, svc.ConfirmEmailCode(ctx, "a@x.com", "222222"), domain.ErrInvalidCode, "Invalid verification code.")
}

func TestScenario_ForgotPasswordSilentForUnknownAndUnconfirmed(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, store := newMemoryService(notifier)
	ctx := context.Background()

	if _, err := store.CreateAccount(ctx, domain.Account{Email: "pending@x.com"}); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	missing := svc.ForgotPassword(ctx, "nobody@x.com")
	pending := svc.ForgotPassword(ctx, "pending@x.com")
	expectSuccess(t, missing, "If your email is registered, a password reset link will be sent.")
	expectSuccess(t, pending, missing.Message)
	if notifier.count() != 0 {
		t.Fatalf("notifications = %d, want 0", notifier.count())
	}

	acc, err := store.GetAccountByEmail(ctx, "pending@x.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if acc.HasResetToken() {
		t.Fatalf("unconfirmed account received a reset token")
	}
}

func TestScenario_UpdateAndDelete(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newMemoryService(notifier)
	ctx := context.Background()

	res := svc.StartRegistration(ctx, "a@x.com")
	expectSuccess(t, res, "Verification code sent.")
	id := res.Data.ID

	first := "Ada"
	upd := svc.UpdateUser(ctx, id, &domain.AccountUpdate{FirstName: &first})
	expectSuccess(t, upd, "User updated successfully.")
	if upd.Data.FirstName != "Ada" || upd.Data.Email != "a@x.com" {
		t.Fatalf("unexpected data %+v", upd.Data)
	}

	newEmail := "ada@x.com"
	expectSuccess(t, svc.UpdateUser(ctx, id, &domain.AccountUpdate{Email: &newEmail}), "User updated successfully.")
	expectSuccess(t, svc.GetAccountByEmail(ctx, "ada@x.com"), "Account retrieved successfully.")
	expectFailure(t, svc.GetAccountByEmail(ctx, "a@x.com"), domain.ErrNotFound, "User not found.")

	expectSuccess(t, svc.DeleteAccount(ctx, id), "Account deleted.")
	if n := notifier.last(t); n.event != "AccountDeleted" || n.accountID != id {
		t.Fatalf("unexpected notification %+v", n)
	}
	expectFailure(t, svc.GetAccountByID(ctx, id), domain.ErrNotFound, "User not found.")
	expectFailure(t, svc.DeleteAccount(ctx, id), domain.ErrNotFound, "User not found.")
}
