package notifications

import (
	"context"
	"fmt"

	"InfiniteDbAccounts/internal/domain"
	"InfiniteDbAccounts/internal/email"
)

const DefaultResetURL = "https://infinitedb/reset"

// EmailDispatcher renders the account emails and hands them to Sender.
type EmailDispatcher struct {
	Sender    email.Sender
	FromEmail string
	FromName  string
	ResetURL  string
}

func (d *EmailDispatcher) VerificationCodeSent(ctx context.Context, account domain.Account, code string) error {
	c, err := email.VerificationEmail(code)
	if err != nil {
		return err
	}
	return d.send(ctx, account, c)
}

func (d *EmailDispatcher) VerificationCodeRequested(ctx context.Context, account domain.Account, code string) error {
	return d.VerificationCodeSent(ctx, account, code)
}

func (d *EmailDispatcher) AccountCreated(ctx context.Context, account domain.Account) error {
	c, err := email.WelcomeEmail()
	if err != nil {
		return err
	}
	return d.send(ctx, account, c)
}

func (d *EmailDispatcher) PasswordResetRequested(ctx context.Context, account domain.Account, token string) error {
	resetURL := d.ResetURL
	if resetURL == "" {
		resetURL = DefaultResetURL
	}
	c, err := email.PasswordResetEmail(resetURL, token)
	if err != nil {
		return err
	}
	return d.send(ctx, account, c)
}

func (d *EmailDispatcher) AccountDeleted(ctx context.Context, account domain.Account) error {
	c, err := email.AccountDeletedEmail()
	if err != nil {
		return err
	}
	return d.send(ctx, account, c)
}

func (d *EmailDispatcher) send(ctx context.Context, account domain.Account, c email.Content) error {
	if d.Sender == nil {
		return fmt.Errorf("email sender not configured")
	}
	if account.Email == "" {
		return fmt.Errorf("account %s has no email", account.ID)
	}
	err := d.Sender.Send(ctx, email.Message{
		FromName:  d.FromName,
		FromEmail: d.FromEmail,
		ToEmail:   account.Email,
		Subject:   c.Subject,
		TextBody:  c.TextBody,
		HTMLBody:  c.HTMLBody,
	})
	if err != nil {
		return fmt.Errorf("send %q: %w", c.Subject, err)
	}
	return nil
}
