package notifications

import (
	"context"
	"errors"
	"log/slog"

	"InfiniteDbAccounts/internal/domain"
)

// LogDispatcher only records that an event happened. Codes and tokens are
// never written to the log.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d *LogDispatcher) VerificationCodeSent(ctx context.Context, account domain.Account, _ string) error {
	d.log(ctx, EventVerificationCodeSent, account)
	return nil
}

func (d *LogDispatcher) VerificationCodeRequested(ctx context.Context, account domain.Account, _ string) error {
	d.log(ctx, EventVerificationCodeRequested, account)
	return nil
}

func (d *LogDispatcher) AccountCreated(ctx context.Context, account domain.Account) error {
	d.log(ctx, EventAccountCreated, account)
	return nil
}

func (d *LogDispatcher) PasswordResetRequested(ctx context.Context, account domain.Account, _ string) error {
	d.log(ctx, EventPasswordResetRequested, account)
	return nil
}

func (d *LogDispatcher) AccountDeleted(ctx context.Context, account domain.Account) error {
	d.log(ctx, EventAccountDeleted, account)
	return nil
}

func (d *LogDispatcher) log(ctx context.Context, event string, account domain.Account) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "account event", "event", event, "account_id", account.ID)
}

// Fanout dispatches every event to each dispatcher in order. A failing
// dispatcher does not stop the rest; their errors are joined.
type Fanout []Dispatcher

func (f Fanout) VerificationCodeSent(ctx context.Context, account domain.Account, code string) error {
	return f.each(func(d Dispatcher) error { return d.VerificationCodeSent(ctx, account, code) })
}

func (f Fanout) VerificationCodeRequested(ctx context.Context, account domain.Account, code string) error {
	return f.each(func(d Dispatcher) error { return d.VerificationCodeRequested(ctx, account, code) })
}

func (f Fanout) AccountCreated(ctx context.Context, account domain.Account) error {
	return f.each(func(d Dispatcher) error { return d.AccountCreated(ctx, account) })
}

func (f Fanout) PasswordResetRequested(ctx context.Context, account domain.Account, token string) error {
	return f.each(func(d Dispatcher) error { return d.PasswordResetRequested(ctx, account, token) })
}

func (f Fanout) AccountDeleted(ctx context.Context, account domain.Account) error {
	return f.each(func(d Dispatcher) error { return d.AccountDeleted(ctx, account) })
}

func (f Fanout) each(fn func(Dispatcher) error) error {
	var errs []error
	for _, d := range f {
		if err := fn(d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
