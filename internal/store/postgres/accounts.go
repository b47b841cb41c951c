package postgres

import (
	"context"
	"errors"
	"fmt"

	"InfiniteDbAccounts/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `id, email, password_hash, first_name, last_name, email_confirmed, role,
	password_reset_token, password_reset_expires_at, created_at, updated_at`

type AccountsStore struct {
	pool *pgxpool.Pool
}

func NewAccountsStore(pool *pgxpool.Pool) *AccountsStore {
	return &AccountsStore{pool: pool}
}

func (s *AccountsStore) CreateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	const q = `
		INSERT INTO accounts (email, password_hash, first_name, last_name, email_confirmed, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns

	role := a.Role
	if role == "" {
		role = domain.DefaultRole
	}
	row := s.pool.QueryRow(ctx, q,
		a.Email,
		a.PasswordHash,
		nullIfEmpty(a.FirstName),
		nullIfEmpty(a.LastName),
		a.EmailConfirmed,
		role,
		a.CreatedAt,
		a.UpdatedAt,
	)
	out, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, mapAccountWriteError("create account", err)
	}
	return out, nil
}

func (s *AccountsStore) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by id: %w", err)
	}
	return a, nil
}

func (s *AccountsStore) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1 LIMIT 1`

	a, err := scanAccount(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("get account by email: %w", err)
	}
	return a, nil
}

func (s *AccountsStore) UpdateAccount(ctx context.Context, a domain.Account) (domain.Account, error) {
	const q = `
		UPDATE accounts
		SET email = $2,
			password_hash = $3,
			first_name = $4,
			last_name = $5,
			email_confirmed = $6,
			role = $7,
			password_reset_token = $8,
			password_reset_expires_at = $9,
			updated_at = $10
		WHERE id = $1
		RETURNING ` + accountColumns

	resetToken, resetExpires := nullIfEmpty(a.PasswordResetToken), timeOrNil(a.PasswordResetExpiresAt)
	if resetToken == nil || resetExpires == nil {
		resetToken, resetExpires = nil, nil
	}
	row := s.pool.QueryRow(ctx, q,
		a.ID,
		a.Email,
		a.PasswordHash,
		nullIfEmpty(a.FirstName),
		nullIfEmpty(a.LastName),
		a.EmailConfirmed,
		a.Role,
		resetToken,
		resetExpires,
		a.UpdatedAt,
	)
	out, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, mapAccountWriteError("update account", err)
	}
	return out, nil
}

func (s *AccountsStore) DeleteAccount(ctx context.Context, id string) (domain.Account, error) {
	const q = `DELETE FROM accounts WHERE id = $1 RETURNING ` + accountColumns

	a, err := scanAccount(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, fmt.Errorf("delete account: %w", err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a            domain.Account
		idUUID       pgtype.UUID
		firstName    pgtype.Text
		lastName     pgtype.Text
		resetToken   pgtype.Text
		resetExpires pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&a.Email,
		&a.PasswordHash,
		&firstName,
		&lastName,
		&a.EmailConfirmed,
		&a.Role,
		&resetToken,
		&resetExpires,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}

	a.ID = uuidOrEmpty(idUUID)
	a.FirstName = textOrEmpty(firstName)
	a.LastName = textOrEmpty(lastName)
	a.PasswordResetToken = textOrEmpty(resetToken)
	a.PasswordResetExpiresAt = timestamptzPtr(resetExpires)
	return a, nil
}

func mapAccountWriteError(op string, err error) error {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		if pgerr.ConstraintName == "accounts_email_uq" {
			return domain.ErrConflict
		}
		return fmt.Errorf("%s: unique violation (%s): %w", op, pgerr.ConstraintName, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
