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

type VerificationCodesStore struct {
	pool *pgxpool.Pool
}

func NewVerificationCodesStore(pool *pgxpool.Pool) *VerificationCodesStore {
	return &VerificationCodesStore{pool: pool}
}

// SaveVerificationCode replaces every outstanding code of the account with vc.
func (s *VerificationCodesStore) SaveVerificationCode(ctx context.Context, vc domain.VerificationCode) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM verification_codes WHERE account_id = $1`, vc.AccountID); err != nil {
		return fmt.Errorf("delete old verification codes: %w", err)
	}

	const insert = `
		INSERT INTO verification_codes (account_id, code, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insert, vc.AccountID, vc.Code, vc.CreatedAt); err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23503" {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert verification code: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit verification code: %w", err)
	}
	return nil
}

func (s *VerificationCodesStore) GetVerificationCode(ctx context.Context, accountID string) (domain.VerificationCode, error) {
	const q = `
		SELECT id, account_id, code, created_at
		FROM verification_codes
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		vc         domain.VerificationCode
		idUUID     pgtype.UUID
		accountRef pgtype.UUID
	)
	err := s.pool.QueryRow(ctx, q, accountID).Scan(&idUUID, &accountRef, &vc.Code, &vc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VerificationCode{}, domain.ErrNotFound
		}
		return domain.VerificationCode{}, fmt.Errorf("get verification code: %w", err)
	}
	vc.ID = uuidOrEmpty(idUUID)
	vc.AccountID = uuidOrEmpty(accountRef)
	return vc, nil
}

func (s *VerificationCodesStore) DeleteVerificationCodes(ctx context.Context, accountID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM verification_codes WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("delete verification codes: %w", err)
	}
	return nil
}
