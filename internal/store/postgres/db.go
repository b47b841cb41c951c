package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Stores bundles the account and verification code stores over one pool.
type Stores struct {
	Accounts *AccountsStore
	Codes    *VerificationCodesStore
}

func NewStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Accounts: NewAccountsStore(pool),
		Codes:    NewVerificationCodesStore(pool),
	}
}
