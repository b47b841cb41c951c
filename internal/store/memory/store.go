// Package memory is an in-process account store with the same semantics as the
// postgres store: unique emails, one outstanding verification code per account,
// and codes removed together with their account.
package memory

import (
	"context"
	"sync"

	"InfiniteDbAccounts/internal/domain"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	byEmail  map[string]string
	codes    map[string]domain.VerificationCode
}

func New() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		byEmail:  make(map[string]string),
		codes:    make(map[string]domain.VerificationCode),
	}
}

func (s *Store) CreateAccount(_ context.Context, a domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return domain.Account{}, domain.ErrConflict
	}
	a.ID = uuid.NewString()
	if a.Role == "" {
		a.Role = domain.DefaultRole
	}
	a = a.WithoutResetToken()
	s.accounts[a.ID] = a
	s.byEmail[a.Email] = a.ID
	return a, nil
}

func (s *Store) GetAccountByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *Store) GetAccountByEmail(_ context.Context, email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return s.accounts[id], nil
}

func (s *Store) UpdateAccount(_ context.Context, a domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.accounts[a.ID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	if a.Email != prev.Email {
		if _, taken := s.byEmail[a.Email]; taken {
			return domain.Account{}, domain.ErrConflict
		}
		delete(s.byEmail, prev.Email)
		s.byEmail[a.Email] = a.ID
	}
	if !a.HasResetToken() {
		a = a.WithoutResetToken()
	}
	a.CreatedAt = prev.CreatedAt
	s.accounts[a.ID] = a
	return a, nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	delete(s.accounts, id)
	delete(s.byEmail, a.Email)
	delete(s.codes, id)
	return a, nil
}

func (s *Store) SaveVerificationCode(_ context.Context, vc domain.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[vc.AccountID]; !ok {
		return domain.ErrNotFound
	}
	vc.ID = uuid.NewString()
	s.codes[vc.AccountID] = vc
	return nil
}

func (s *Store) GetVerificationCode(_ context.Context, accountID string) (domain.VerificationCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vc, ok := s.codes[accountID]
	if !ok {
		return domain.VerificationCode{}, domain.ErrNotFound
	}
	return vc, nil
}

func (s *Store) DeleteVerificationCodes(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, accountID)
	return nil
}
