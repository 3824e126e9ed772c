package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountService manages the chart of accounts. It never writes balances;
// that is the ledger service's exclusive job.
type AccountService struct {
	repos *repository.Repositories
}

// NewAccountService creates a new account service
func NewAccountService(repos *repository.Repositories) *AccountService {
	return &AccountService{repos: repos}
}

// Create adds an account to the chart of accounts
func (s *AccountService) Create(ctx context.Context, account *models.Account) error {
	if account.Code == "" || account.Name == "" {
		return fmt.Errorf("%w: code and name are required", ErrInvalidInput)
	}
	if !account.Type.IsValid() {
		return fmt.Errorf("%w: unknown account type %q", ErrInvalidInput, account.Type)
	}
	if account.NormalBalance == "" {
		account.NormalBalance = account.Type.DefaultNormalBalance()
	}
	account.Active = true
	if err := s.repos.Account.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// List returns the chart of accounts
func (s *AccountService) List(ctx context.Context, activeOnly bool) ([]models.Account, error) {
	return s.repos.Account.List(ctx, activeOnly)
}

// FindByID loads one account
func (s *AccountService) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	account, err := s.repos.Account.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

// Deactivate retires an account. An account holding a balance or backing a
// fixed asset stays active.
func (s *AccountService) Deactivate(ctx context.Context, id uint) error {
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s still carries a balance", ErrInvalidState, account.Code)
	}
	refs, err := s.repos.Asset.CountByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check asset references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: account %s backs %d fixed asset(s)", ErrInvalidState, account.Code, refs)
	}

	account.Active = false
	return s.repos.Account.Update(ctx, account)
}

// VerifyBalance recomputes an account's balance from its posted rows and
// reports both figures; they differ only if the posting invariant was broken
func (s *AccountService) VerifyBalance(ctx context.Context, id uint) (stored, derived decimal.Decimal, err error) {
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	net, err := s.repos.Transaction.NetBalance(ctx, id)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to derive balance: %w", err)
	}
	return account.Balance, net, nil
}
