package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the only component allowed to touch account balances.
// Posting debits one account and credits another by the same amount, so the
// ledger-wide sum of debits always equals the sum of credits, and each
// account's balance equals the net signed sum of its posted rows.
type LedgerService struct {
	repos *repository.Repositories
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repos *repository.Repositories) *LedgerService {
	return &LedgerService{repos: repos}
}

// TransactionFields carries the mutable fields of a transaction for posting
// and editing
type TransactionFields struct {
	Date            time.Time
	Description     string
	DebitAccountID  uint
	CreditAccountID uint
	Amount          decimal.Decimal
}

// validate checks the posting preconditions against the store without
// mutating anything
func (s *LedgerService) validate(ctx context.Context, r *repository.Repositories, f TransactionFields) error {
	if !f.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if f.DebitAccountID == f.CreditAccountID {
		return fmt.Errorf("%w: debit and credit accounts are identical", ErrInvalidAccount)
	}
	for _, id := range []uint{f.DebitAccountID, f.CreditAccountID} {
		account, err := r.Account.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: account %d does not exist", ErrInvalidAccount, id)
			}
			return fmt.Errorf("failed to load account %d: %w", id, err)
		}
		if !account.Active {
			return fmt.Errorf("%w: account %s is inactive", ErrInvalidAccount, account.Code)
		}
	}
	return nil
}

// Post validates and applies a new transaction: balance[debited] += amount,
// balance[credited] -= amount, row inserted. On failure nothing is mutated.
func (s *LedgerService) Post(ctx context.Context, f TransactionFields, source models.TransactionSource) (*models.Transaction, error) {
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidInput, source)
	}

	tx := &models.Transaction{
		Date:            f.Date,
		Description:     f.Description,
		DebitAccountID:  f.DebitAccountID,
		CreditAccountID: f.CreditAccountID,
		Amount:          f.Amount,
		Source:          source,
	}

	err := s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		return s.postLocked(ctx, r, tx)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// postLocked inserts and applies tx inside an already-open atomic unit
func (s *LedgerService) postLocked(ctx context.Context, r *repository.Repositories, tx *models.Transaction) error {
	if err := s.validate(ctx, r, TransactionFields{
		Date:            tx.Date,
		Description:     tx.Description,
		DebitAccountID:  tx.DebitAccountID,
		CreditAccountID: tx.CreditAccountID,
		Amount:          tx.Amount,
	}); err != nil {
		return err
	}

	if err := r.Transaction.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	if err := r.Account.AddToBalance(ctx, tx.DebitAccountID, tx.Amount); err != nil {
		return fmt.Errorf("failed to debit account %d: %w", tx.DebitAccountID, err)
	}
	if err := r.Account.AddToBalance(ctx, tx.CreditAccountID, tx.Amount.Neg()); err != nil {
		return fmt.Errorf("failed to credit account %d: %w", tx.CreditAccountID, err)
	}
	return nil
}

// reverseLocked undoes the balance effect of tx using its own stored
// debited/credited/amount, never recomputed from later field values
func (s *LedgerService) reverseLocked(ctx context.Context, r *repository.Repositories, tx *models.Transaction) error {
	if err := r.Account.AddToBalance(ctx, tx.DebitAccountID, tx.Amount.Neg()); err != nil {
		return fmt.Errorf("failed to reverse debit on account %d: %w", tx.DebitAccountID, err)
	}
	if err := r.Account.AddToBalance(ctx, tx.CreditAccountID, tx.Amount); err != nil {
		return fmt.Errorf("failed to reverse credit on account %d: %w", tx.CreditAccountID, err)
	}
	return nil
}

// authorize enforces the source capability: a transaction may only be
// mutated by the component holding its source tag. The general transaction
// screen always passes SourceGeneral.
func (s *LedgerService) authorize(tx *models.Transaction, authority models.TransactionSource) error {
	if tx.Source != authority {
		return fmt.Errorf("%w: %s entries are managed by their own module", ErrImmutableSource, tx.Source)
	}
	return nil
}

// Edit replaces a posted transaction's fields as one atomic unit: the
// snapshot of the old row is reversed and the new fields are posted; if the
// new fields are rejected the reversal never becomes visible.
func (s *LedgerService) Edit(ctx context.Context, id uint, f TransactionFields, authority models.TransactionSource) (*models.Transaction, error) {
	var updated *models.Transaction
	err := s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		tx, err := r.Transaction.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if err := s.authorize(tx, authority); err != nil {
			return err
		}

		// Validate the replacement before touching balances so a rejected
		// edit leaves no trace even without store-level rollback.
		if err := s.validate(ctx, r, f); err != nil {
			return err
		}

		snapshot := *tx
		if err := s.reverseLocked(ctx, r, &snapshot); err != nil {
			return err
		}

		tx.Date = f.Date
		tx.Description = f.Description
		tx.DebitAccountID = f.DebitAccountID
		tx.CreditAccountID = f.CreditAccountID
		tx.Amount = f.Amount
		if err := r.Transaction.Update(ctx, tx); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		if err := r.Account.AddToBalance(ctx, tx.DebitAccountID, tx.Amount); err != nil {
			return fmt.Errorf("failed to debit account %d: %w", tx.DebitAccountID, err)
		}
		if err := r.Account.AddToBalance(ctx, tx.CreditAccountID, tx.Amount.Neg()); err != nil {
			return fmt.Errorf("failed to credit account %d: %w", tx.CreditAccountID, err)
		}

		updated = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete reverses a posted transaction and removes the row
func (s *LedgerService) Delete(ctx context.Context, id uint, authority models.TransactionSource) error {
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		tx, err := r.Transaction.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		if err := s.authorize(tx, authority); err != nil {
			return err
		}
		if err := s.reverseLocked(ctx, r, tx); err != nil {
			return err
		}
		if err := r.Transaction.Delete(ctx, tx.ID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
}

// FindByID loads one posted transaction
func (s *LedgerService) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.repos.Transaction.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

// List returns posted transactions for report collaborators (read-only)
func (s *LedgerService) List(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	return s.repos.Transaction.List(ctx, filter)
}

// TrialBalanceLine is one account's row in the trial balance
type TrialBalanceLine struct {
	Account models.AccountResponse `json:"account"`
	Debit   decimal.Decimal        `json:"debit"`
	Credit  decimal.Decimal        `json:"credit"`
}

// TrialBalance lists every active account with its balance placed on the
// debit or credit column. Total debits equal total credits whenever the
// posting invariant holds.
func (s *LedgerService) TrialBalance(ctx context.Context) ([]TrialBalanceLine, error) {
	accounts, err := s.repos.Account.List(ctx, true)
	if err != nil {
		return nil, err
	}

	lines := make([]TrialBalanceLine, 0, len(accounts))
	for _, a := range accounts {
		line := TrialBalanceLine{Account: a.ToResponse()}
		if a.Balance.IsNegative() {
			line.Credit = a.Balance.Neg()
		} else {
			line.Debit = a.Balance
		}
		lines = append(lines, line)
	}
	return lines, nil
}
