package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"gorm.io/gorm"
)

// RecurringTransactionService manages recurring definitions and the
// scheduled entries they expand into
type RecurringTransactionService struct {
	repos      *repository.Repositories
	recurrence *RecurrenceService
}

// NewRecurringTransactionService creates a new recurring transaction service
func NewRecurringTransactionService(repos *repository.Repositories, recurrence *RecurrenceService) *RecurringTransactionService {
	return &RecurringTransactionService{repos: repos, recurrence: recurrence}
}

// Create validates the definition, expands its occurrence dates and
// persists the definition together with its pending scheduled entries as
// one atomic unit
func (s *RecurringTransactionService) Create(ctx context.Context, def *models.RecurringTransaction) ([]models.ScheduledTransaction, error) {
	if !def.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if def.DebitAccountID == def.CreditAccountID {
		return nil, fmt.Errorf("%w: debit and credit accounts are identical", ErrInvalidAccount)
	}
	for _, id := range []uint{def.DebitAccountID, def.CreditAccountID} {
		if _, err := s.repos.Account.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: account %d does not exist", ErrInvalidAccount, id)
			}
			return nil, fmt.Errorf("failed to load account %d: %w", id, err)
		}
	}

	dates, err := s.recurrence.Expand(def, s.recurrence.Horizon(def))
	if err != nil {
		return nil, err
	}

	entries := make([]models.ScheduledTransaction, 0, len(dates))
	err = s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		if err := r.Recurring.Create(ctx, def); err != nil {
			return fmt.Errorf("failed to create recurring definition: %w", err)
		}
		for _, date := range dates {
			entries = append(entries, models.ScheduledTransaction{
				DueDate:                date,
				Description:            def.Description,
				DebitAccountID:         def.DebitAccountID,
				CreditAccountID:        def.CreditAccountID,
				Amount:                 def.Amount,
				Source:                 models.SourceRecurring,
				Status:                 models.ScheduledStatusPending,
				RecurringTransactionID: &def.ID,
			})
		}
		if err := r.Scheduled.CreateBatch(ctx, entries); err != nil {
			return fmt.Errorf("failed to create scheduled entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns all recurring definitions
func (s *RecurringTransactionService) List(ctx context.Context) ([]models.RecurringTransaction, error) {
	return s.repos.Recurring.List(ctx)
}

// FindByID loads one recurring definition
func (s *RecurringTransactionService) FindByID(ctx context.Context, id uint) (*models.RecurringTransaction, error) {
	def, err := s.repos.Recurring.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return def, nil
}

// Delete removes a definition and its still-pending scheduled entries in
// one unit; entries already promoted into the ledger are untouched
func (s *RecurringTransactionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		if err := r.Scheduled.DeleteByRecurring(ctx, id); err != nil {
			return fmt.Errorf("failed to delete pending entries: %w", err)
		}
		if err := r.Recurring.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete recurring definition: %w", err)
		}
		return nil
	})
}
