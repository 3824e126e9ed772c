package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/mgodoy/bookkeeper-api/internal/statemachine"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ScheduledTransactionService manages the schedule of not-yet-posted
// entries and promotes due ones into the ledger. Each pending entry has
// exactly three ways out of a sweep: posted, deleted, or postponed.
type ScheduledTransactionService struct {
	repos  *repository.Repositories
	ledger *LedgerService
}

// NewScheduledTransactionService creates a new scheduled transaction service
func NewScheduledTransactionService(repos *repository.Repositories, ledger *LedgerService) *ScheduledTransactionService {
	return &ScheduledTransactionService{repos: repos, ledger: ledger}
}

// Due returns pending entries with a due date on or before asOf
func (s *ScheduledTransactionService) Due(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error) {
	return s.repos.Scheduled.FindDue(ctx, asOf)
}

// List returns scheduled entries, optionally filtered by status
func (s *ScheduledTransactionService) List(ctx context.Context, status string) ([]models.ScheduledTransaction, error) {
	return s.repos.Scheduled.List(ctx, status)
}

// ScheduledFields carries the fields a pending entry can still change
type ScheduledFields struct {
	Description     string
	DebitAccountID  uint
	CreditAccountID uint
	Amount          decimal.Decimal
}

// Edit mutates a pending entry in place; it stays pending and keeps its due
// date, so an entry due today is still in today's batch after editing
func (s *ScheduledTransactionService) Edit(ctx context.Context, id uint, f ScheduledFields) (*models.ScheduledTransaction, error) {
	if !f.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if f.DebitAccountID == f.CreditAccountID {
		return nil, fmt.Errorf("%w: debit and credit accounts are identical", ErrInvalidAccount)
	}

	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.IsPending() {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidState, entry.Status)
	}

	entry.Description = f.Description
	entry.DebitAccountID = f.DebitAccountID
	entry.CreditAccountID = f.CreditAccountID
	entry.Amount = f.Amount
	if err := s.repos.Scheduled.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update scheduled entry: %w", err)
	}
	return entry, nil
}

// Postpone moves a pending entry to a later due date. The new date must be
// strictly after asOf; postponing into the current batch is rejected.
func (s *ScheduledTransactionService) Postpone(ctx context.Context, id uint, asOf, newDate time.Time) (*models.ScheduledTransaction, error) {
	if !newDate.After(asOf) {
		return nil, fmt.Errorf("%w: postponed date must be after %s", ErrInvalidInput, asOf.Format("2006-01-02"))
	}

	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	machine := statemachine.NewScheduledTransactionFSM(entry)
	if err := machine.Postpone(ctx, newDate); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repos.Scheduled.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to postpone scheduled entry: %w", err)
	}
	return entry, nil
}

// Delete irreversibly removes a pending entry; no ledger effect is ever
// recorded for it
func (s *ScheduledTransactionService) Delete(ctx context.Context, id uint) error {
	entry, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	machine := statemachine.NewScheduledTransactionFSM(entry)
	if err := machine.Delete(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.repos.Scheduled.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("failed to delete scheduled entry: %w", err)
	}
	return nil
}

// BatchEntryError reports one entry that failed to post during a sweep
type BatchEntryError struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

// BatchResult summarizes one ProcessDue sweep
type BatchResult struct {
	Posted  []uint            `json:"posted"`
	Skipped []uint            `json:"skipped"`
	Failed  []BatchEntryError `json:"failed"`
}

// ProcessDue posts every entry still pending and due as of asOf. Each
// entry's promotion is its own atomic unit: a failure rolls that entry back
// and the sweep moves on. Entries that vanished between selection and
// posting are skipped, not failed.
func (s *ScheduledTransactionService) ProcessDue(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	due, err := s.repos.Scheduled.FindDue(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to select due entries: %w", err)
	}

	result := &BatchResult{}
	for i := range due {
		id := due[i].ID
		err := s.postOne(ctx, id, asOf)
		switch {
		case err == nil:
			result.Posted = append(result.Posted, id)
		case errors.Is(err, ErrNotFound):
			result.Skipped = append(result.Skipped, id)
		default:
			result.Failed = append(result.Failed, BatchEntryError{ID: id, Error: err.Error()})
		}
	}
	return result, nil
}

// postOne promotes a single due entry inside one atomic unit
func (s *ScheduledTransactionService) postOne(ctx context.Context, id uint, asOf time.Time) error {
	return s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		// Re-fetch inside the unit; the entry may have been deleted or
		// postponed by an interleaved sweep.
		entry, err := r.Scheduled.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load scheduled entry: %w", err)
		}
		if !entry.IsDue(asOf) {
			return ErrNotFound
		}

		machine := statemachine.NewScheduledTransactionFSM(entry)
		if err := machine.Post(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidState, err)
		}

		tx := entry.ToTransaction()
		if err := s.ledger.postLocked(ctx, r, &tx); err != nil {
			return err
		}

		// Depreciation entries keep a pointer to the transaction they became
		if entry.FixedAssetID != nil {
			if err := r.Asset.LinkEntryTransaction(ctx, entry.ID, tx.ID); err != nil {
				return fmt.Errorf("failed to link schedule entry: %w", err)
			}
		}

		if err := r.Scheduled.Delete(ctx, entry.ID); err != nil {
			return fmt.Errorf("failed to remove promoted entry: %w", err)
		}
		return nil
	})
}

func (s *ScheduledTransactionService) find(ctx context.Context, id uint) (*models.ScheduledTransaction, error) {
	entry, err := s.repos.Scheduled.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}
