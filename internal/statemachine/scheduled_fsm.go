package statemachine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/mgodoy/bookkeeper-api/internal/models"
)

// ScheduledTransactionFSM wraps a scheduled transaction with its state
// machine. A pending entry has exactly three ways out: posted, deleted, or
// postponed to a later due date (which keeps it pending for a future sweep).
// Posted and deleted are terminal.
type ScheduledTransactionFSM struct {
	entry *models.ScheduledTransaction
	fsm   *fsm.FSM
}

// NewScheduledTransactionFSM creates a new scheduled transaction state machine
func NewScheduledTransactionFSM(entry *models.ScheduledTransaction) *ScheduledTransactionFSM {
	sfsm := &ScheduledTransactionFSM{
		entry: entry,
	}

	sfsm.fsm = fsm.NewFSM(
		entry.Status,
		fsm.Events{
			// pending → posted (promoted into the ledger)
			{Name: "post", Src: []string{models.ScheduledStatusPending}, Dst: models.ScheduledStatusPosted},

			// pending → deleted (removed, never reaches the ledger)
			{Name: "delete", Src: []string{models.ScheduledStatusPending}, Dst: models.ScheduledStatusDeleted},

			// pending → pending (due date moved to a future sweep)
			{Name: "postpone", Src: []string{models.ScheduledStatusPending}, Dst: models.ScheduledStatusPending},
		},
		fsm.Callbacks{},
	)

	return sfsm
}

// Post transitions the entry to posted
func (s *ScheduledTransactionFSM) Post(ctx context.Context) error {
	if !s.entry.IsPending() {
		return fmt.Errorf("scheduled transaction cannot be posted in current state: %s", s.entry.Status)
	}

	if err := s.fsm.Event(ctx, "post"); err != nil {
		return fmt.Errorf("failed to post scheduled transaction: %w", err)
	}

	s.entry.Status = s.fsm.Current()
	return nil
}

// Delete transitions the entry to deleted
func (s *ScheduledTransactionFSM) Delete(ctx context.Context) error {
	if !s.entry.IsPending() {
		return fmt.Errorf("scheduled transaction cannot be deleted in current state: %s", s.entry.Status)
	}

	if err := s.fsm.Event(ctx, "delete"); err != nil {
		return fmt.Errorf("failed to delete scheduled transaction: %w", err)
	}

	s.entry.Status = s.fsm.Current()
	return nil
}

// Postpone reassigns the due date; the entry stays pending under the new
// date and drops out of the current batch
func (s *ScheduledTransactionFSM) Postpone(ctx context.Context, newDate time.Time) error {
	if !s.entry.IsPending() {
		return fmt.Errorf("scheduled transaction cannot be postponed in current state: %s", s.entry.Status)
	}

	// A postpone keeps the entry pending, which the fsm reports as a
	// no-op transition rather than a failure.
	if err := s.fsm.Event(ctx, "postpone"); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return fmt.Errorf("failed to postpone scheduled transaction: %w", err)
		}
	}

	s.entry.DueDate = newDate
	s.entry.Status = s.fsm.Current()
	return nil
}

// Current returns the current state
func (s *ScheduledTransactionFSM) Current() string {
	return s.fsm.Current()
}

// Can checks if a transition is possible
func (s *ScheduledTransactionFSM) Can(event string) bool {
	return s.fsm.Can(event)
}
