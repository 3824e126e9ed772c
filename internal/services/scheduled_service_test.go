package services

import (
	"context"
	"testing"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func scheduledFixture() (*repoFixture, *ScheduledTransactionService, uint, uint) {
	fx := newRepoFixture()
	ledger := NewLedgerService(fx.repos)
	svc := NewScheduledTransactionService(fx.repos, ledger)
	expense := fx.addAccount("5000", models.AccountTypeExpense)
	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	return fx, svc, expense, cash
}

func pendingEntry(fx *repoFixture, dueDate time.Time, debit, credit uint, amount string) *models.ScheduledTransaction {
	entry := &models.ScheduledTransaction{
		DueDate:         dueDate,
		Description:     "Scheduled expense",
		DebitAccountID:  debit,
		CreditAccountID: credit,
		Amount:          dec(amount),
		Source:          models.SourceGeneral,
		Status:          models.ScheduledStatusPending,
	}
	_ = fx.scheduled.Create(context.Background(), entry)
	return entry
}

func TestProcessDuePostsDueEntries(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 3, 15)

	overdue := pendingEntry(fx, date(2024, 3, 1), expense, cash, "100")
	dueToday := pendingEntry(fx, asOf, expense, cash, "50")
	future := pendingEntry(fx, date(2024, 4, 1), expense, cash, "75")

	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []uint{overdue.ID, dueToday.ID}, result.Posted)
	assert.Empty(t, result.Skipped)
	assert.Empty(t, result.Failed)

	// Promoted entries hit the ledger and leave the schedule
	assert.True(t, fx.accounts.balance(expense).Equal(dec("150")))
	assert.True(t, fx.accounts.balance(cash).Equal(dec("-150")))
	assert.Len(t, fx.txs.txs, 2)

	remaining, err := fx.scheduled.List(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, future.ID, remaining[0].ID)
}

func TestProcessDueSkipsVanishedEntries(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 3, 15)

	live := pendingEntry(fx, date(2024, 3, 1), expense, cash, "100")

	// The selection includes an entry another sweep already removed
	ghost := models.ScheduledTransaction{
		ID:              99,
		DueDate:         date(2024, 3, 1),
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("10"),
		Status:          models.ScheduledStatusPending,
	}
	fx.scheduled.mockFindDue = func(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error) {
		return []models.ScheduledTransaction{*live, ghost}, nil
	}

	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []uint{live.ID}, result.Posted)
	assert.Equal(t, []uint{ghost.ID}, result.Skipped)
	assert.Empty(t, result.Failed)
	assert.True(t, fx.accounts.balance(expense).Equal(dec("100")))
}

func TestProcessDueIsolatesFailures(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 3, 15)

	good := pendingEntry(fx, date(2024, 3, 1), expense, cash, "100")

	// This entry references an account that no longer exists
	bad := pendingEntry(fx, date(2024, 3, 2), expense, 999, "50")

	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []uint{good.ID}, result.Posted)
	assert.Len(t, result.Failed, 1)
	assert.Equal(t, bad.ID, result.Failed[0].ID)
	assert.Contains(t, result.Failed[0].Error, "account")

	// The failed entry stays pending for a later sweep
	stored, err := fx.scheduled.FindByID(ctx, bad.ID)
	assert.NoError(t, err)
	assert.True(t, stored.IsPending())
	assert.True(t, fx.accounts.balance(expense).Equal(dec("100")))
}

func TestProcessDueLinksDepreciationEntries(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 1, 31)

	assetID := uint(7)
	entry := pendingEntry(fx, date(2024, 1, 31), expense, cash, "200")
	entry.FixedAssetID = &assetID
	entry.Source = models.SourceDepreciation
	assert.NoError(t, fx.scheduled.Update(ctx, entry))

	scheduledID := entry.ID
	assert.NoError(t, fx.assets.CreateEntries(ctx, []models.DepreciationEntry{{
		FixedAssetID:            assetID,
		Period:                  1,
		PeriodStart:             date(2024, 1, 1),
		PeriodEnd:               date(2024, 1, 31),
		Expense:                 dec("200"),
		AccumulatedDepreciation: dec("200"),
		BookValue:               dec("11800"),
		ScheduledTransactionID:  &scheduledID,
	}}))

	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []uint{entry.ID}, result.Posted)

	// The schedule row now points at the posted transaction
	rows, err := fx.assets.ListEntries(ctx, assetID)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, rows[0].ScheduledTransactionID)
	assert.NotNil(t, rows[0].TransactionID)

	tx, err := fx.txs.FindByID(ctx, *rows[0].TransactionID)
	assert.NoError(t, err)
	assert.Equal(t, models.SourceDepreciation, tx.Source)
	assert.True(t, tx.Amount.Equal(dec("200")))
}

func TestPostponeMovesEntryOutOfBatch(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 3, 15)

	entry := pendingEntry(fx, date(2024, 3, 10), expense, cash, "100")

	// The new date must land strictly after the batch cutoff
	_, err := svc.Postpone(ctx, entry.ID, asOf, asOf)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Postpone(ctx, entry.ID, asOf, date(2024, 3, 10))
	assert.ErrorIs(t, err, ErrInvalidInput)

	postponed, err := svc.Postpone(ctx, entry.ID, asOf, date(2024, 4, 1))
	assert.NoError(t, err)
	assert.Equal(t, models.ScheduledStatusPending, postponed.Status)
	assert.Equal(t, date(2024, 4, 1), postponed.DueDate)

	// A postponed entry drops out of the current sweep
	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Empty(t, result.Posted)
	assert.True(t, fx.accounts.balance(expense).IsZero())
}

func TestEditKeepsDueDate(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()
	asOf := date(2024, 3, 15)

	entry := pendingEntry(fx, asOf, expense, cash, "100")

	edited, err := svc.Edit(ctx, entry.ID, ScheduledFields{
		Description:     "Adjusted",
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("120"),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Adjusted", edited.Description)
	assert.Equal(t, entry.DueDate, edited.DueDate)

	// Editing an entry due today keeps it in today's batch
	assert.True(t, edited.IsDue(asOf))

	result, err := svc.ProcessDue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []uint{entry.ID}, result.Posted)
	assert.True(t, fx.accounts.balance(expense).Equal(dec("120")))
}

func TestEditValidation(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()

	entry := pendingEntry(fx, date(2024, 3, 1), expense, cash, "100")

	_, err := svc.Edit(ctx, entry.ID, ScheduledFields{
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Edit(ctx, entry.ID, ScheduledFields{
		DebitAccountID:  expense,
		CreditAccountID: expense,
		Amount:          dec("10"),
	})
	assert.ErrorIs(t, err, ErrInvalidAccount)

	_, err = svc.Edit(ctx, 999, ScheduledFields{
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("10"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteScheduledEntry(t *testing.T) {
	fx, svc, expense, cash := scheduledFixture()
	ctx := context.Background()

	entry := pendingEntry(fx, date(2024, 3, 1), expense, cash, "100")

	err := svc.Delete(ctx, entry.ID)
	assert.NoError(t, err)

	_, err = fx.scheduled.FindByID(ctx, entry.ID)
	assert.Error(t, err)

	// Deletion never touches the ledger
	assert.Empty(t, fx.txs.txs)
	assert.True(t, fx.accounts.balance(expense).IsZero())

	err = svc.Delete(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
