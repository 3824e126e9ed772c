package services

import (
	"context"
	"testing"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func recurringFixture() (*repoFixture, *RecurringTransactionService, uint, uint) {
	fx := newRepoFixture()
	svc := NewRecurringTransactionService(fx.repos, NewRecurrenceService())
	expense := fx.addAccount("5000", models.AccountTypeExpense)
	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	return fx, svc, expense, cash
}

func TestRecurringCreateExpandsSchedule(t *testing.T) {
	fx, svc, expense, cash := recurringFixture()
	ctx := context.Background()

	end := date(2024, 4, 30)
	def := &models.RecurringTransaction{
		Description:     "Office rent",
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("800"),
		Frequency:       models.FrequencyMonthly,
		StartDate:       date(2024, 1, 31),
		EndDate:         &end,
	}

	entries, err := svc.Create(ctx, def)
	assert.NoError(t, err)
	assert.NotZero(t, def.ID)
	assert.Len(t, entries, 4)

	// The expansion clamps to short months while keeping the day-31 anchor
	assert.Equal(t, date(2024, 2, 29), entries[1].DueDate)
	assert.Equal(t, date(2024, 3, 31), entries[2].DueDate)

	for _, entry := range entries {
		assert.Equal(t, models.ScheduledStatusPending, entry.Status)
		assert.Equal(t, models.SourceRecurring, entry.Source)
		assert.Equal(t, "Office rent", entry.Description)
		assert.True(t, entry.Amount.Equal(dec("800")))
		assert.NotNil(t, entry.RecurringTransactionID)
		assert.Equal(t, def.ID, *entry.RecurringTransactionID)
	}

	persisted, err := fx.scheduled.List(ctx, models.ScheduledStatusPending)
	assert.NoError(t, err)
	assert.Len(t, persisted, 4)
}

func TestRecurringCreateValidation(t *testing.T) {
	_, svc, expense, cash := recurringFixture()
	ctx := context.Background()

	end := date(2024, 12, 31)

	t.Run("non-positive amount", func(t *testing.T) {
		def := &models.RecurringTransaction{
			DebitAccountID:  expense,
			CreditAccountID: cash,
			Amount:          dec("0"),
			Frequency:       models.FrequencyMonthly,
			StartDate:       date(2024, 1, 1),
			EndDate:         &end,
		}
		_, err := svc.Create(ctx, def)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("identical accounts", func(t *testing.T) {
		def := &models.RecurringTransaction{
			DebitAccountID:  expense,
			CreditAccountID: expense,
			Amount:          dec("100"),
			Frequency:       models.FrequencyMonthly,
			StartDate:       date(2024, 1, 1),
			EndDate:         &end,
		}
		_, err := svc.Create(ctx, def)
		assert.ErrorIs(t, err, ErrInvalidAccount)
	})

	t.Run("missing account", func(t *testing.T) {
		def := &models.RecurringTransaction{
			DebitAccountID:  expense,
			CreditAccountID: 999,
			Amount:          dec("100"),
			Frequency:       models.FrequencyMonthly,
			StartDate:       date(2024, 1, 1),
			EndDate:         &end,
		}
		_, err := svc.Create(ctx, def)
		assert.ErrorIs(t, err, ErrInvalidAccount)
	})
}

func TestRecurringCreateRejectedExpansionPersistsNothing(t *testing.T) {
	fx, svc, expense, cash := recurringFixture()
	ctx := context.Background()

	// Custom frequency without an interval fails during expansion
	def := &models.RecurringTransaction{
		Description:     "Broken",
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("100"),
		Frequency:       models.FrequencyCustom,
		StartDate:       date(2024, 1, 1),
	}
	_, err := svc.Create(ctx, def)
	assert.ErrorIs(t, err, ErrInvalidInput)

	defs, err := fx.recurring.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, defs)

	entries, err := fx.scheduled.List(ctx, "")
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecurringDeleteRemovesPendingEntriesOnly(t *testing.T) {
	fx, svc, expense, cash := recurringFixture()
	ctx := context.Background()

	end := date(2024, 3, 31)
	def := &models.RecurringTransaction{
		Description:     "Subscription",
		DebitAccountID:  expense,
		CreditAccountID: cash,
		Amount:          dec("25"),
		Frequency:       models.FrequencyMonthly,
		StartDate:       date(2024, 1, 1),
		EndDate:         &end,
	}
	entries, err := svc.Create(ctx, def)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)

	// An unrelated pending entry must survive the cascade
	unrelated := pendingEntry(fx, date(2024, 2, 1), expense, cash, "10")

	err = svc.Delete(ctx, def.ID)
	assert.NoError(t, err)

	_, err = fx.recurring.FindByID(ctx, def.ID)
	assert.Error(t, err)

	remaining, err := fx.scheduled.List(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, unrelated.ID, remaining[0].ID)

	err = svc.Delete(ctx, def.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
