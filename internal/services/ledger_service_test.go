package services

import (
	"context"
	"testing"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerPostUpdatesBothBalances(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)

	tx, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 3, 15),
		Description:     "Consulting fee",
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.RequireFromString("150.25"),
	}, models.SourceGeneral)

	assert.NoError(t, err)
	assert.NotZero(t, tx.ID)
	assert.Equal(t, models.SourceGeneral, tx.Source)
	assert.True(t, fx.accounts.balance(cash).Equal(decimal.RequireFromString("150.25")))
	assert.True(t, fx.accounts.balance(revenue).Equal(decimal.RequireFromString("-150.25")))

	stored, err := fx.txs.FindByID(ctx, tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Consulting fee", stored.Description)
}

func TestLedgerPostValidation(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)
	closed := fx.addAccount("1900", models.AccountTypeCurrentAsset)
	fx.accounts.accounts[closed].Active = false

	amount := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		fields  TransactionFields
		source  models.TransactionSource
		wantErr error
	}{
		{
			name:    "zero amount",
			fields:  TransactionFields{DebitAccountID: cash, CreditAccountID: revenue, Amount: decimal.Zero},
			source:  models.SourceGeneral,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			fields:  TransactionFields{DebitAccountID: cash, CreditAccountID: revenue, Amount: decimal.NewFromInt(-5)},
			source:  models.SourceGeneral,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "same debit and credit account",
			fields:  TransactionFields{DebitAccountID: cash, CreditAccountID: cash, Amount: amount},
			source:  models.SourceGeneral,
			wantErr: ErrInvalidAccount,
		},
		{
			name:    "missing account",
			fields:  TransactionFields{DebitAccountID: cash, CreditAccountID: 999, Amount: amount},
			source:  models.SourceGeneral,
			wantErr: ErrInvalidAccount,
		},
		{
			name:    "inactive account",
			fields:  TransactionFields{DebitAccountID: closed, CreditAccountID: revenue, Amount: amount},
			source:  models.SourceGeneral,
			wantErr: ErrInvalidAccount,
		},
		{
			name:    "unknown source",
			fields:  TransactionFields{DebitAccountID: cash, CreditAccountID: revenue, Amount: amount},
			source:  models.TransactionSource("BOGUS"),
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Post(ctx, tt.fields, tt.source)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Rejected postings leave nothing behind
	assert.True(t, fx.accounts.balance(cash).IsZero())
	assert.True(t, fx.accounts.balance(revenue).IsZero())
	assert.Empty(t, fx.txs.txs)
}

func TestLedgerEditReversesThenApplies(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)
	equity := fx.addAccount("3000", models.AccountTypeEquity)

	tx, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 3, 1),
		Description:     "Original",
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.NewFromInt(100),
	}, models.SourceGeneral)
	assert.NoError(t, err)

	updated, err := svc.Edit(ctx, tx.ID, TransactionFields{
		Date:            date(2024, 3, 2),
		Description:     "Corrected",
		DebitAccountID:  cash,
		CreditAccountID: equity,
		Amount:          decimal.NewFromInt(40),
	}, models.SourceGeneral)
	assert.NoError(t, err)
	assert.Equal(t, tx.ID, updated.ID)
	assert.Equal(t, "Corrected", updated.Description)

	// Old effect fully reversed, new effect fully applied
	assert.True(t, fx.accounts.balance(cash).Equal(decimal.NewFromInt(40)))
	assert.True(t, fx.accounts.balance(revenue).IsZero())
	assert.True(t, fx.accounts.balance(equity).Equal(decimal.NewFromInt(-40)))

	stored, err := fx.txs.FindByID(ctx, tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, equity, stored.CreditAccountID)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(40)))
}

func TestLedgerEditRejectedLeavesNoTrace(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)

	tx, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 3, 1),
		Description:     "Original",
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.NewFromInt(100),
	}, models.SourceGeneral)
	assert.NoError(t, err)

	_, err = svc.Edit(ctx, tx.ID, TransactionFields{
		Date:            date(2024, 3, 2),
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.Zero,
	}, models.SourceGeneral)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.True(t, fx.accounts.balance(cash).Equal(decimal.NewFromInt(100)))
	assert.True(t, fx.accounts.balance(revenue).Equal(decimal.NewFromInt(-100)))

	stored, err := fx.txs.FindByID(ctx, tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Original", stored.Description)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(100)))
}

func TestLedgerSourceCapability(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	expense := fx.addAccount("5700", models.AccountTypeExpense)
	asset := fx.addAccount("1500", models.AccountTypeFixedAsset)

	tx, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 1, 31),
		Description:     "Depreciation of Truck (period 1)",
		DebitAccountID:  expense,
		CreditAccountID: asset,
		Amount:          decimal.NewFromInt(200),
	}, models.SourceDepreciation)
	assert.NoError(t, err)

	// The general transaction screen cannot touch module-generated rows
	_, err = svc.Edit(ctx, tx.ID, TransactionFields{
		Date:            tx.Date,
		DebitAccountID:  expense,
		CreditAccountID: asset,
		Amount:          decimal.NewFromInt(300),
	}, models.SourceGeneral)
	assert.ErrorIs(t, err, ErrImmutableSource)

	err = svc.Delete(ctx, tx.ID, models.SourceGeneral)
	assert.ErrorIs(t, err, ErrImmutableSource)

	// The owning module can
	err = svc.Delete(ctx, tx.ID, models.SourceDepreciation)
	assert.NoError(t, err)
	assert.True(t, fx.accounts.balance(expense).IsZero())
	assert.True(t, fx.accounts.balance(asset).IsZero())
}

func TestLedgerDeleteRestoresBalances(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)

	tx, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 3, 1),
		Description:     "To remove",
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.RequireFromString("33.33"),
	}, models.SourceGeneral)
	assert.NoError(t, err)

	err = svc.Delete(ctx, tx.ID, models.SourceGeneral)
	assert.NoError(t, err)
	assert.True(t, fx.accounts.balance(cash).IsZero())
	assert.True(t, fx.accounts.balance(revenue).IsZero())

	_, err = fx.txs.FindByID(ctx, tx.ID)
	assert.Error(t, err)

	err = svc.Delete(ctx, 999, models.SourceGeneral)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTrialBalancePlacesBalancesBySign(t *testing.T) {
	fx := newRepoFixture()
	svc := NewLedgerService(fx.repos)
	ctx := context.Background()

	cash := fx.addAccount("1000", models.AccountTypeCurrentAsset)
	revenue := fx.addAccount("4000", models.AccountTypeRevenue)

	_, err := svc.Post(ctx, TransactionFields{
		Date:            date(2024, 3, 1),
		Description:     "Sale",
		DebitAccountID:  cash,
		CreditAccountID: revenue,
		Amount:          decimal.NewFromInt(500),
	}, models.SourceGeneral)
	assert.NoError(t, err)

	lines, err := svc.TrialBalance(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 2)

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
		switch line.Account.Code {
		case "1000":
			assert.True(t, line.Debit.Equal(decimal.NewFromInt(500)))
			assert.True(t, line.Credit.IsZero())
		case "4000":
			assert.True(t, line.Debit.IsZero())
			assert.True(t, line.Credit.Equal(decimal.NewFromInt(500)))
		}
	}
	assert.True(t, totalDebit.Equal(totalCredit))
}
