package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts
type AccountType string

const (
	AccountTypeCurrentAsset      AccountType = "CURRENT_ASSET"
	AccountTypeFixedAsset        AccountType = "FIXED_ASSET"
	AccountTypeCurrentLiability  AccountType = "CURRENT_LIABILITY"
	AccountTypeLongTermLiability AccountType = "LONGTERM_LIABILITY"
	AccountTypeEquity            AccountType = "EQUITY"
	AccountTypeRevenue           AccountType = "REVENUE"
	AccountTypeExpense           AccountType = "EXPENSE"
)

// IsValid checks if the account type is a known category
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCurrentAsset, AccountTypeFixedAsset, AccountTypeCurrentLiability,
		AccountTypeLongTermLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance is the side on which an account type ordinarily carries a
// positive balance. Presentation only; posting arithmetic never consults it.
type NormalBalance string

const (
	NormalBalanceDebit  NormalBalance = "DEBIT"
	NormalBalanceCredit NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the customary side for an account type
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case AccountTypeCurrentAsset, AccountTypeFixedAsset, AccountTypeExpense:
		return NormalBalanceDebit
	default:
		return NormalBalanceCredit
	}
}

// Account represents a ledger account. Balance is derived state: it always
// equals the net signed sum of posted transactions touching the account
// (+amount when debited, -amount when credited) and is only ever written by
// the ledger service.
type Account struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"uniqueIndex;not null" json:"code"`
	Name          string          `gorm:"not null" json:"name"`
	Type          AccountType     `gorm:"not null;index" json:"type"`
	NormalBalance NormalBalance   `gorm:"not null" json:"normal_balance"`
	Balance       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// AccountResponse is the JSON response format for accounts
type AccountResponse struct {
	ID            uint            `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Type          AccountType     `json:"type"`
	NormalBalance NormalBalance   `json:"normal_balance"`
	Balance       decimal.Decimal `json:"balance"`
	// DisplayBalance is the balance seen from the account's normal side,
	// so liability and revenue accounts read positive on statements.
	DisplayBalance decimal.Decimal `json:"display_balance"`
	Active         bool            `json:"active"`
}

// ToResponse converts Account to AccountResponse
func (a *Account) ToResponse() AccountResponse {
	display := a.Balance
	if a.NormalBalance == NormalBalanceCredit {
		display = display.Neg()
	}
	return AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Type:           a.Type,
		NormalBalance:  a.NormalBalance,
		Balance:        a.Balance,
		DisplayBalance: display,
		Active:         a.Active,
	}
}
