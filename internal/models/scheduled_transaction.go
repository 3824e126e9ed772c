package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scheduled transaction status constants. Posted and deleted are terminal;
// a postponed entry stays pending under a later due date.
const (
	ScheduledStatusPending = "pending"
	ScheduledStatusPosted  = "posted"
	ScheduledStatusDeleted = "deleted"
)

// ScheduledTransaction is a transaction-shaped record not yet applied to
// account balances. It is promoted 1:1 into a Transaction when due, or
// removed without ever touching the ledger.
type ScheduledTransaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	DueDate         time.Time         `gorm:"type:date;not null;index" json:"due_date"`
	Description     string            `gorm:"not null" json:"description"`
	DebitAccountID  uint              `gorm:"not null;index" json:"debit_account_id"`
	CreditAccountID uint              `gorm:"not null;index" json:"credit_account_id"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Source          TransactionSource `gorm:"not null;index;default:GENERAL" json:"source"`
	Status          string            `gorm:"default:pending;not null;index" json:"status"`
	// RecurringTransactionID links entries spawned from a recurring definition
	RecurringTransactionID *uint `gorm:"index" json:"recurring_transaction_id,omitempty"`
	// FixedAssetID links depreciation entries to their asset
	FixedAssetID *uint     `gorm:"index" json:"fixed_asset_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	DebitAccount  Account `gorm:"foreignKey:DebitAccountID" json:"debit_account,omitempty"`
	CreditAccount Account `gorm:"foreignKey:CreditAccountID" json:"credit_account,omitempty"`
}

// TableName specifies the table name for ScheduledTransaction
func (ScheduledTransaction) TableName() string {
	return "scheduled_transactions"
}

// IsPending returns true while the entry can still be edited, postponed,
// deleted or posted
func (s *ScheduledTransaction) IsPending() bool {
	return s.Status == ScheduledStatusPending
}

// IsDue returns true if the entry is pending with a due date on or before asOf
func (s *ScheduledTransaction) IsDue(asOf time.Time) bool {
	return s.IsPending() && !s.DueDate.After(asOf)
}

// ToTransaction converts the scheduled entry into the ledger transaction it
// is promoted to, carrying the current field values
func (s *ScheduledTransaction) ToTransaction() Transaction {
	return Transaction{
		Date:            s.DueDate,
		Description:     s.Description,
		DebitAccountID:  s.DebitAccountID,
		CreditAccountID: s.CreditAccountID,
		Amount:          s.Amount,
		Source:          s.Source,
	}
}

// ScheduledTransactionResponse is the JSON response format
type ScheduledTransactionResponse struct {
	ID              uint              `json:"id"`
	DueDate         time.Time         `json:"due_date"`
	Description     string            `json:"description"`
	DebitAccountID  uint              `json:"debit_account_id"`
	CreditAccountID uint              `json:"credit_account_id"`
	DebitAccount    string            `json:"debit_account,omitempty"`
	CreditAccount   string            `json:"credit_account,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Source          TransactionSource `json:"source"`
	Status          string            `json:"status"`
}

// ToResponse converts ScheduledTransaction to ScheduledTransactionResponse
func (s *ScheduledTransaction) ToResponse() ScheduledTransactionResponse {
	resp := ScheduledTransactionResponse{
		ID:              s.ID,
		DueDate:         s.DueDate,
		Description:     s.Description,
		DebitAccountID:  s.DebitAccountID,
		CreditAccountID: s.CreditAccountID,
		Amount:          s.Amount,
		Source:          s.Source,
		Status:          s.Status,
	}
	if s.DebitAccount.ID != 0 {
		resp.DebitAccount = s.DebitAccount.Name
	}
	if s.CreditAccount.ID != 0 {
		resp.CreditAccount = s.CreditAccount.Name
	}
	return resp
}
