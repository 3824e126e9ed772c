package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the recurrence step of a recurring transaction definition
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	// FrequencyCustom advances by IntervalDays days per occurrence
	FrequencyCustom Frequency = "custom"
)

// IsValid checks if the frequency is recognized
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// RecurringTransaction is a definition that expands into a stream of
// scheduled transactions sharing its description, accounts and amount.
// A nil EndDate means an effectively unbounded horizon (70 years out).
type RecurringTransaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Description     string          `gorm:"not null" json:"description"`
	DebitAccountID  uint            `gorm:"not null;index" json:"debit_account_id"`
	CreditAccountID uint            `gorm:"not null;index" json:"credit_account_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Frequency       Frequency       `gorm:"not null" json:"frequency"`
	// IntervalDays is only meaningful for FrequencyCustom
	IntervalDays *int       `json:"interval_days,omitempty"`
	StartDate    time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate      *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Associations
	DebitAccount  Account `gorm:"foreignKey:DebitAccountID" json:"debit_account,omitempty"`
	CreditAccount Account `gorm:"foreignKey:CreditAccountID" json:"credit_account,omitempty"`
}

// TableName specifies the table name for RecurringTransaction
func (RecurringTransaction) TableName() string {
	return "recurring_transactions"
}

// RecurringTransactionResponse is the JSON response format
type RecurringTransactionResponse struct {
	ID              uint            `json:"id"`
	Description     string          `json:"description"`
	DebitAccountID  uint            `json:"debit_account_id"`
	CreditAccountID uint            `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Frequency       Frequency       `json:"frequency"`
	IntervalDays    *int            `json:"interval_days,omitempty"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
}

// ToResponse converts RecurringTransaction to RecurringTransactionResponse
func (r *RecurringTransaction) ToResponse() RecurringTransactionResponse {
	return RecurringTransactionResponse{
		ID:              r.ID,
		Description:     r.Description,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
		Frequency:       r.Frequency,
		IntervalDays:    r.IntervalDays,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
	}
}
