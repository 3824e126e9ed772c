package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionSource tags who created a transaction. The source is a
// capability: each source names the single component authorized to edit or
// delete the row, so module-generated entries cannot be mutated from the
// general transaction screen.
type TransactionSource string

const (
	SourceGeneral      TransactionSource = "GENERAL"
	SourceAssetImport  TransactionSource = "ASSET_IMPORT"
	SourceDepreciation TransactionSource = "DEPRECIATION"
	SourceReceivable   TransactionSource = "RECEIVABLE"
	SourcePayable      TransactionSource = "PAYABLE"
	SourceRecurring    TransactionSource = "RECURRING"
)

// IsValid checks if the source tag is recognized
func (s TransactionSource) IsValid() bool {
	switch s {
	case SourceGeneral, SourceAssetImport, SourceDepreciation,
		SourceReceivable, SourcePayable, SourceRecurring:
		return true
	}
	return false
}

// Transaction is a posted double-entry ledger row: one account debited, one
// credited, by the same amount. Mutated only through reverse+repost in the
// ledger service.
type Transaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Date            time.Time         `gorm:"type:date;not null;index" json:"date"`
	Description     string            `gorm:"not null" json:"description"`
	DebitAccountID  uint              `gorm:"not null;index" json:"debit_account_id"`
	CreditAccountID uint              `gorm:"not null;index" json:"credit_account_id"`
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Source          TransactionSource `gorm:"not null;index;default:GENERAL" json:"source"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Associations
	DebitAccount  Account `gorm:"foreignKey:DebitAccountID" json:"debit_account,omitempty"`
	CreditAccount Account `gorm:"foreignKey:CreditAccountID" json:"credit_account,omitempty"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionResponse is the JSON response format for transactions
type TransactionResponse struct {
	ID              uint              `json:"id"`
	Date            time.Time         `json:"date"`
	Description     string            `json:"description"`
	DebitAccountID  uint              `json:"debit_account_id"`
	CreditAccountID uint              `json:"credit_account_id"`
	DebitAccount    string            `json:"debit_account,omitempty"`
	CreditAccount   string            `json:"credit_account,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`
	Source          TransactionSource `json:"source"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	resp := TransactionResponse{
		ID:              t.ID,
		Date:            t.Date,
		Description:     t.Description,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
		Amount:          t.Amount,
		Source:          t.Source,
		CreatedAt:       t.CreatedAt,
	}
	if t.DebitAccount.ID != 0 {
		resp.DebitAccount = t.DebitAccount.Name
	}
	if t.CreditAccount.ID != 0 {
		resp.CreditAccount = t.CreditAccount.Name
	}
	return resp
}
