package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationEntry is one month of an asset's depreciation schedule.
// Invariants: book_value_n = book_value_{n-1} - expense_n, never below the
// asset's salvage value; accumulated depreciation is non-decreasing.
type DepreciationEntry struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	FixedAssetID uint `gorm:"not null;index" json:"fixed_asset_id"`
	// Period is the 1-based counter handed to the method formula
	Period                  int             `gorm:"not null" json:"period"`
	PeriodStart             time.Time       `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd               time.Time       `gorm:"type:date;not null;index" json:"period_end"`
	Expense                 decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"expense"`
	AccumulatedDepreciation decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"accumulated_depreciation"`
	BookValue               decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"book_value"`
	// ScheduledTransactionID points at the pending entry this row produced;
	// cleared when that entry is promoted or removed.
	ScheduledTransactionID *uint     `gorm:"index" json:"scheduled_transaction_id,omitempty"`
	TransactionID          *uint     `gorm:"index" json:"transaction_id,omitempty"`
	CreatedAt              time.Time `json:"created_at"`

	// Associations
	FixedAsset *FixedAsset `gorm:"foreignKey:FixedAssetID" json:"-"`
}

// TableName specifies the table name for DepreciationEntry
func (DepreciationEntry) TableName() string {
	return "depreciation_entries"
}

// DepreciationEntryResponse is the JSON response format
type DepreciationEntryResponse struct {
	ID                      uint            `json:"id"`
	FixedAssetID            uint            `json:"fixed_asset_id"`
	Period                  int             `json:"period"`
	PeriodStart             time.Time       `json:"period_start"`
	PeriodEnd               time.Time       `json:"period_end"`
	Expense                 decimal.Decimal `json:"expense"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	BookValue               decimal.Decimal `json:"book_value"`
}

// ToResponse converts DepreciationEntry to DepreciationEntryResponse
func (e *DepreciationEntry) ToResponse() DepreciationEntryResponse {
	return DepreciationEntryResponse{
		ID:                      e.ID,
		FixedAssetID:            e.FixedAssetID,
		Period:                  e.Period,
		PeriodStart:             e.PeriodStart,
		PeriodEnd:               e.PeriodEnd,
		Expense:                 e.Expense,
		AccumulatedDepreciation: e.AccumulatedDepreciation,
		BookValue:               e.BookValue,
	}
}
