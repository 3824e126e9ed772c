package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepreciationMethodName identifies one of the five supported methods
type DepreciationMethodName string

const (
	MethodStraightLine           DepreciationMethodName = "STRAIGHT_LINE"
	MethodSumOfYearsDigits       DepreciationMethodName = "SUM_OF_YEARS_DIGITS"
	MethodDecliningBalance       DepreciationMethodName = "DECLINING_BALANCE"
	MethodDoubleDecliningBalance DepreciationMethodName = "DOUBLE_DECLINING_BALANCE"
	MethodUnitsOfProduction      DepreciationMethodName = "UNITS_OF_PRODUCTION"
)

// IsValid checks if the method name is one of the five supported methods
func (m DepreciationMethodName) IsValid() bool {
	switch m {
	case MethodStraightLine, MethodSumOfYearsDigits, MethodDecliningBalance,
		MethodDoubleDecliningBalance, MethodUnitsOfProduction:
		return true
	}
	return false
}

// FixedAsset is a depreciable asset tied to the ledger account carrying its
// book value. Method parameters are stored nullable; the depreciation service
// converts them into a closed method variant before any calculation.
type FixedAsset struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	Name         string                 `gorm:"not null" json:"name"`
	PurchaseDate time.Time              `gorm:"type:date;not null" json:"purchase_date"`
	OriginalCost decimal.Decimal        `gorm:"type:decimal(15,2);not null" json:"original_cost"`
	SalvageValue decimal.Decimal        `gorm:"type:decimal(15,2);not null;default:0" json:"salvage_value"`
	Method       DepreciationMethodName `gorm:"not null" json:"method"`

	// Method-specific parameters
	UsefulLifeYears *int             `json:"useful_life_years,omitempty"`
	Rate            *decimal.Decimal `gorm:"type:decimal(9,6)" json:"rate,omitempty"`
	TotalUnits      *int64           `json:"total_units,omitempty"`

	// AccountID is the ledger account representing the asset's book value
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Account Account             `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Entries []DepreciationEntry `gorm:"foreignKey:FixedAssetID" json:"entries,omitempty"`
}

// TableName specifies the table name for FixedAsset
func (FixedAsset) TableName() string {
	return "fixed_assets"
}

// FixedAssetResponse is the JSON response format for fixed assets
type FixedAssetResponse struct {
	ID              uint                   `json:"id"`
	Name            string                 `json:"name"`
	PurchaseDate    time.Time              `json:"purchase_date"`
	OriginalCost    decimal.Decimal        `json:"original_cost"`
	SalvageValue    decimal.Decimal        `json:"salvage_value"`
	Method          DepreciationMethodName `json:"method"`
	UsefulLifeYears *int                   `json:"useful_life_years,omitempty"`
	Rate            *decimal.Decimal       `json:"rate,omitempty"`
	TotalUnits      *int64                 `json:"total_units,omitempty"`
	AccountID       uint                   `json:"account_id"`
	AccountName     string                 `json:"account_name,omitempty"`
	BookValue       decimal.Decimal        `json:"book_value"`
}

// ToResponse converts FixedAsset to FixedAssetResponse. BookValue reflects
// the last schedule entry when entries are loaded, else the original cost.
func (a *FixedAsset) ToResponse() FixedAssetResponse {
	resp := FixedAssetResponse{
		ID:              a.ID,
		Name:            a.Name,
		PurchaseDate:    a.PurchaseDate,
		OriginalCost:    a.OriginalCost,
		SalvageValue:    a.SalvageValue,
		Method:          a.Method,
		UsefulLifeYears: a.UsefulLifeYears,
		Rate:            a.Rate,
		TotalUnits:      a.TotalUnits,
		AccountID:       a.AccountID,
		BookValue:       a.OriginalCost,
	}
	if a.Account.ID != 0 {
		resp.AccountName = a.Account.Name
	}
	if n := len(a.Entries); n > 0 {
		resp.BookValue = a.Entries[n-1].BookValue
	}
	return resp
}
