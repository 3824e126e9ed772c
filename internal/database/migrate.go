package database

import (
	"github.com/mgodoy/bookkeeper-api/internal/config"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema. With a sqlite file as the default
// store there is no external migration step; the API owns its schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.ScheduledTransaction{},
		&models.RecurringTransaction{},
		&models.FixedAsset{},
		&models.DepreciationEntry{},
	)
}

// Seed creates a starter chart of accounts on an empty database, wired to
// the account codes the services resolve defaults against. A database that
// already has accounts is left alone.
func Seed(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.Account{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accounts := []models.Account{
		{Code: "1000", Name: "Cash", Type: models.AccountTypeCurrentAsset},
		{Code: cfg.ReceivableAccountCode, Name: "Accounts Receivable", Type: models.AccountTypeCurrentAsset},
		{Code: "1500", Name: "Fixed Assets", Type: models.AccountTypeFixedAsset},
		{Code: cfg.PayableAccountCode, Name: "Accounts Payable", Type: models.AccountTypeCurrentLiability},
		{Code: cfg.EquityAccountCode, Name: "Owner's Equity", Type: models.AccountTypeEquity},
		{Code: "4000", Name: "Revenue", Type: models.AccountTypeRevenue},
		{Code: "5000", Name: "General Expenses", Type: models.AccountTypeExpense},
		{Code: cfg.DepreciationExpenseCode, Name: "Depreciation Expense", Type: models.AccountTypeExpense},
	}
	for i := range accounts {
		accounts[i].NormalBalance = accounts[i].Type.DefaultNormalBalance()
		accounts[i].Active = true
	}
	return db.Create(&accounts).Error
}
