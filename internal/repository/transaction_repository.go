package repository

import (
	"context"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// TransactionFilter narrows ledger queries for listing and reports
type TransactionFilter struct {
	AccountID uint
	Source    models.TransactionSource
	StartDate *time.Time
	EndDate   *time.Time
}

// TransactionRepository defines the interface for posted-ledger data access
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, id uint) error
	// NetBalance recomputes an account's balance from its posted rows:
	// +amount where debited, -amount where credited. Used to verify the
	// stored balance column.
	NetBalance(ctx context.Context, accountID uint) (decimal.Decimal, error)
}

// transactionRepository handles database operations for transactions
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		First(&tx, id).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var txs []models.Transaction
	q := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		Order("date ASC, id ASC")

	if filter.AccountID != 0 {
		q = q.Where("debit_account_id = ? OR credit_account_id = ?", filter.AccountID, filter.AccountID)
	}
	if filter.Source != "" {
		q = q.Where("source = ?", filter.Source)
	}
	if filter.StartDate != nil {
		q = q.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("date <= ?", *filter.EndDate)
	}

	err := q.Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error
}

func (r *transactionRepository) NetBalance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN debit_account_id = ? THEN amount ELSE -amount END), 0) as balance", accountID).
		Where("debit_account_id = ? OR credit_account_id = ?", accountID, accountID).
		Scan(&result).Error
	return result.Balance, err
}
