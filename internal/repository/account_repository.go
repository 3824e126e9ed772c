package repository

import (
	"context"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// AccountRepository defines the interface for chart-of-accounts data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	FindByCode(ctx context.Context, code string) (*models.Account, error)
	List(ctx context.Context, activeOnly bool) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	// AddToBalance applies a signed delta to the stored balance column
	AddToBalance(ctx context.Context, id uint, delta decimal.Decimal) error
}

// accountRepository handles database operations for accounts
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) List(ctx context.Context, activeOnly bool) ([]models.Account, error) {
	var accounts []models.Account
	q := r.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) AddToBalance(ctx context.Context, id uint, delta decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
