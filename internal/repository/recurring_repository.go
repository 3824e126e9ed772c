package repository

import (
	"context"

	"github.com/mgodoy/bookkeeper-api/internal/models"

	"gorm.io/gorm"
)

// RecurringTransactionRepository defines the interface for recurring
// transaction definitions
type RecurringTransactionRepository interface {
	Create(ctx context.Context, def *models.RecurringTransaction) error
	FindByID(ctx context.Context, id uint) (*models.RecurringTransaction, error)
	List(ctx context.Context) ([]models.RecurringTransaction, error)
	Delete(ctx context.Context, id uint) error
}

// recurringTransactionRepository handles database operations for recurring definitions
type recurringTransactionRepository struct {
	db *gorm.DB
}

// NewRecurringTransactionRepository creates a new recurring transaction repository
func NewRecurringTransactionRepository(db *gorm.DB) RecurringTransactionRepository {
	return &recurringTransactionRepository{db: db}
}

func (r *recurringTransactionRepository) Create(ctx context.Context, def *models.RecurringTransaction) error {
	return r.db.WithContext(ctx).Create(def).Error
}

func (r *recurringTransactionRepository) FindByID(ctx context.Context, id uint) (*models.RecurringTransaction, error) {
	var def models.RecurringTransaction
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		First(&def, id).Error
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *recurringTransactionRepository) List(ctx context.Context) ([]models.RecurringTransaction, error) {
	var defs []models.RecurringTransaction
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		Order("id ASC").
		Find(&defs).Error
	return defs, err
}

func (r *recurringTransactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RecurringTransaction{}, id).Error
}
