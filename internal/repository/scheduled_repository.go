package repository

import (
	"context"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"

	"gorm.io/gorm"
)

// ScheduledTransactionRepository defines the interface for the schedule of
// not-yet-posted entries
type ScheduledTransactionRepository interface {
	Create(ctx context.Context, entry *models.ScheduledTransaction) error
	CreateBatch(ctx context.Context, entries []models.ScheduledTransaction) error
	FindByID(ctx context.Context, id uint) (*models.ScheduledTransaction, error)
	// FindDue returns pending entries with due_date <= asOf, oldest first
	FindDue(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error)
	List(ctx context.Context, status string) ([]models.ScheduledTransaction, error)
	Update(ctx context.Context, entry *models.ScheduledTransaction) error
	Delete(ctx context.Context, id uint) error
	DeleteByRecurring(ctx context.Context, recurringID uint) error
}

// scheduledTransactionRepository handles database operations for scheduled transactions
type scheduledTransactionRepository struct {
	db *gorm.DB
}

// NewScheduledTransactionRepository creates a new scheduled transaction repository
func NewScheduledTransactionRepository(db *gorm.DB) ScheduledTransactionRepository {
	return &scheduledTransactionRepository{db: db}
}

func (r *scheduledTransactionRepository) Create(ctx context.Context, entry *models.ScheduledTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduledTransactionRepository) CreateBatch(ctx context.Context, entries []models.ScheduledTransaction) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 200).Error
}

func (r *scheduledTransactionRepository) FindByID(ctx context.Context, id uint) (*models.ScheduledTransaction, error) {
	var entry models.ScheduledTransaction
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduledTransactionRepository) FindDue(ctx context.Context, asOf time.Time) ([]models.ScheduledTransaction, error) {
	var entries []models.ScheduledTransaction
	err := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		Where("status = ? AND due_date <= ?", models.ScheduledStatusPending, asOf).
		Order("due_date ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduledTransactionRepository) List(ctx context.Context, status string) ([]models.ScheduledTransaction, error) {
	var entries []models.ScheduledTransaction
	q := r.db.WithContext(ctx).
		Preload("DebitAccount").
		Preload("CreditAccount").
		Order("due_date ASC, id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&entries).Error
	return entries, err
}

func (r *scheduledTransactionRepository) Update(ctx context.Context, entry *models.ScheduledTransaction) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *scheduledTransactionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ScheduledTransaction{}, id).Error
}

func (r *scheduledTransactionRepository) DeleteByRecurring(ctx context.Context, recurringID uint) error {
	return r.db.WithContext(ctx).
		Where("recurring_transaction_id = ? AND status = ?", recurringID, models.ScheduledStatusPending).
		Delete(&models.ScheduledTransaction{}).Error
}
