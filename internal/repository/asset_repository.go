package repository

import (
	"context"
	"errors"

	"github.com/mgodoy/bookkeeper-api/internal/models"

	"gorm.io/gorm"
)

// FixedAssetRepository defines the interface for fixed assets and their
// depreciation schedules
type FixedAssetRepository interface {
	Create(ctx context.Context, asset *models.FixedAsset) error
	FindByID(ctx context.Context, id uint) (*models.FixedAsset, error)
	List(ctx context.Context) ([]models.FixedAsset, error)
	Delete(ctx context.Context, id uint) error
	// CountByAccount reports how many assets reference a ledger account;
	// accounts with references cannot be deactivated
	CountByAccount(ctx context.Context, accountID uint) (int64, error)

	// LastEntry returns the most recent schedule row for an asset, or nil
	// when no schedule exists yet
	LastEntry(ctx context.Context, assetID uint) (*models.DepreciationEntry, error)
	ListEntries(ctx context.Context, assetID uint) ([]models.DepreciationEntry, error)
	CreateEntries(ctx context.Context, entries []models.DepreciationEntry) error
	// LinkEntryTransaction records the posted transaction on the schedule
	// row that produced the given scheduled entry
	LinkEntryTransaction(ctx context.Context, scheduledID, transactionID uint) error
}

// fixedAssetRepository handles database operations for fixed assets
type fixedAssetRepository struct {
	db *gorm.DB
}

// NewFixedAssetRepository creates a new fixed asset repository
func NewFixedAssetRepository(db *gorm.DB) FixedAssetRepository {
	return &fixedAssetRepository{db: db}
}

func (r *fixedAssetRepository) Create(ctx context.Context, asset *models.FixedAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *fixedAssetRepository) FindByID(ctx context.Context, id uint) (*models.FixedAsset, error) {
	var asset models.FixedAsset
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&asset, id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *fixedAssetRepository) List(ctx context.Context) ([]models.FixedAsset, error) {
	var assets []models.FixedAsset
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("id ASC").
		Find(&assets).Error
	return assets, err
}

func (r *fixedAssetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.FixedAsset{}, id).Error
}

func (r *fixedAssetRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FixedAsset{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

func (r *fixedAssetRepository) LastEntry(ctx context.Context, assetID uint) (*models.DepreciationEntry, error) {
	var entry models.DepreciationEntry
	err := r.db.WithContext(ctx).
		Where("fixed_asset_id = ?", assetID).
		Order("period DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *fixedAssetRepository) ListEntries(ctx context.Context, assetID uint) ([]models.DepreciationEntry, error) {
	var entries []models.DepreciationEntry
	err := r.db.WithContext(ctx).
		Where("fixed_asset_id = ?", assetID).
		Order("period ASC").
		Find(&entries).Error
	return entries, err
}

func (r *fixedAssetRepository) CreateEntries(ctx context.Context, entries []models.DepreciationEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, 200).Error
}

func (r *fixedAssetRepository) LinkEntryTransaction(ctx context.Context, scheduledID, transactionID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.DepreciationEntry{}).
		Where("scheduled_transaction_id = ?", scheduledID).
		Updates(map[string]interface{}{
			"scheduled_transaction_id": nil,
			"transaction_id":           transactionID,
		}).Error
}
