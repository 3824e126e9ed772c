package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/config"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// FixedAssetService registers depreciable assets, posts their acquisition
// into the ledger, and kicks off schedule generation
type FixedAssetService struct {
	repos        *repository.Repositories
	ledger       *LedgerService
	depreciation *DepreciationService
	cfg          *config.Config
}

// NewFixedAssetService creates a new fixed asset service
func NewFixedAssetService(repos *repository.Repositories, ledger *LedgerService, depreciation *DepreciationService, cfg *config.Config) *FixedAssetService {
	return &FixedAssetService{repos: repos, ledger: ledger, depreciation: depreciation, cfg: cfg}
}

// validate checks the asset's own invariants and that its method parameters
// form a representable variant
func (s *FixedAssetService) validate(asset *models.FixedAsset) error {
	if !asset.OriginalCost.IsPositive() {
		return fmt.Errorf("%w: original cost must be positive", ErrInvalidInput)
	}
	if asset.SalvageValue.IsNegative() || !asset.SalvageValue.LessThan(asset.OriginalCost) {
		return fmt.Errorf("%w: salvage must satisfy 0 <= salvage < cost", ErrInvalidInput)
	}
	_, err := MethodForAsset(asset)
	return err
}

// Create registers the asset and posts its acquisition transaction: the
// asset's book-value account is debited, creditAccountID (defaulting to the
// configured payable account) is credited with the original cost.
func (s *FixedAssetService) Create(ctx context.Context, asset *models.FixedAsset, creditAccountID uint) (*models.FixedAsset, error) {
	if err := s.validate(asset); err != nil {
		return nil, err
	}

	account, err := s.repos.Account.FindByID(ctx, asset.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: asset account %d does not exist", ErrInvalidAccount, asset.AccountID)
		}
		return nil, fmt.Errorf("failed to load asset account: %w", err)
	}
	if account.Type != models.AccountTypeFixedAsset {
		return nil, fmt.Errorf("%w: account %s is not a fixed-asset account", ErrInvalidAccount, account.Code)
	}

	if creditAccountID == 0 {
		payable, err := s.repos.Account.FindByCode(ctx, s.cfg.PayableAccountCode)
		if err != nil {
			return nil, fmt.Errorf("%w: payable account %q not found", ErrInvalidAccount, s.cfg.PayableAccountCode)
		}
		creditAccountID = payable.ID
	}

	err = s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		if err := r.Asset.Create(ctx, asset); err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		acquisition := models.Transaction{
			Date:            asset.PurchaseDate,
			Description:     fmt.Sprintf("Acquisition of %s", asset.Name),
			DebitAccountID:  asset.AccountID,
			CreditAccountID: creditAccountID,
			Amount:          asset.OriginalCost,
			Source:          models.SourceAssetImport,
		}
		return s.ledger.postLocked(ctx, r, &acquisition)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// List returns all fixed assets
func (s *FixedAssetService) List(ctx context.Context) ([]models.FixedAsset, error) {
	return s.repos.Asset.List(ctx)
}

// FindByID loads one fixed asset
func (s *FixedAssetService) FindByID(ctx context.Context, id uint) (*models.FixedAsset, error) {
	asset, err := s.repos.Asset.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return asset, nil
}

// ImportResult summarizes an XLSX bulk import
type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportXLSX bulk-imports assets from a spreadsheet. Expected columns:
// name, purchase date (2006-01-02), cost, salvage, method, life years,
// rate, total units, account code. The first row is a header. Rows are
// imported independently; a bad row is reported and skipped.
func (s *FixedAssetService) ImportXLSX(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable spreadsheet", ErrInvalidInput)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		asset, creditAccountID, err := s.parseRow(ctx, row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		if _, err := s.Create(ctx, asset, creditAccountID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *FixedAssetService) parseRow(ctx context.Context, row []string) (*models.FixedAsset, uint, error) {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	if cell(0) == "" {
		return nil, 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	purchaseDate, err := time.Parse("2006-01-02", cell(1))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bad purchase date %q", ErrInvalidInput, cell(1))
	}
	cost, err := decimal.NewFromString(cell(2))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bad cost %q", ErrInvalidInput, cell(2))
	}
	salvage := decimal.Zero
	if cell(3) != "" {
		if salvage, err = decimal.NewFromString(cell(3)); err != nil {
			return nil, 0, fmt.Errorf("%w: bad salvage %q", ErrInvalidInput, cell(3))
		}
	}

	asset := &models.FixedAsset{
		Name:         cell(0),
		PurchaseDate: purchaseDate,
		OriginalCost: cost,
		SalvageValue: salvage,
		Method:       models.DepreciationMethodName(cell(4)),
	}
	if v := cell(5); v != "" {
		life, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad useful life %q", ErrInvalidInput, v)
		}
		asset.UsefulLifeYears = &life
	}
	if v := cell(6); v != "" {
		rate, err := decimal.NewFromString(v)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad rate %q", ErrInvalidInput, v)
		}
		asset.Rate = &rate
	}
	if v := cell(7); v != "" {
		total, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: bad total units %q", ErrInvalidInput, v)
		}
		asset.TotalUnits = &total
	}

	account, err := s.repos.Account.FindByCode(ctx, cell(8))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: account %q not found", ErrInvalidAccount, cell(8))
	}
	asset.AccountID = account.ID

	return asset, 0, nil
}
