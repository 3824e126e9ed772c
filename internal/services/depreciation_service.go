package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/config"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnitsProvider supplies the units produced in a given schedule month
// (1-based period index). Returning false means no usage data exists for
// that month and the walk stops there. Only units-of-production assets
// consult it.
type UnitsProvider func(period int) (int64, bool)

// DepreciationService grows per-asset depreciation schedules month by month
// and pairs every schedule row with a pending scheduled transaction against
// the configured depreciation-expense account.
type DepreciationService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

// NewDepreciationService creates a new depreciation service
func NewDepreciationService(repos *repository.Repositories, cfg *config.Config) *DepreciationService {
	return &DepreciationService{repos: repos, cfg: cfg}
}

// monthStart returns the first day of t's month
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last day of t's month
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, -1)
}

// GenerateSchedule advances the asset's schedule one calendar month at a
// time up to and including upTo's month. The walk is resumable: it starts
// the month after the last recorded entry, carrying forward that entry's
// book value and accumulated depreciation, and never recomputes from the
// purchase date. Any method error aborts the whole walk with nothing
// persisted. Returns the newly generated entries.
func (s *DepreciationService) GenerateSchedule(ctx context.Context, assetID uint, upTo time.Time, units UnitsProvider) ([]models.DepreciationEntry, error) {
	asset, err := s.repos.Asset.FindByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load asset: %w", err)
	}

	method, err := MethodForAsset(asset)
	if err != nil {
		return nil, err
	}
	if method.PerPeriod() && units == nil {
		return nil, fmt.Errorf("%w: units of production needs per-month usage data", ErrInvalidInput)
	}

	expenseAccount, err := s.repos.Account.FindByCode(ctx, s.cfg.DepreciationExpenseCode)
	if err != nil {
		return nil, fmt.Errorf("%w: depreciation expense account %q not found", ErrInvalidAccount, s.cfg.DepreciationExpenseCode)
	}

	// Resume point
	period := 1
	bookValue := asset.OriginalCost
	accumulated := decimal.Zero
	periodStart := monthStart(asset.PurchaseDate)

	last, err := s.repos.Asset.LastEntry(ctx, asset.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if last != nil {
		period = last.Period + 1
		bookValue = last.BookValue
		accumulated = last.AccumulatedDepreciation
		periodStart = monthStart(last.PeriodEnd.AddDate(0, 0, 1))
	}

	entries, err := s.walk(asset, method, units, period, bookValue, accumulated, periodStart, upTo)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// Persist entries and their paired scheduled transactions as one unit
	err = s.repos.Atomic(ctx, func(r *repository.Repositories) error {
		for i := range entries {
			st := models.ScheduledTransaction{
				DueDate:         entries[i].PeriodEnd,
				Description:     fmt.Sprintf("Depreciation of %s (period %d)", asset.Name, entries[i].Period),
				DebitAccountID:  expenseAccount.ID,
				CreditAccountID: asset.AccountID,
				Amount:          entries[i].Expense,
				Source:          models.SourceDepreciation,
				Status:          models.ScheduledStatusPending,
				FixedAssetID:    &asset.ID,
			}
			if err := r.Scheduled.Create(ctx, &st); err != nil {
				return fmt.Errorf("failed to create scheduled entry: %w", err)
			}
			entries[i].ScheduledTransactionID = &st.ID
		}
		if err := r.Asset.CreateEntries(ctx, entries); err != nil {
			return fmt.Errorf("failed to create schedule entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// walk computes the new schedule rows without touching the store
func (s *DepreciationService) walk(asset *models.FixedAsset, method Method, units UnitsProvider,
	period int, bookValue, accumulated decimal.Decimal, periodStart, upTo time.Time) ([]models.DepreciationEntry, error) {

	var maxPeriods int
	if asset.UsefulLifeYears != nil {
		maxPeriods = *asset.UsefulLifeYears * 12
	}

	var entries []models.DepreciationEntry
	for !periodStart.After(upTo) {
		// Fully depreciated: the entry that reached salvage was already emitted
		if bookValue.Equal(asset.SalvageValue) {
			break
		}
		if maxPeriods > 0 && period > maxPeriods {
			break
		}

		in := MethodInput{
			Cost:      asset.OriginalCost,
			Salvage:   asset.SalvageValue,
			BookValue: bookValue,
			Period:    formulaPeriod(method, period),
		}
		if method.PerPeriod() {
			produced, ok := units(period)
			if !ok {
				break
			}
			in.UnitsProduced = produced
		}

		amount, err := PeriodAmount(method, in)
		if err != nil {
			return nil, err
		}

		expense := amount
		if !method.PerPeriod() {
			expense = amount.Div(twelve)
		}
		expense = expense.Round(2)
		expense = clampToSalvage(expense, bookValue, asset.SalvageValue)

		// A residual under half a cent rounds to a zero expense, which can
		// never be posted as a transaction. The schedule ends at the last
		// postable period.
		if expense.IsZero() {
			break
		}

		bookValue = bookValue.Sub(expense)
		accumulated = accumulated.Add(expense)

		entries = append(entries, models.DepreciationEntry{
			FixedAssetID:            asset.ID,
			Period:                  period,
			PeriodStart:             periodStart,
			PeriodEnd:               monthEnd(periodStart),
			Expense:                 expense,
			AccumulatedDepreciation: accumulated,
			BookValue:               bookValue,
		})

		period++
		periodStart = periodStart.AddDate(0, 1, 0)
	}
	return entries, nil
}

// formulaPeriod maps the monthly walk counter onto the period index a
// formula expects: annual methods see the year index, units of production
// sees the month itself.
func formulaPeriod(method Method, monthPeriod int) int {
	if method.PerPeriod() {
		return monthPeriod
	}
	return (monthPeriod-1)/12 + 1
}

// Schedule returns the recorded schedule for an asset
func (s *DepreciationService) Schedule(ctx context.Context, assetID uint) ([]models.DepreciationEntry, error) {
	if _, err := s.repos.Asset.FindByID(ctx, assetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.repos.Asset.ListEntries(ctx, assetID)
}
