package services

import (
	"fmt"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"
)

// twelve divides annual figures into monthly postings
var twelve = decimal.NewFromInt(12)

// MethodInput carries the asset state a depreciation formula reads
type MethodInput struct {
	Cost      decimal.Decimal
	Salvage   decimal.Decimal
	BookValue decimal.Decimal
	// Period is 1-based: the year index for annual methods, the month
	// index for units of production
	Period int
	// UnitsProduced is only read by units of production
	UnitsProduced int64
}

// Method is one of the five depreciation methods as a closed variant:
// each implementation is constructor-validated, so an invalid parameter
// combination is unrepresentable at a call site.
type Method interface {
	Name() models.DepreciationMethodName
	// PerPeriod reports whether amounts are already per-period figures;
	// annual methods are divided by 12 before posting
	PerPeriod() bool

	amount(in MethodInput) (decimal.Decimal, error)
}

// PeriodAmount computes one period's depreciation. The shared preconditions
// (cost > 0, salvage >= 0, cost >= salvage) are checked here, once, for
// every method; violations yield ErrInvalidInput and a zero amount.
func PeriodAmount(m Method, in MethodInput) (decimal.Decimal, error) {
	if !in.Cost.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: cost must be positive", ErrInvalidInput)
	}
	if in.Salvage.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: salvage cannot be negative", ErrInvalidInput)
	}
	if in.Cost.LessThan(in.Salvage) {
		return decimal.Zero, fmt.Errorf("%w: salvage exceeds cost", ErrInvalidInput)
	}
	return m.amount(in)
}

// clampToSalvage caps amount so book value never falls below salvage
func clampToSalvage(amount, bookValue, salvage decimal.Decimal) decimal.Decimal {
	if bookValue.Sub(amount).LessThan(salvage) {
		return bookValue.Sub(salvage)
	}
	return amount
}

// straightLine spreads (cost - salvage) evenly over the useful life
type straightLine struct {
	lifeYears int
}

// NewStraightLine builds the straight-line method; life must be positive
func NewStraightLine(lifeYears int) (Method, error) {
	if lifeYears <= 0 {
		return nil, fmt.Errorf("%w: useful life must be positive", ErrInvalidInput)
	}
	return straightLine{lifeYears: lifeYears}, nil
}

func (m straightLine) Name() models.DepreciationMethodName { return models.MethodStraightLine }
func (m straightLine) PerPeriod() bool                     { return false }

func (m straightLine) amount(in MethodInput) (decimal.Decimal, error) {
	return in.Cost.Sub(in.Salvage).Div(decimal.NewFromInt(int64(m.lifeYears))), nil
}

// sumOfYearsDigits weights early years more heavily: the year-n fraction is
// (life - n + 1) / (life * (life+1) / 2)
type sumOfYearsDigits struct {
	lifeYears int
}

// NewSumOfYearsDigits builds the sum-of-the-years'-digits method
func NewSumOfYearsDigits(lifeYears int) (Method, error) {
	if lifeYears <= 0 {
		return nil, fmt.Errorf("%w: useful life must be positive", ErrInvalidInput)
	}
	return sumOfYearsDigits{lifeYears: lifeYears}, nil
}

func (m sumOfYearsDigits) Name() models.DepreciationMethodName { return models.MethodSumOfYearsDigits }
func (m sumOfYearsDigits) PerPeriod() bool                     { return false }

func (m sumOfYearsDigits) amount(in MethodInput) (decimal.Decimal, error) {
	if in.Period > m.lifeYears {
		return decimal.Zero, fmt.Errorf("%w: period %d beyond %d-year life", ErrInvalidPeriod, in.Period, m.lifeYears)
	}
	digits := m.lifeYears * (m.lifeYears + 1) / 2
	remaining := int64(m.lifeYears - in.Period + 1)
	return in.Cost.Sub(in.Salvage).
		Mul(decimal.NewFromInt(remaining)).
		Div(decimal.NewFromInt(int64(digits))), nil
}

// decliningBalance applies a fixed rate to the running book value
type decliningBalance struct {
	rate decimal.Decimal
}

// NewDecliningBalance builds the declining-balance method; rate must be in (0, 1]
func NewDecliningBalance(rate decimal.Decimal) (Method, error) {
	if !rate.IsPositive() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: rate must be in (0, 1]", ErrInvalidInput)
	}
	return decliningBalance{rate: rate}, nil
}

func (m decliningBalance) Name() models.DepreciationMethodName { return models.MethodDecliningBalance }
func (m decliningBalance) PerPeriod() bool                     { return false }

func (m decliningBalance) amount(in MethodInput) (decimal.Decimal, error) {
	annual := in.BookValue.Mul(m.rate)
	return clampToSalvage(annual, in.BookValue, in.Salvage), nil
}

// doubleDecliningBalance is declining balance with the rate defaulting to
// twice the straight-line rate
type doubleDecliningBalance struct {
	rate decimal.Decimal
}

// NewDoubleDecliningBalance builds the double-declining-balance method.
// A nil rate defaults to 2/life.
func NewDoubleDecliningBalance(lifeYears int, rate *decimal.Decimal) (Method, error) {
	if lifeYears <= 0 {
		return nil, fmt.Errorf("%w: useful life must be positive", ErrInvalidInput)
	}
	r := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(lifeYears)))
	if rate != nil {
		r = *rate
	}
	if !r.IsPositive() || r.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: rate must be in (0, 1]", ErrInvalidInput)
	}
	return doubleDecliningBalance{rate: r}, nil
}

func (m doubleDecliningBalance) Name() models.DepreciationMethodName {
	return models.MethodDoubleDecliningBalance
}
func (m doubleDecliningBalance) PerPeriod() bool { return false }

func (m doubleDecliningBalance) amount(in MethodInput) (decimal.Decimal, error) {
	annual := in.BookValue.Mul(m.rate)
	return clampToSalvage(annual, in.BookValue, in.Salvage), nil
}

// unitsOfProduction depreciates by actual usage; its amounts are already
// per-period and are never divided by 12
type unitsOfProduction struct {
	totalUnits int64
}

// NewUnitsOfProduction builds the units-of-production method
func NewUnitsOfProduction(totalUnits int64) (Method, error) {
	if totalUnits <= 0 {
		return nil, fmt.Errorf("%w: total estimated units must be positive", ErrInvalidInput)
	}
	return unitsOfProduction{totalUnits: totalUnits}, nil
}

func (m unitsOfProduction) Name() models.DepreciationMethodName {
	return models.MethodUnitsOfProduction
}
func (m unitsOfProduction) PerPeriod() bool { return true }

func (m unitsOfProduction) amount(in MethodInput) (decimal.Decimal, error) {
	if in.UnitsProduced < 0 {
		return decimal.Zero, fmt.Errorf("%w: units produced cannot be negative", ErrInvalidInput)
	}
	amount := in.Cost.Sub(in.Salvage).
		Mul(decimal.NewFromInt(in.UnitsProduced)).
		Div(decimal.NewFromInt(m.totalUnits))
	return clampToSalvage(amount, in.BookValue, in.Salvage), nil
}

// MethodForAsset converts an asset's stored method name and nullable
// parameters into the closed variant, rejecting unknown names and invalid
// parameter combinations before any calculation runs.
func MethodForAsset(asset *models.FixedAsset) (Method, error) {
	switch asset.Method {
	case models.MethodStraightLine:
		if asset.UsefulLifeYears == nil {
			return nil, fmt.Errorf("%w: straight line requires a useful life", ErrInvalidInput)
		}
		return NewStraightLine(*asset.UsefulLifeYears)
	case models.MethodSumOfYearsDigits:
		if asset.UsefulLifeYears == nil {
			return nil, fmt.Errorf("%w: sum of years' digits requires a useful life", ErrInvalidInput)
		}
		return NewSumOfYearsDigits(*asset.UsefulLifeYears)
	case models.MethodDecliningBalance:
		if asset.Rate == nil {
			return nil, fmt.Errorf("%w: declining balance requires a rate", ErrInvalidInput)
		}
		return NewDecliningBalance(*asset.Rate)
	case models.MethodDoubleDecliningBalance:
		if asset.UsefulLifeYears == nil {
			return nil, fmt.Errorf("%w: double declining balance requires a useful life", ErrInvalidInput)
		}
		return NewDoubleDecliningBalance(*asset.UsefulLifeYears, asset.Rate)
	case models.MethodUnitsOfProduction:
		if asset.TotalUnits == nil {
			return nil, fmt.Errorf("%w: units of production requires total estimated units", ErrInvalidInput)
		}
		return NewUnitsOfProduction(*asset.TotalUnits)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, asset.Method)
	}
}
