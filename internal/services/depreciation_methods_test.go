package services

import (
	"testing"

	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStraightLineAnnualAmount(t *testing.T) {
	method, err := NewStraightLine(5)
	assert.NoError(t, err)
	assert.Equal(t, models.MethodStraightLine, method.Name())
	assert.False(t, method.PerPeriod())

	amount, err := PeriodAmount(method, MethodInput{
		Cost:      dec("12000"),
		Salvage:   dec("0"),
		BookValue: dec("12000"),
		Period:    1,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("2400")), "got %s", amount)

	// Same figure for every year of the life
	amount, err = PeriodAmount(method, MethodInput{
		Cost:      dec("12000"),
		Salvage:   dec("0"),
		BookValue: dec("4800"),
		Period:    4,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("2400")))
}

func TestSharedPreconditions(t *testing.T) {
	straightLine, _ := NewStraightLine(5)
	sumOfYears, _ := NewSumOfYearsDigits(5)
	declining, _ := NewDecliningBalance(dec("0.3"))
	doubleDeclining, _ := NewDoubleDecliningBalance(5, nil)
	unitsOfProd, _ := NewUnitsOfProduction(1000)

	methods := map[string]Method{
		"straight line":            straightLine,
		"sum of years digits":      sumOfYears,
		"declining balance":        declining,
		"double declining balance": doubleDeclining,
		"units of production":      unitsOfProd,
	}

	bad := []struct {
		name string
		in   MethodInput
	}{
		{"zero cost", MethodInput{Cost: dec("0"), Salvage: dec("0"), BookValue: dec("0"), Period: 1}},
		{"negative cost", MethodInput{Cost: dec("-100"), Salvage: dec("0"), BookValue: dec("-100"), Period: 1}},
		{"negative salvage", MethodInput{Cost: dec("1000"), Salvage: dec("-1"), BookValue: dec("1000"), Period: 1}},
		{"salvage above cost", MethodInput{Cost: dec("1000"), Salvage: dec("1500"), BookValue: dec("1000"), Period: 1}},
	}

	for methodName, method := range methods {
		for _, tt := range bad {
			t.Run(methodName+"/"+tt.name, func(t *testing.T) {
				amount, err := PeriodAmount(method, tt.in)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.True(t, amount.IsZero())
			})
		}
	}
}

func TestSumOfYearsDigitsWeighting(t *testing.T) {
	method, err := NewSumOfYearsDigits(3)
	assert.NoError(t, err)

	// Depreciable base 9000, digits 1+2+3 = 6
	in := MethodInput{Cost: dec("10000"), Salvage: dec("1000"), BookValue: dec("10000")}

	expected := []string{"4500", "3000", "1500"}
	for year := 1; year <= 3; year++ {
		in.Period = year
		amount, err := PeriodAmount(method, in)
		assert.NoError(t, err)
		assert.True(t, amount.Equal(dec(expected[year-1])), "year %d: got %s", year, amount)
	}

	in.Period = 4
	_, err = PeriodAmount(method, in)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDecliningBalanceTracksBookValue(t *testing.T) {
	method, err := NewDecliningBalance(dec("0.5"))
	assert.NoError(t, err)

	amount, err := PeriodAmount(method, MethodInput{
		Cost:      dec("10000"),
		Salvage:   dec("0"),
		BookValue: dec("10000"),
		Period:    1,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("5000")))

	// Clamped so book value never crosses salvage
	amount, err = PeriodAmount(method, MethodInput{
		Cost:      dec("10000"),
		Salvage:   dec("800"),
		BookValue: dec("1000"),
		Period:    5,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("200")), "got %s", amount)
}

func TestDoubleDecliningDefaultRate(t *testing.T) {
	// Nil rate defaults to twice the straight-line rate: 2/5 = 0.4
	method, err := NewDoubleDecliningBalance(5, nil)
	assert.NoError(t, err)

	amount, err := PeriodAmount(method, MethodInput{
		Cost:      dec("10000"),
		Salvage:   dec("0"),
		BookValue: dec("10000"),
		Period:    1,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("4000")), "got %s", amount)

	// An explicit rate overrides the default
	rate := dec("0.25")
	method, err = NewDoubleDecliningBalance(5, &rate)
	assert.NoError(t, err)
	amount, err = PeriodAmount(method, MethodInput{
		Cost:      dec("10000"),
		Salvage:   dec("0"),
		BookValue: dec("10000"),
		Period:    1,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("2500")))
}

func TestUnitsOfProductionByUsage(t *testing.T) {
	method, err := NewUnitsOfProduction(10000)
	assert.NoError(t, err)
	assert.True(t, method.PerPeriod())

	amount, err := PeriodAmount(method, MethodInput{
		Cost:          dec("12000"),
		Salvage:       dec("2000"),
		BookValue:     dec("12000"),
		Period:        1,
		UnitsProduced: 500,
	})
	assert.NoError(t, err)
	assert.True(t, amount.Equal(dec("500")), "got %s", amount)

	_, err = PeriodAmount(method, MethodInput{
		Cost:          dec("12000"),
		Salvage:       dec("2000"),
		BookValue:     dec("12000"),
		Period:        1,
		UnitsProduced: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMethodConstructorValidation(t *testing.T) {
	_, err := NewStraightLine(0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSumOfYearsDigits(-3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDecliningBalance(dec("0"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDecliningBalance(dec("1.5"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	badRate := dec("2")
	_, err = NewDoubleDecliningBalance(5, &badRate)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDoubleDecliningBalance(0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewUnitsOfProduction(0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMethodForAsset(t *testing.T) {
	life := 5
	rate := dec("0.3")
	units := int64(1000)

	tests := []struct {
		name    string
		asset   models.FixedAsset
		wantErr error
	}{
		{
			name:  "straight line with life",
			asset: models.FixedAsset{Method: models.MethodStraightLine, UsefulLifeYears: &life},
		},
		{
			name:    "straight line without life",
			asset:   models.FixedAsset{Method: models.MethodStraightLine},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "sum of years digits without life",
			asset:   models.FixedAsset{Method: models.MethodSumOfYearsDigits},
			wantErr: ErrInvalidInput,
		},
		{
			name:  "declining balance with rate",
			asset: models.FixedAsset{Method: models.MethodDecliningBalance, Rate: &rate},
		},
		{
			name:    "declining balance without rate",
			asset:   models.FixedAsset{Method: models.MethodDecliningBalance},
			wantErr: ErrInvalidInput,
		},
		{
			name:  "double declining with life only",
			asset: models.FixedAsset{Method: models.MethodDoubleDecliningBalance, UsefulLifeYears: &life},
		},
		{
			name:  "units of production with total",
			asset: models.FixedAsset{Method: models.MethodUnitsOfProduction, TotalUnits: &units},
		},
		{
			name:    "units of production without total",
			asset:   models.FixedAsset{Method: models.MethodUnitsOfProduction},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown method",
			asset:   models.FixedAsset{Method: "MAGIC"},
			wantErr: ErrInvalidMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, err := MethodForAsset(&tt.asset)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.asset.Method, method.Name())
		})
	}
}
