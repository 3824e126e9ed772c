package services

import (
	"fmt"
	"time"

	"github.com/mgodoy/bookkeeper-api/internal/models"
)

// defaultHorizonYears bounds expansion when a definition has no end date
const defaultHorizonYears = 70

// RecurrenceService expands recurring definitions into their ordered,
// finite sequence of occurrence dates
type RecurrenceService struct{}

// NewRecurrenceService creates a new recurrence service
func NewRecurrenceService() *RecurrenceService {
	return &RecurrenceService{}
}

// Horizon returns the last date a definition expands to: its end date, or
// 70 years past its start when unbounded
func (s *RecurrenceService) Horizon(def *models.RecurringTransaction) time.Time {
	if def.EndDate != nil {
		return *def.EndDate
	}
	return def.StartDate.AddDate(defaultHorizonYears, 0, 0)
}

// Expand produces every occurrence date from the definition's start through
// the horizon, inclusive. Monthly and yearly stepping clamp to the last
// valid day of the target month while keeping the original day-of-month as
// the anchor, so Jan 31 yields Feb 29 (leap) or Feb 28 and then Mar 31.
func (s *RecurrenceService) Expand(def *models.RecurringTransaction, horizon time.Time) ([]time.Time, error) {
	if !def.Frequency.IsValid() {
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, def.Frequency)
	}
	if def.Frequency == models.FrequencyCustom {
		if def.IntervalDays == nil || *def.IntervalDays <= 0 {
			return nil, fmt.Errorf("%w: custom frequency requires a positive day interval", ErrInvalidInput)
		}
	}
	if def.EndDate != nil && def.EndDate.Before(def.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}

	start := def.StartDate
	anchorDay := start.Day()
	anchorMonth := start.Month()

	var dates []time.Time
	for step := 0; ; step++ {
		var current time.Time
		switch def.Frequency {
		case models.FrequencyDaily:
			current = start.AddDate(0, 0, step)
		case models.FrequencyWeekly:
			current = start.AddDate(0, 0, 7*step)
		case models.FrequencyCustom:
			current = start.AddDate(0, 0, *def.IntervalDays*step)
		case models.FrequencyMonthly:
			current = addMonthsClamped(start, step, anchorDay)
		case models.FrequencyYearly:
			current = addYearsClamped(start, step, anchorMonth, anchorDay)
		}

		if current.After(horizon) {
			break
		}
		dates = append(dates, current)
	}
	return dates, nil
}

// addMonthsClamped moves n months forward, landing on the anchor day or the
// last valid day of the target month when the anchor day does not exist
func addMonthsClamped(start time.Time, n int, anchorDay int) time.Time {
	year, month := start.Year(), int(start.Month())+n
	// time.Date normalizes month overflow (month 13 becomes January next year)
	day := anchorDay
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, start.Location())
}

// addYearsClamped moves n years forward on the same month/day; Feb 29
// clamps to Feb 28 in non-leap target years
func addYearsClamped(start time.Time, n int, anchorMonth time.Month, anchorDay int) time.Time {
	year := start.Year() + n
	day := anchorDay
	if anchorMonth == time.February && anchorDay == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, anchorMonth, day, 0, 0, 0, 0, start.Location())
}

// daysInMonth returns the number of days in the given (possibly
// unnormalized) month
func daysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// isLeapYear applies the Gregorian rule: divisible by 4, not by 100,
// unless also by 400
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
